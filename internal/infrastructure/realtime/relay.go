package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/xchange/skill-exchange/internal/core/domain"
	"github.com/xchange/skill-exchange/internal/core/ports"
)

const (
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"

	persistTimeout = 10 * time.Second
)

// Envelope is the frame exchanged over the socket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type sendMessagePayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}

// Relay upgrades HTTP requests to WebSockets, persists every sendMessage
// event through the chat service and forwards the stored message to the
// receiver's room. Failures are logged and never reported to the sender.
type Relay struct {
	hub      *Hub
	chat     ports.ChatService
	upgrader websocket.Upgrader
	outcomes *prometheus.CounterVec
	log      zerolog.Logger
}

type RelayOption func(*Relay)

// WithAllowedOrigins restricts the handshake Origin header. "*" admits all.
func WithAllowedOrigins(origins []string) RelayOption {
	return func(r *Relay) { r.upgrader.CheckOrigin = originChecker(origins) }
}

// WithOutcomeCounter counts handled events under an outcome label:
// delivered, offline, rejected or persist_failed.
func WithOutcomeCounter(c *prometheus.CounterVec) RelayOption {
	return func(r *Relay) { r.outcomes = c }
}

func NewRelay(hub *Hub, chat ports.ChatService, log zerolog.Logger, opts ...RelayOption) *Relay {
	r := &Relay{
		hub:  hub,
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker([]string{"*"}),
		},
		log: log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ServeHTTP handles GET /ws?userId=<id>. The connection joins the room named
// by userId for as long as it stays open.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		r.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	userID := strings.TrimSpace(req.URL.Query().Get("userId"))
	client := newClient(r.hub, conn, userID, r.log)
	r.hub.Register(client)
	r.log.Debug().Str("user_id", userID).Msg("client connected")

	go client.writePump()
	client.readPump(func(c *Client, frame []byte) {
		r.handleFrame(req.Context(), c, frame)
	})
	r.log.Debug().Str("user_id", userID).Msg("client disconnected")
}

func (r *Relay) handleFrame(ctx context.Context, c *Client, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		r.log.Debug().Err(err).Str("user_id", c.UserID).Msg("malformed frame")
		r.count("rejected")
		return
	}

	switch env.Event {
	case EventSendMessage:
		r.sendMessage(ctx, c, env.Data)
	default:
		r.log.Debug().Str("event", env.Event).Str("user_id", c.UserID).Msg("unknown event ignored")
	}
}

func (r *Relay) sendMessage(ctx context.Context, origin *Client, data json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		r.log.Warn().Err(err).Msg("sendMessage: bad payload")
		r.count("rejected")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	msg, err := r.chat.SendMessage(ctx, ports.SendMessageInput{
		Sender:   p.Sender,
		Receiver: p.Receiver,
		Content:  p.Content,
	})
	if err != nil {
		outcome := "persist_failed"
		if errors.Is(err, domain.ErrBadInput) {
			outcome = "rejected"
		}
		r.log.Error().Err(err).
			Str("sender", p.Sender).
			Str("receiver", p.Receiver).
			Msg("sendMessage dropped")
		r.count(outcome)
		return
	}

	frame, err := encode(EventReceiveMessage, msg)
	if err != nil {
		r.log.Error().Err(err).Str("message_id", msg.ID).Msg("encode receiveMessage")
		return
	}

	if n := r.hub.Emit(msg.Receiver, frame, origin); n > 0 {
		r.count("delivered")
	} else {
		r.count("offline")
	}
}

func (r *Relay) count(outcome string) {
	if r.outcomes != nil {
		r.outcomes.WithLabelValues(outcome).Inc()
	}
}

func encode(event string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}
