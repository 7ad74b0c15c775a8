package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const presenceTimeout = 2 * time.Second

// Presence mirrors room membership to a store shared across processes.
type Presence interface {
	Connected(ctx context.Context, userID string) error
	Disconnected(ctx context.Context, userID string) error
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// Hub maps a room key (a user ID) to the set of live clients joined to it.
// Clients join on connect and leave on disconnect; emitting to a room with
// no members is a no-op.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}

	presence Presence
	active   prometheus.Gauge
	log      zerolog.Logger
}

type HubOption func(*Hub)

// WithPresence mirrors membership counts into p.
func WithPresence(p Presence) HubOption {
	return func(h *Hub) { h.presence = p }
}

// WithActiveGauge tracks the number of open connections in g.
func WithActiveGauge(g prometheus.Gauge) HubOption {
	return func(h *Hub) { h.active = g }
}

func NewHub(log zerolog.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
		log:     log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds c to its user's room. Anonymous clients are counted but join
// no room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if c.UserID != "" {
		room, ok := h.rooms[c.UserID]
		if !ok {
			room = make(map[*Client]struct{})
			h.rooms[c.UserID] = room
		}
		room[c] = struct{}{}
	}
	h.mu.Unlock()

	if h.active != nil {
		h.active.Inc()
	}
	if c.UserID != "" && h.presence != nil {
		ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
		defer cancel()
		if err := h.presence.Connected(ctx, c.UserID); err != nil {
			h.log.Warn().Err(err).Str("user_id", c.UserID).Msg("presence connect failed")
		}
	}
}

// Unregister removes c from its room. Calling it twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, known := h.clients[c]
	delete(h.clients, c)
	if room, ok := h.rooms[c.UserID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.UserID)
		}
	}
	h.mu.Unlock()

	if !known {
		return
	}
	if h.active != nil {
		h.active.Dec()
	}
	if c.UserID != "" && h.presence != nil {
		ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
		defer cancel()
		if err := h.presence.Disconnected(ctx, c.UserID); err != nil {
			h.log.Warn().Err(err).Str("user_id", c.UserID).Msg("presence disconnect failed")
		}
	}
}

// Emit queues frame on every client in room except origin and returns how
// many clients accepted it.
func (h *Hub) Emit(room string, frame []byte, origin *Client) int {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c != origin {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if c.Enqueue(frame) {
			delivered++
		}
	}
	return delivered
}

// RoomSize returns how many live clients are joined to room in this process.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Connections returns the number of open connections, anonymous included.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsOnline reports whether userID has a live connection. The shared presence
// store is consulted when configured; local membership answers otherwise.
func (h *Hub) IsOnline(ctx context.Context, userID string) (bool, error) {
	if h.RoomSize(userID) > 0 {
		return true, nil
	}
	if h.presence == nil {
		return false, nil
	}
	return h.presence.IsOnline(ctx, userID)
}

// Shutdown closes every client. Their read pumps unregister them as the
// sockets go away.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		c.Close()
	}
	h.log.Info().Int("clients", len(all)).Msg("relay hub shut down")
}
