// Package metrics defines and registers all custom Prometheus metrics for the
// skill-exchange API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skillx"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Graph metrics ─────────────────────────────────────────────────────────────

// PostsCreatedTotal counts posts appended to a user.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// RatingsSubmittedTotal counts rate calls.
// Label:
//   - result: "accepted" or "rejected"
var RatingsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_submitted_total",
		Help:      "Total number of ratings submitted, by result.",
	},
	[]string{"result"},
)

// ConnectionMutationsTotal counts successful connection edits.
// Label:
//   - op: "connect" or "disconnect"
var ConnectionMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connection_mutations_total",
		Help:      "Total number of connection graph mutations, by operation.",
	},
	[]string{"op"},
)

// ── Relay metrics ─────────────────────────────────────────────────────────────

// RelayMessagesTotal counts sendMessage events handled by the chat relay.
// Label:
//   - outcome: "delivered", "offline", "rejected" or "persist_failed"
var RelayMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_messages_total",
		Help:      "Total number of chat messages handled by the relay, by outcome.",
	},
	[]string{"outcome"},
)

// WebSocketConnections tracks currently open relay connections.
var WebSocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connections",
		Help:      "Current number of open WebSocket connections.",
	},
)

// MutationQueueDepth tracks the number of jobs waiting in each serializer worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MutationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mutation_queue_depth",
		Help:      "Current number of user mutations pending in each serializer worker.",
	},
	[]string{"worker_id"},
)
