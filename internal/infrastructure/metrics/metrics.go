package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connected session gauge
	SessionsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nexus",
			Subsystem: "chat",
			Name:      "sessions_connected",
			Help:      "Number of currently connected sessions",
		},
	)

	// Fan-out counters
	EventsFannedOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "chat",
			Name:      "events_fanned_out_total",
			Help:      "Total events delivered to session buffers",
		},
		[]string{"type"},
	)

	DroppedSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "chat",
			Name:      "dropped_sends_total",
			Help:      "Events skipped because a session buffer was full",
		},
		[]string{"type"},
	)

	DuplicatesAbsorbed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "chat",
			Name:      "duplicates_absorbed_total",
			Help:      "Events silently dropped because their ID was already observed in the room",
		},
	)

	// Persistence counters
	MessagesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "chat",
			Name:      "messages_persisted_total",
			Help:      "Messages accepted and persisted",
		},
	)

	// AI query counters
	AIQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "chat",
			Name:      "ai_queries_total",
			Help:      "AI queries by outcome",
		},
		[]string{"outcome"},
	)
)
