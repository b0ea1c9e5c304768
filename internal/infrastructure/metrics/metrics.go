package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat sync client metrics
var (
	// Directory load outcomes
	DirectoryLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teamhub",
			Subsystem: "chat_sync",
			Name:      "directory_loads_total",
			Help:      "Total conversation directory loads",
		},
		[]string{"status"},
	)

	// Last-message backfill outcomes
	BackfillTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teamhub",
			Subsystem: "chat_sync",
			Name:      "backfill_total",
			Help:      "Total last-message backfill fetches",
		},
		[]string{"status"},
	)

	// Active conversation message fetches
	MessageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teamhub",
			Subsystem: "chat_sync",
			Name:      "message_fetches_total",
			Help:      "Total active-conversation message fetches",
		},
		[]string{"status"},
	)

	// Stale fetches dropped by the last-selection-wins guard
	StaleFetchesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "teamhub",
			Subsystem: "chat_sync",
			Name:      "stale_fetches_discarded_total",
			Help:      "Fetch results discarded because a newer selection superseded them",
		},
	)

	// Mutation pipeline outcomes
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teamhub",
			Subsystem: "chat_sync",
			Name:      "mutations_total",
			Help:      "Total write operations by outcome",
		},
		[]string{"operation", "status"},
	)
)
