package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Entry outcome labels.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"
)

var (
	// SyncBatches counts offline sync calls that reached the reconciler.
	SyncBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_sync_batches_total",
		Help: "Number of offline attendance sync batches processed.",
	})

	// SyncEntries counts individual batch entries by outcome.
	SyncEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_sync_entries_total",
		Help: "Number of offline attendance entries by reconciliation outcome.",
	}, []string{"outcome"})

	// Recordings counts live attendance submissions by outcome.
	Recordings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_recordings_total",
		Help: "Number of live attendance submissions by outcome.",
	}, []string{"outcome"})
)
