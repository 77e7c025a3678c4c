package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepRuns counts completed sweep runs per entity kind and outcome.
	SweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_sweep_runs_total",
			Help: "Total number of lifecycle sweep runs by entity kind and result.",
		},
		[]string{"kind", "result"},
	)

	// PurgedEntities counts hard-deleted rows per entity kind.
	PurgedEntities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_purged_entities_total",
			Help: "Total number of entities hard-deleted by lifecycle sweeps.",
		},
		[]string{"kind"},
	)

	// SweepDuration observes how long each sweep run takes.
	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifecycle_sweep_duration_seconds",
			Help:    "Duration of lifecycle sweep runs.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// SweepLockContention counts ticks skipped because another instance held
	// the sweep lock.
	SweepLockContention = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_sweep_lock_contention_total",
			Help: "Total number of sweep ticks skipped due to a held sweep lock.",
		},
		[]string{"kind"},
	)
)
