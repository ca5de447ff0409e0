// Package metrics provides Prometheus metrics for the Aster service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsIngested tracks records accepted into resolution working sets
	RecordsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "resolution",
			Name:      "records_ingested_total",
			Help:      "Total number of records ingested for resolution",
		},
		[]string{"source"},
	)

	// RecordsSkipped tracks records dropped for missing ids
	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "resolution",
			Name:      "records_skipped_total",
			Help:      "Total number of records skipped during ingestion",
		},
		[]string{"source"},
	)

	// ResolutionsTotal tracks resolution runs by mode and outcome
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "resolution",
			Name:      "runs_total",
			Help:      "Total number of resolution runs by mode and status",
		},
		[]string{"mode", "status"},
	)

	// IdentitiesProduced tracks resolved identities across all runs
	IdentitiesProduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "resolution",
			Name:      "identities_total",
			Help:      "Total number of resolved identities produced",
		},
	)

	// ResolutionDuration tracks resolution run duration in seconds
	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "resolution",
			Name:      "duration_seconds",
			Help:      "Duration of resolution runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	// EventsEmitted tracks identity events published to Kafka
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Total number of identity events emitted",
		},
		[]string{"event_type", "status"},
	)
)
