package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contactOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contacts",
			Name:      "operations_total",
			Help:      "Total number of contact operations handled.",
		},
		[]string{"operation", "status"}, // e.g., operation="add", status="duplicate"
	)

	contactOperationDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contacts",
			Name:      "operation_duration_seconds",
			Help:      "Duration of contact operations, including persistence.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	storedContactsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "contacts",
			Name:      "stored",
			Help:      "Number of contacts currently held in the collection.",
		},
	)

	droppedRecordsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "contacts",
			Name:      "load_dropped_records_total",
			Help:      "Total number of persisted records dropped as invalid during load.",
		},
	)

	eventsPublishedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contacts",
			Name:      "events_published_total",
			Help:      "Total number of contact change events published.",
		},
		[]string{"action", "status"},
	)
)
