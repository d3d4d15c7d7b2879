package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightdesk",
		Name:      "searches_total",
		Help:      "Search orchestrations by trip type and outcome.",
	}, []string{"trip_type", "outcome"})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "flightdesk",
		Name:      "search_duration_seconds",
		Help:      "Wall time of one search orchestration, all segments included.",
		Buckets:   prometheus.DefBuckets,
	})

	SegmentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "flightdesk",
		Name:      "segment_fetch_failures_total",
		Help:      "Individual multi-city segment fetches that failed.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "flightdesk",
		Name:      "search_cache_hits_total",
		Help:      "Searches answered from the result cache.",
	})

	FlowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightdesk",
		Name:      "booking_flow_transitions_total",
		Help:      "Booking flow actions by kind (select, change, confirm).",
	}, []string{"action"})
)
