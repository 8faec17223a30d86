package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Namespace: "sky_mods",
		Subsystem: "pricing",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of one pricing source fetch per request.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	optionalFailures = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "sky_mods",
		Subsystem: "pricing",
		Name:      "optional_failures_total",
		Help:      "Optional lookups that failed or timed out and were left empty.",
	}, []string{"source"})

	priceFailures = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "sky_mods",
		Subsystem: "pricing",
		Name:      "estimator_failures_total",
		Help:      "Batches answered without price estimates.",
	})
)
