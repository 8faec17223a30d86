package modifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	modifierFailures = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "sky_mods",
		Name:      "modifier_failures_total",
		Help:      "Modifier phases that returned an error or panicked.",
	}, []string{"modifier", "phase"})

	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Namespace: "sky_mods",
		Subsystem: "pipeline",
		Name:      "phase_duration_seconds",
		Help:      "Duration of pipeline phases.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"phase"})
)
