package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	SignalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "signaldesk",
			Subsystem: "signals",
			Name:      "latency_seconds",
			Help:      "Latency of signal endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SignalErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signaldesk",
			Subsystem: "signals",
			Name:      "errors_total",
			Help:      "Errors by signal endpoint",
		},
		[]string{"endpoint"},
	)

	SignalCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signaldesk",
			Subsystem: "signals",
			Name:      "cache_hits_total",
			Help:      "Response cache hits by endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(SignalLatency, SignalErrors, SignalCacheHits)
	})
}
