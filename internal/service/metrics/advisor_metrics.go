package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalyzeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fxdesk",
			Subsystem: "api",
			Name:      "analyze_latency_seconds",
			Help:      "Latency of analysis endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"feature"},
	)

	AnalyzeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fxdesk",
			Subsystem: "api",
			Name:      "analyze_errors_total",
			Help:      "Errors by analysis endpoint",
		},
		[]string{"feature"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalyzeLatency, AnalyzeErrors)
	})
}
