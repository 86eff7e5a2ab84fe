package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analyses    *prometheus.CounterVec
	tokens      *prometheus.CounterVec
	dailySpend  prometheus.Gauge
	feedRefresh *prometheus.CounterVec
	feedItems   *prometheus.GaugeVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analyses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxdesk_analyses_total",
				Help: "Analysis runs by feature and outcome",
			},
			[]string{"feature", "outcome"},
		),
		tokens: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxdesk_completion_tokens_total",
				Help: "Tokens billed by the completion API",
			},
			[]string{"feature"},
		),
		dailySpend: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fxdesk_daily_spend_usd",
				Help: "Running daily spend against the budget ceiling",
			},
		),
		feedRefresh: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxdesk_feed_refresh_total",
				Help: "Feed refresh completions by source",
			},
			[]string{"feed"},
		),
		feedItems: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxdesk_feed_items",
				Help: "Item count from the last refresh of a source",
			},
			[]string{"feed"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxdesk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxdesk_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnalysis counts one analysis run per feature and outcome.
func (r *Recorder) RecordAnalysis(feature, outcome string) {
	r.analyses.WithLabelValues(feature, outcome).Inc()
}

// RecordTokens adds billed tokens from a completed call.
func (r *Recorder) RecordTokens(feature string, tokens int) {
	r.tokens.WithLabelValues(feature).Add(float64(tokens))
}

// RecordSpend sets the current daily spend gauge.
func (r *Recorder) RecordSpend(total float64) {
	r.dailySpend.Set(total)
}

// RecordFeedRefresh counts one refresh of an external source.
func (r *Recorder) RecordFeedRefresh(feed string, items int) {
	r.feedRefresh.WithLabelValues(feed).Inc()
	r.feedItems.WithLabelValues(feed).Set(float64(items))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
