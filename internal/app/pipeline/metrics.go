package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers pipeline outcomes and per-stage latency.
type Metrics struct {
	jobsCompleted prometheus.Counter
	jobsFailed    *prometheus.CounterVec
	jobDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		jobsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "reelscribe_jobs_completed_total",
			Help: "Jobs that reached the completed status.",
		}),
		jobsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reelscribe_jobs_failed_total",
			Help: "Jobs that reached the failed status, by error kind.",
		}, []string{"kind"}),
		jobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reelscribe_job_duration_seconds",
			Help:    "End-to-end job processing duration.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reelscribe_stage_duration_seconds",
			Help:    "Per-stage processing duration.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"stage"}),
	}
}

// NopMetrics registers on a throwaway registry, for tests and tools that do
// not export metrics.
func NopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
