// Package metrics exposes the Prometheus instruments for the analysis
// engine, served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultline_jobs_submitted_total",
		Help: "Jobs accepted for analysis, including cache hits.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultline_cache_hits_total",
		Help: "Submissions served from the content-addressed result cache.",
	})

	JobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultline_jobs_completed_total",
		Help: "Jobs that reached the completed state through the pipeline.",
	})

	JobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultline_jobs_failed_total",
		Help: "Jobs that reached the failed state.",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "faultline_stage_duration_seconds",
		Help:    "Wall-clock duration per pipeline stage.",
		Buckets: prometheus.ExponentialBuckets(0.005, 3, 10),
	}, []string{"stage"})
)
