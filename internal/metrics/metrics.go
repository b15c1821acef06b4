// Package metrics provides Prometheus metrics for the headline relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts relay invocations by terminal outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "headline_relay",
			Name:      "runs_total",
			Help:      "Total number of relay invocations by outcome",
		},
		[]string{"provider", "outcome", "reason"},
	)

	// RunDuration measures end-to-end invocation duration.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "headline_relay",
			Name:      "run_duration_seconds",
			Help:      "Duration of relay invocations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// StageFailuresTotal counts fatal failures by pipeline stage.
	StageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "headline_relay",
			Name:      "stage_failures_total",
			Help:      "Total number of fatal pipeline failures by stage",
		},
		[]string{"provider", "stage"},
	)

	// ImageFetchSoftFailuresTotal counts image fetches that degraded the post to text-only.
	ImageFetchSoftFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "headline_relay",
			Name:      "image_fetch_soft_failures_total",
			Help:      "Total number of image fetch failures that fell back to text-only posts",
		},
		[]string{"provider"},
	)

	// OrphanPostsTotal counts primary posts left without their link reply.
	OrphanPostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "headline_relay",
			Name:      "orphan_posts_total",
			Help:      "Total number of primary posts published without a link reply",
		},
		[]string{"provider"},
	)
)

// RecordRun records one finished invocation.
func RecordRun(provider, outcome, reason string, seconds float64) {
	RunsTotal.WithLabelValues(provider, outcome, reason).Inc()
	RunDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordStageFailure records a fatal failure in stage.
func RecordStageFailure(provider, stage string) {
	StageFailuresTotal.WithLabelValues(provider, stage).Inc()
}

// RecordImageFetchSoftFailure records an image fetch that was skipped.
func RecordImageFetchSoftFailure(provider string) {
	ImageFetchSoftFailuresTotal.WithLabelValues(provider).Inc()
}

// RecordOrphanPost records a primary post without its reply.
func RecordOrphanPost(provider string) {
	OrphanPostsTotal.WithLabelValues(provider).Inc()
}
