// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	ProgressResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_resolutions_total",
			Help: "Stepper resolutions by domain and selected variant",
		},
		[]string{"domain", "variant"},
	)

	// ProgressStatusFallbacks counts records whose status was not in the
	// domain table and fell back to the first step.
	ProgressStatusFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_status_fallbacks_total",
			Help: "Resolutions of unmapped statuses that fell back to step 0",
		},
		[]string{"domain"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of progress API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

// RecordResolution counts one stepper resolution.
func RecordResolution(domain, variant string, recognized bool) {
	ProgressResolutions.WithLabelValues(domain, variant).Inc()
	if !recognized {
		ProgressStatusFallbacks.WithLabelValues(domain).Inc()
	}
}

// RecordJob counts a finished job. An empty errorCode means success.
func RecordJob(taskType, errorCode string) {
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
