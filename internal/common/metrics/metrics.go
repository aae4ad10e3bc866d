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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	ProviderRankings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_rankings_total",
			Help: "Provider rankings computed, by provider source",
		},
		[]string{"source"},
	)

	DispatchReadinessBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_readiness_blocked_total",
			Help: "Readiness checks that blocked a dispatch, by reason",
		},
		[]string{"reason"},
	)

	DispatchesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatches_built_total",
			Help: "Outbound dispatches built, by mode",
		},
		[]string{"mode"},
	)

	// DestinationsNeedingAction is set by the latest SLA sweep.
	DestinationsNeedingAction = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outreach_destinations_needing_action",
			Help: "Destinations needing human action at the last sweep, by reason",
		},
		[]string{"reason"},
	)

	SweepLastRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "outreach_sla_sweep_last_run_timestamp_seconds",
			Help: "Unix time the last SLA sweep finished",
		},
	)
)

// ObserveJob records the outcome of one job. An empty errorCode means success.
func ObserveJob(taskType string, seconds float64, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(seconds)
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
