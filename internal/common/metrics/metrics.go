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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	InterviewOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_operations_total",
			Help: "Total interview lifecycle operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)

	InviteGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invite_generated_total",
			Help: "Calendar invites generated, labelled by the provider that produced them",
		},
		[]string{"provider"},
	)

	InviteFallback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invite_fallback_total",
			Help: "Invite generations that fell back to a plain ICS attachment",
		},
		[]string{"provider", "reason"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "calendar_provider_call_duration_seconds",
			Help: "Duration of external calendar provider calls",
		},
		[]string{"provider"},
	)

	FeedbackSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Feedback submissions by kind (created or updated)",
		},
		[]string{"kind"},
	)
)
