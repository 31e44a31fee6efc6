// internal/workers/interview/reschedule-interview/handler.go
package rescheduleinterview

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/common/metrics"
	"careers-scheduling/internal/models"
	"careers-scheduling/internal/scheduling"
)

const (
	TaskType = "reschedule-interview"
)

// Rescheduler is the slice of the lifecycle manager this worker uses.
type Rescheduler interface {
	RescheduleInterview(ctx context.Context, interviewID string, newDate time.Time, provider string) (*scheduling.InterviewView, *models.Invite, error)
}

type Handler struct {
	config       *Config
	manager      Rescheduler
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, manager Rescheduler, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		manager:      manager,
		logger:       scoped,
		errorHandler: errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failParse(client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode(err)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// Execute runs the business operation, exported for direct testing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.InterviewID == "" {
		return nil, errors.NewScheduleValidationError("interviewId is required")
	}

	view, invite, err := h.manager.RescheduleInterview(ctx, input.InterviewID, input.NewDate, input.Provider)
	if err != nil {
		return nil, err
	}

	return &Output{
		InterviewID:   view.ID,
		ApplicationID: view.ApplicationID,
		ScheduledDate: view.ScheduledDate.Format(time.RFC3339),
		Status:        view.Status,
		Invite:        *invite,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failParse(client worker.JobClient, job entities.Job, err error) {
	h.logger.Error("job input parse failed", map[string]interface{}{
		"jobKey": job.Key,
		"error":  err.Error(),
	})
	_, sendErr := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode("PARSE_ERROR").
		ErrorMessage(fmt.Sprintf("parse input: %v", err)).
		Send(context.Background())
	if sendErr != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": sendErr,
		})
	}
}

func errorCode(err error) string {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "INTERNAL_ERROR"
}
