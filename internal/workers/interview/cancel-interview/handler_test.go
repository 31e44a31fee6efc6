// internal/workers/interview/cancel-interview/handler_test.go
package cancelinterview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
	"careers-scheduling/internal/scheduling"
)

type fakeCanceller struct {
	lastInterviewID string
	lastReason      string
	view            *scheduling.InterviewView
	err             error
}

func (f *fakeCanceller) CancelInterview(ctx context.Context, interviewID, reason string) (*scheduling.InterviewView, error) {
	f.lastInterviewID = interviewID
	f.lastReason = reason
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func createTestHandler(t *testing.T, canceller *fakeCanceller) *Handler {
	t.Helper()
	return NewHandler(&Config{Timeout: 5 * time.Second}, canceller, logger.NewTestLogger(t))
}

func TestExecute_Success(t *testing.T) {
	canceller := &fakeCanceller{
		view: &scheduling.InterviewView{
			Interview: models.Interview{
				ID:                 "iv-1",
				Status:             models.InterviewStatusCancelled,
				CancellationReason: "candidate unavailable",
				UpdatedAt:          time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC),
			},
			ApplicationID: "app-1",
		},
	}
	handler := createTestHandler(t, canceller)

	output, err := handler.Execute(context.Background(), &Input{
		InterviewID: "iv-1",
		Reason:      "candidate unavailable",
	})
	require.NoError(t, err)

	assert.Equal(t, "iv-1", output.InterviewID)
	assert.Equal(t, "app-1", output.ApplicationID)
	assert.Equal(t, models.InterviewStatusCancelled, output.Status)
	assert.Equal(t, "candidate unavailable", output.CancellationReason)
	assert.Equal(t, "2026-05-20T09:00:00Z", output.CancelledAt)
	assert.Equal(t, "candidate unavailable", canceller.lastReason)
}

func TestExecute_RequiresInterviewID(t *testing.T) {
	canceller := &fakeCanceller{}
	handler := createTestHandler(t, canceller)

	_, err := handler.Execute(context.Background(), &Input{Reason: "whatever"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, canceller.lastInterviewID)
}

func TestExecute_NotFoundPassesThrough(t *testing.T) {
	canceller := &fakeCanceller{err: errors.NewInterviewNotFoundError("iv-missing")}
	handler := createTestHandler(t, canceller)

	_, err := handler.Execute(context.Background(), &Input{InterviewID: "iv-missing"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
