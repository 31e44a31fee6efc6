// internal/workers/feedback/submit-feedback/handler_test.go
package submitfeedback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

type fakeCollector struct {
	lastInterviewID string
	lastEntry       models.FeedbackEntry
	saved           *models.FeedbackEntry
	err             error
}

func (f *fakeCollector) SubmitFeedback(ctx context.Context, interviewID string, entry models.FeedbackEntry) (*models.FeedbackEntry, error) {
	f.lastInterviewID = interviewID
	f.lastEntry = entry
	if f.err != nil {
		return nil, f.err
	}
	return f.saved, nil
}

func createTestHandler(t *testing.T, collector *fakeCollector) *Handler {
	t.Helper()
	return NewHandler(&Config{Timeout: 5 * time.Second}, collector, logger.NewTestLogger(t))
}

func createInput() *Input {
	return &Input{
		InterviewID:    "iv-1",
		InterviewerID:  "user-1",
		Rating:         4,
		Comments:       "strong system design depth",
		Decision:       models.DecisionAdvance,
		Considerations: map[string]float64{"communication": 4},
	}
}

func TestExecute_Success(t *testing.T) {
	submitted := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	collector := &fakeCollector{
		saved: &models.FeedbackEntry{
			InterviewerID: "user-1",
			Rating:        4,
			UpdatedAt:     submitted,
		},
	}
	handler := createTestHandler(t, collector)

	output, err := handler.Execute(context.Background(), createInput())
	require.NoError(t, err)

	assert.Equal(t, "iv-1", output.InterviewID)
	assert.Equal(t, "user-1", output.InterviewerID)
	assert.Equal(t, "2026-05-20T12:00:00Z", output.SubmittedAt)

	assert.Equal(t, "iv-1", collector.lastInterviewID)
	assert.Equal(t, 4.0, collector.lastEntry.Rating)
	assert.Equal(t, models.DecisionAdvance, collector.lastEntry.Decision)
	assert.Equal(t, map[string]float64{"communication": 4}, collector.lastEntry.Considerations)
}

func TestExecute_RequiresInterviewID(t *testing.T) {
	collector := &fakeCollector{}
	handler := createTestHandler(t, collector)

	input := createInput()
	input.InterviewID = ""

	_, err := handler.Execute(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, collector.lastInterviewID)
}

func TestExecute_ForbiddenPassesThrough(t *testing.T) {
	collector := &fakeCollector{err: errors.NewFeedbackForbiddenError("user-99", "iv-1")}
	handler := createTestHandler(t, collector)

	input := createInput()
	input.InterviewerID = "user-99"

	_, err := handler.Execute(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
}
