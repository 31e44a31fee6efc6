// internal/feedback/collector.go
package feedback

import (
	"context"
	"fmt"
	"time"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/common/metrics"
	"careers-scheduling/internal/models"
)

// ApplicationStore is the aggregate persistence surface the collector needs.
type ApplicationStore interface {
	FindContainingInterview(ctx context.Context, interviewID string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
}

// UserResolver looks up an interviewer's contact details for reminders.
type UserResolver interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// ReminderNotifier dispatches a feedback reminder to one interviewer.
type ReminderNotifier interface {
	SendFeedbackReminder(ctx context.Context, recipient *models.User, candidateName string, interview *models.Interview) (string, error)
}

// Collector owns per-interviewer feedback entries on an interview. Entries
// are keyed by interviewer id with upsert semantics: one entry per
// interviewer, a repeat submission replaces the existing entry in place.
// Membership on the interview's panel is required for every write; the
// caller-supplied interviewer id is trusted, authentication happens upstream.
type Collector struct {
	apps        ApplicationStore
	directory   UserResolver
	notifier    ReminderNotifier
	saveRetries int
	logger      logger.Logger

	now func() time.Time
}

func NewCollector(apps ApplicationStore, directory UserResolver, notifier ReminderNotifier, saveRetries int, log logger.Logger) *Collector {
	if saveRetries <= 0 {
		saveRetries = 3
	}
	return &Collector{
		apps:        apps,
		directory:   directory,
		notifier:    notifier,
		saveRetries: saveRetries,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SubmitFeedback upserts the entry for entry.InterviewerID. A first
// submission appends; a repeat replaces the existing entry at its position,
// keeping the original CreatedAt. Fails with Forbidden when the interviewer
// is not on the panel.
func (c *Collector) SubmitFeedback(ctx context.Context, interviewID string, entry models.FeedbackEntry) (*models.FeedbackEntry, error) {
	if err := validateEntry(&entry); err != nil {
		return nil, err
	}

	var saved *models.FeedbackEntry
	var kind string
	err := c.mutateInterview(ctx, interviewID, func(interview *models.Interview) error {
		if !interview.HasInterviewer(entry.InterviewerID) {
			return errors.NewFeedbackForbiddenError(entry.InterviewerID, interviewID)
		}
		saved, kind = c.upsertEntry(interview, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.FeedbackSubmissions.WithLabelValues(kind).Inc()
	c.logger.Info("feedback recorded", map[string]interface{}{
		"interviewId":   interviewID,
		"interviewerId": entry.InterviewerID,
		"kind":          kind,
	})
	return saved, nil
}

// UpdateFeedback is SubmitFeedback restricted to existing entries: it fails
// with NotFound when the interviewer has not submitted yet.
func (c *Collector) UpdateFeedback(ctx context.Context, interviewID, interviewerID string, entry models.FeedbackEntry) (*models.FeedbackEntry, error) {
	entry.InterviewerID = interviewerID
	if err := validateEntry(&entry); err != nil {
		return nil, err
	}

	var saved *models.FeedbackEntry
	err := c.mutateInterview(ctx, interviewID, func(interview *models.Interview) error {
		if !interview.HasInterviewer(interviewerID) {
			return errors.NewFeedbackForbiddenError(interviewerID, interviewID)
		}
		if interview.FindFeedback(interviewerID) == nil {
			return errors.NewFeedbackNotFoundError(interviewID, interviewerID)
		}
		saved, _ = c.upsertEntry(interview, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.FeedbackSubmissions.WithLabelValues("updated").Inc()
	c.logger.Info("feedback updated", map[string]interface{}{
		"interviewId":   interviewID,
		"interviewerId": interviewerID,
	})
	return saved, nil
}

// GetFeedback returns all entries for the interview.
func (c *Collector) GetFeedback(ctx context.Context, interviewID string) ([]models.FeedbackEntry, error) {
	interview, _, err := c.findInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	return interview.Feedback, nil
}

// GetFeedbackByInterviewer returns one interviewer's entry, NotFound if absent.
func (c *Collector) GetFeedbackByInterviewer(ctx context.Context, interviewID, interviewerID string) (*models.FeedbackEntry, error) {
	interview, _, err := c.findInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	entry := interview.FindFeedback(interviewerID)
	if entry == nil {
		return nil, errors.NewFeedbackNotFoundError(interviewID, interviewerID)
	}
	return entry, nil
}

// SendFeedbackReminder nudges one panel member to submit their feedback.
// Membership is verified first; the dispatch itself is delegated.
func (c *Collector) SendFeedbackReminder(ctx context.Context, interviewID, interviewerID string) (string, error) {
	interview, app, err := c.findInterview(ctx, interviewID)
	if err != nil {
		return "", err
	}
	if !interview.HasInterviewer(interviewerID) {
		return "", errors.NewFeedbackForbiddenError(interviewerID, interviewID)
	}

	recipient, err := c.directory.GetUser(ctx, interviewerID)
	if err != nil {
		return "", err
	}

	notificationID, err := c.notifier.SendFeedbackReminder(ctx, recipient, app.CandidateName, interview)
	if err != nil {
		return "", err
	}

	c.logger.Info("feedback reminder sent", map[string]interface{}{
		"interviewId":    interviewID,
		"interviewerId":  interviewerID,
		"notificationId": notificationID,
	})
	return notificationID, nil
}

func (c *Collector) findInterview(ctx context.Context, interviewID string) (*models.Interview, *models.Application, error) {
	app, err := c.apps.FindContainingInterview(ctx, interviewID)
	if err != nil {
		return nil, nil, err
	}
	interview := app.FindInterview(interviewID)
	if interview == nil {
		return nil, nil, errors.NewInterviewNotFoundError(interviewID)
	}
	return interview, app, nil
}

// mutateInterview runs one read-modify-write cycle on the owning aggregate
// under the optimistic version check, retrying on conflict.
func (c *Collector) mutateInterview(ctx context.Context, interviewID string, apply func(*models.Interview) error) error {
	var lastErr error
	for attempt := 0; attempt < c.saveRetries; attempt++ {
		app, err := c.apps.FindContainingInterview(ctx, interviewID)
		if err != nil {
			return err
		}
		interview := app.FindInterview(interviewID)
		if interview == nil {
			return errors.NewInterviewNotFoundError(interviewID)
		}
		if err := apply(interview); err != nil {
			return err
		}
		if err := c.apps.Update(ctx, app); err != nil {
			if errors.IsConflict(err) {
				lastErr = err
				c.logger.Warn("concurrent application update, retrying", map[string]interface{}{
					"interviewId": interviewID,
					"attempt":     attempt + 1,
				})
				continue
			}
			return err
		}
		return nil
	}
	return lastErr
}

// upsertEntry replaces an existing entry in place, keeping its array
// position and original CreatedAt, or appends a new one. The owning
// interview's UpdatedAt is bumped either way.
func (c *Collector) upsertEntry(interview *models.Interview, entry models.FeedbackEntry) (*models.FeedbackEntry, string) {
	now := c.now()
	entry.UpdatedAt = now
	interview.UpdatedAt = now

	if existing := interview.FindFeedback(entry.InterviewerID); existing != nil {
		entry.CreatedAt = existing.CreatedAt
		*existing = entry
		return existing, "updated"
	}

	entry.CreatedAt = now
	interview.Feedback = append(interview.Feedback, entry)
	return &interview.Feedback[len(interview.Feedback)-1], "created"
}

func validateEntry(entry *models.FeedbackEntry) error {
	if entry.InterviewerID == "" {
		return errors.NewFeedbackValidationError("interviewerId is required")
	}
	switch entry.Decision {
	case "", models.DecisionAdvance, models.DecisionHold, models.DecisionReject:
	default:
		return errors.NewFeedbackValidationError(fmt.Sprintf("unknown decision: %s", entry.Decision))
	}
	return nil
}
