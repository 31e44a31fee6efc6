// internal/scheduling/manager.go
package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"careers-scheduling/internal/calendar"
	"careers-scheduling/internal/common/config"
	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/common/metrics"
	"careers-scheduling/internal/models"
)

// ApplicationStore is the aggregate persistence surface the manager needs.
type ApplicationStore interface {
	FindByID(ctx context.Context, applicationID string) (*models.Application, error)
	FindContainingInterview(ctx context.Context, interviewID string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	ListActive(ctx context.Context) ([]*models.Application, error)
	ListWithInterviews(ctx context.Context) ([]*models.Application, error)
}

// AttendeeResolver maps interviewer ids to invite attendees.
type AttendeeResolver interface {
	ResolveAttendees(ctx context.Context, interviewers []models.Interviewer) []models.Attendee
}

// InviteGenerator produces a calendar invite, never failing.
type InviteGenerator interface {
	GenerateInvite(ctx context.Context, providerType calendar.ProviderType, event models.CalendarEvent) models.Invite
}

// InterviewIndexer mirrors interviews into the search index, best-effort.
type InterviewIndexer interface {
	IndexInterview(ctx context.Context, app *models.Application, interview *models.Interview)
}

// ScheduleRequest carries everything needed to create one interview.
type ScheduleRequest struct {
	ApplicationID    string               `json:"applicationId"`
	ScheduledDate    time.Time            `json:"scheduledDate"`
	DurationMinutes  int                  `json:"durationMinutes,omitempty"`
	Title            string               `json:"title"`
	Description      string               `json:"description,omitempty"`
	Interviewers     []models.Interviewer `json:"interviewers"`
	ProcessID        string               `json:"processId,omitempty"`
	Location         string               `json:"location,omitempty"`
	OnlineMeetingURL string               `json:"onlineMeetingUrl,omitempty"`
	MeetingID        string               `json:"meetingId,omitempty"`
	MeetingPassword  string               `json:"meetingPassword,omitempty"`
	Provider         string               `json:"provider,omitempty"` // calendar provider, "" means plain ICS
}

// InterviewView is the flattened read projection: one embedded interview
// joined with display fields from its owning application.
type InterviewView struct {
	models.Interview

	ApplicationID string `json:"applicationId"`
	CandidateID   string `json:"candidateId"`
	CandidateName string `json:"candidateName"`
	JobID         string `json:"jobId"`
	JobTitle      string `json:"jobTitle"`
	CompanyID     string `json:"companyId"`
}

// Manager owns the interview lifecycle on candidate applications. All
// mutations go through a read-modify-write cycle on the whole aggregate
// under an optimistic version check, retried on conflict. Invite generation
// and search mirroring are side effects: they run after the state change is
// durable and never fail the operation.
type Manager struct {
	apps      ApplicationStore
	directory AttendeeResolver
	invites   InviteGenerator
	indexer   InterviewIndexer
	cfg       config.SchedulingConfig
	logger    logger.Logger

	now func() time.Time
}

func NewManager(apps ApplicationStore, directory AttendeeResolver, invites InviteGenerator, indexer InterviewIndexer, cfg config.SchedulingConfig, log logger.Logger) *Manager {
	if cfg.MaxInterviewers <= 0 {
		cfg.MaxInterviewers = 10
	}
	if cfg.DefaultDurationMin <= 0 {
		cfg.DefaultDurationMin = 60
	}
	if cfg.SaveRetries <= 0 {
		cfg.SaveRetries = 3
	}
	return &Manager{
		apps:      apps,
		directory: directory,
		invites:   invites,
		indexer:   indexer,
		cfg:       cfg,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ScheduleInterview appends a new interview to the application. Stage and
// status are copied from the application's pipeline status at this moment
// and are never re-derived afterwards; the title gets the same status as a
// capitalized prefix. The application's own pipeline status is not touched.
func (m *Manager) ScheduleInterview(ctx context.Context, req *ScheduleRequest) (*InterviewView, *models.Invite, error) {
	if err := m.validateScheduleRequest(req); err != nil {
		metrics.InterviewOperations.WithLabelValues("schedule", "validation_failed").Inc()
		return nil, nil, err
	}

	var created *models.Interview
	app, err := m.mutate(ctx,
		func(ctx context.Context) (*models.Application, error) {
			return m.apps.FindByID(ctx, req.ApplicationID)
		},
		func(app *models.Application) error {
			now := m.now()
			interview := models.Interview{
				ID:               uuid.New().String(),
				ScheduledDate:    req.ScheduledDate.UTC(),
				DurationMinutes:  req.DurationMinutes,
				Title:            models.TitleWithStatusPrefix(app.Status, req.Title),
				Description:      req.Description,
				Stage:            app.Status,
				Status:           app.Status,
				Interviewers:     req.Interviewers,
				Location:         req.Location,
				OnlineMeetingURL: req.OnlineMeetingURL,
				MeetingID:        req.MeetingID,
				MeetingPassword:  req.MeetingPassword,
				ProcessID:        req.ProcessID,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if interview.DurationMinutes <= 0 {
				interview.DurationMinutes = m.cfg.DefaultDurationMin
			}
			app.Interviews = append(app.Interviews, interview)
			created = &app.Interviews[len(app.Interviews)-1]
			return nil
		})
	if err != nil {
		metrics.InterviewOperations.WithLabelValues("schedule", "error").Inc()
		return nil, nil, err
	}

	metrics.InterviewOperations.WithLabelValues("schedule", "success").Inc()
	m.logger.Info("interview scheduled", map[string]interface{}{
		"applicationId": app.ID,
		"interviewId":   created.ID,
		"scheduledDate": created.ScheduledDate.Format(time.RFC3339),
		"interviewers":  len(created.Interviewers),
	})

	m.indexer.IndexInterview(ctx, app, created)
	invite := m.generateInvite(ctx, req.Provider, app, created)

	view := newInterviewView(app, created)
	return &view, &invite, nil
}

// CancelInterview marks the interview cancelled and records the reason.
// Cancelling an already-cancelled interview succeeds and overwrites the
// previous reason; callers treat the second cancel as an update.
func (m *Manager) CancelInterview(ctx context.Context, interviewID, reason string) (*InterviewView, error) {
	var cancelled *models.Interview
	app, err := m.mutate(ctx,
		func(ctx context.Context) (*models.Application, error) {
			return m.apps.FindContainingInterview(ctx, interviewID)
		},
		func(app *models.Application) error {
			interview := app.FindInterview(interviewID)
			if interview == nil {
				return errors.NewInterviewNotFoundError(interviewID)
			}
			interview.Status = models.InterviewStatusCancelled
			interview.CancellationReason = reason
			interview.UpdatedAt = m.now()
			cancelled = interview
			return nil
		})
	if err != nil {
		metrics.InterviewOperations.WithLabelValues("cancel", "error").Inc()
		return nil, err
	}

	metrics.InterviewOperations.WithLabelValues("cancel", "success").Inc()
	m.logger.Info("interview cancelled", map[string]interface{}{
		"applicationId": app.ID,
		"interviewId":   interviewID,
		"reason":        reason,
	})

	m.indexer.IndexInterview(ctx, app, cancelled)

	view := newInterviewView(app, cancelled)
	return &view, nil
}

// RescheduleInterview moves the interview to a new instant. Only
// ScheduledDate and UpdatedAt change; status, stage, and title stay as
// scheduled. Past instants are accepted, date sanity is the caller's call.
func (m *Manager) RescheduleInterview(ctx context.Context, interviewID string, newDate time.Time, provider string) (*InterviewView, *models.Invite, error) {
	if newDate.IsZero() {
		metrics.InterviewOperations.WithLabelValues("reschedule", "validation_failed").Inc()
		return nil, nil, errors.NewScheduleValidationError("newDate is required")
	}

	var rescheduled *models.Interview
	app, err := m.mutate(ctx,
		func(ctx context.Context) (*models.Application, error) {
			return m.apps.FindContainingInterview(ctx, interviewID)
		},
		func(app *models.Application) error {
			interview := app.FindInterview(interviewID)
			if interview == nil {
				return errors.NewInterviewNotFoundError(interviewID)
			}
			interview.ScheduledDate = newDate.UTC()
			interview.UpdatedAt = m.now()
			rescheduled = interview
			return nil
		})
	if err != nil {
		metrics.InterviewOperations.WithLabelValues("reschedule", "error").Inc()
		return nil, nil, err
	}

	metrics.InterviewOperations.WithLabelValues("reschedule", "success").Inc()
	m.logger.Info("interview rescheduled", map[string]interface{}{
		"applicationId": app.ID,
		"interviewId":   interviewID,
		"scheduledDate": rescheduled.ScheduledDate.Format(time.RFC3339),
	})

	m.indexer.IndexInterview(ctx, app, rescheduled)
	invite := m.generateInvite(ctx, provider, app, rescheduled)

	view := newInterviewView(app, rescheduled)
	return &view, &invite, nil
}

// UpdateInterviewers replaces the panel wholesale. The creation-time size
// cap is intentionally not re-checked here: replacement is an administrative
// override and may shrink the panel to empty or grow it past the cap.
func (m *Manager) UpdateInterviewers(ctx context.Context, interviewID string, interviewers []models.Interviewer) (*InterviewView, error) {
	if err := validateUniqueInterviewers(interviewers); err != nil {
		metrics.InterviewOperations.WithLabelValues("update_interviewers", "validation_failed").Inc()
		return nil, err
	}

	var updated *models.Interview
	app, err := m.mutate(ctx,
		func(ctx context.Context) (*models.Application, error) {
			return m.apps.FindContainingInterview(ctx, interviewID)
		},
		func(app *models.Application) error {
			interview := app.FindInterview(interviewID)
			if interview == nil {
				return errors.NewInterviewNotFoundError(interviewID)
			}
			interview.Interviewers = interviewers
			interview.UpdatedAt = m.now()
			updated = interview
			return nil
		})
	if err != nil {
		metrics.InterviewOperations.WithLabelValues("update_interviewers", "error").Inc()
		return nil, err
	}

	metrics.InterviewOperations.WithLabelValues("update_interviewers", "success").Inc()
	m.logger.Info("interview panel replaced", map[string]interface{}{
		"applicationId": app.ID,
		"interviewId":   interviewID,
		"interviewers":  len(interviewers),
	})

	m.indexer.IndexInterview(ctx, app, updated)

	view := newInterviewView(app, updated)
	return &view, nil
}

// GetInterviewByID returns the flattened projection of one interview.
func (m *Manager) GetInterviewByID(ctx context.Context, interviewID string) (*InterviewView, error) {
	app, err := m.apps.FindContainingInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	interview := app.FindInterview(interviewID)
	if interview == nil {
		return nil, errors.NewInterviewNotFoundError(interviewID)
	}
	view := newInterviewView(app, interview)
	return &view, nil
}

// ListActiveInterviews flattens interviews across every application still in
// the active pipeline.
func (m *Manager) ListActiveInterviews(ctx context.Context) ([]InterviewView, error) {
	apps, err := m.apps.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return flattenInterviews(apps, nil), nil
}

// ListUpcomingInterviews returns interviews scheduled from the start of
// today (UTC) onward, across all applications.
func (m *Manager) ListUpcomingInterviews(ctx context.Context) ([]InterviewView, error) {
	apps, err := m.apps.ListWithInterviews(ctx)
	if err != nil {
		return nil, err
	}
	startOfToday := m.now().Truncate(24 * time.Hour)
	return flattenInterviews(apps, func(iv *models.Interview) bool {
		return !iv.ScheduledDate.Before(startOfToday)
	}), nil
}

// mutate runs one read-modify-write cycle under the optimistic version
// check, re-reading and reapplying the mutation on conflict up to the
// configured retry budget.
func (m *Manager) mutate(ctx context.Context, read func(context.Context) (*models.Application, error), apply func(*models.Application) error) (*models.Application, error) {
	var lastErr error
	for attempt := 0; attempt < m.cfg.SaveRetries; attempt++ {
		app, err := read(ctx)
		if err != nil {
			return nil, err
		}
		if err := apply(app); err != nil {
			return nil, err
		}
		if err := m.apps.Update(ctx, app); err != nil {
			if errors.IsConflict(err) {
				lastErr = err
				m.logger.Warn("concurrent application update, retrying", map[string]interface{}{
					"applicationId": app.ID,
					"attempt":       attempt + 1,
				})
				continue
			}
			return nil, err
		}
		return app, nil
	}
	return nil, lastErr
}

func (m *Manager) validateScheduleRequest(req *ScheduleRequest) error {
	if req.ApplicationID == "" {
		return errors.NewScheduleValidationError("applicationId is required")
	}
	if req.Title == "" {
		return errors.NewScheduleValidationError("title is required")
	}
	if req.ScheduledDate.IsZero() {
		return errors.NewScheduleValidationError("scheduledDate is required")
	}
	if len(req.Interviewers) == 0 {
		return errors.NewScheduleValidationError("at least one interviewer is required")
	}
	if len(req.Interviewers) > m.cfg.MaxInterviewers {
		return errors.NewTooManyInterviewersError(len(req.Interviewers), m.cfg.MaxInterviewers)
	}
	return validateUniqueInterviewers(req.Interviewers)
}

func validateUniqueInterviewers(interviewers []models.Interviewer) error {
	seen := make(map[string]struct{}, len(interviewers))
	for _, iv := range interviewers {
		if iv.ParticipantID == "" {
			return errors.NewScheduleValidationError("interviewer participantId is required")
		}
		if _, dup := seen[iv.ParticipantID]; dup {
			return errors.NewScheduleValidationError(fmt.Sprintf("duplicate interviewer: %s", iv.ParticipantID))
		}
		seen[iv.ParticipantID] = struct{}{}
	}
	return nil
}

// generateInvite builds the provider-neutral event and hands it to the
// router. The router guarantees a non-empty invite. The candidate is invited
// alongside the panel when their directory record resolves.
func (m *Manager) generateInvite(ctx context.Context, provider string, app *models.Application, interview *models.Interview) models.Invite {
	participants := make([]models.Interviewer, 0, len(interview.Interviewers)+1)
	participants = append(participants, interview.Interviewers...)
	if app.CandidateID != "" {
		participants = append(participants, models.Interviewer{
			ParticipantID: app.CandidateID,
			DisplayName:   app.CandidateName,
		})
	}

	event := models.CalendarEvent{
		UID:              interview.ID,
		Title:            interview.Title,
		Description:      interview.Description,
		StartDate:        interview.ScheduledDate,
		EndDate:          interview.ScheduledDate.Add(time.Duration(interview.DurationMinutes) * time.Minute),
		Attendees:        m.directory.ResolveAttendees(ctx, participants),
		Location:         interview.Location,
		OnlineMeetingURL: interview.OnlineMeetingURL,
		MeetingID:        interview.MeetingID,
		MeetingPassword:  interview.MeetingPassword,
	}
	return m.invites.GenerateInvite(ctx, calendar.ParseProviderType(provider), event)
}

func newInterviewView(app *models.Application, interview *models.Interview) InterviewView {
	return InterviewView{
		Interview:     *interview,
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		CandidateName: app.CandidateName,
		JobID:         app.JobID,
		JobTitle:      app.JobTitle,
		CompanyID:     app.CompanyID,
	}
}

func flattenInterviews(apps []*models.Application, keep func(*models.Interview) bool) []InterviewView {
	views := make([]InterviewView, 0)
	for _, app := range apps {
		for i := range app.Interviews {
			interview := &app.Interviews[i]
			if keep != nil && !keep(interview) {
				continue
			}
			views = append(views, newInterviewView(app, interview))
		}
	}
	return views
}
