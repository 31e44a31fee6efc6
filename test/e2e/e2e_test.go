// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/calendar"
	"careers-scheduling/internal/calendar/ics"
	"careers-scheduling/internal/common/config"
	"careers-scheduling/internal/common/database"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/directory"
	"careers-scheduling/internal/feedback"
	"careers-scheduling/internal/models"
	"careers-scheduling/internal/scheduling"
	"careers-scheduling/internal/search"
	"careers-scheduling/internal/store"
)

// Runs the scheduling and feedback flows against real PostgreSQL and Redis.
// Gated behind E2E_TESTS=true; `docker compose up -d postgres redis` brings
// up the dependencies locally.
func requireE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("E2E_TESTS") != "true" {
		t.Skip("set E2E_TESTS=true to run against real services")
	}
}

type e2eEnv struct {
	manager   *scheduling.Manager
	collector *feedback.Collector
	appStore  *store.ApplicationStore
	pg        *database.PostgresClient
}

func setupEnv(t *testing.T) *e2eEnv {
	t.Helper()
	ctx := context.Background()

	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "postgres connection failed")
	t.Cleanup(func() { pg.Close() })
	require.NoError(t, pg.Ping(ctx), "postgres ping failed")

	redis, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "redis connection failed")
	t.Cleanup(func() { redis.Close() })
	require.NoError(t, redis.Ping(ctx), "redis ping failed")

	ensureSchema(t, pg)

	appStore := store.NewApplicationStore(pg.DB, log)
	userDirectory := directory.New(pg.DB, redis.Client, time.Minute, log)
	indexer := search.NewIndexer(nil, log)

	// No provider adapters registered; every invite takes the ICS fallback,
	// which keeps the test hermetic with respect to Google and Microsoft.
	router := calendar.NewRouter(nil, ics.NewFormatter(""), 5*time.Second, log)

	manager := scheduling.NewManager(appStore, userDirectory, router, indexer, cfg.Scheduling, log)
	collector := feedback.NewCollector(appStore, userDirectory, nil, cfg.Scheduling.SaveRetries, log)

	return &e2eEnv{manager: manager, collector: collector, appStore: appStore, pg: pg}
}

func ensureSchema(t *testing.T, pg *database.PostgresClient) {
	t.Helper()
	ctx := context.Background()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS applications (
			id TEXT PRIMARY KEY,
			candidate_id TEXT NOT NULL,
			candidate_name TEXT NOT NULL,
			job_id TEXT NOT NULL,
			job_title TEXT NOT NULL,
			company_id TEXT NOT NULL,
			status TEXT NOT NULL,
			interviews JSONB NOT NULL DEFAULT '[]'::jsonb,
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			role TEXT,
			calendar_connected BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	}
	for _, stmt := range statements {
		_, err := pg.DB.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
}

func seedUser(t *testing.T, env *e2eEnv, id, name, email string) {
	t.Helper()
	_, err := env.pg.DB.ExecContext(context.Background(), `
		INSERT INTO users (id, name, email, role, calendar_connected)
		VALUES ($1, $2, $3, 'interviewer', FALSE)
		ON CONFLICT (id) DO UPDATE SET name = $2, email = $3`, id, name, email)
	require.NoError(t, err)
	t.Cleanup(func() {
		env.pg.DB.ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
}

func seedApplication(t *testing.T, env *e2eEnv) string {
	t.Helper()

	id := "e2e-app-" + time.Now().UTC().Format("20060102150405.000000000")
	_, err := env.pg.DB.ExecContext(context.Background(), `
		INSERT INTO applications
			(id, candidate_id, candidate_name, job_id, job_title, company_id,
			 status, interviews, version, created_at, updated_at)
		VALUES ($1, 'e2e-cand-1', 'E2E Candidate', 'e2e-job-1', 'Backend Engineer',
			'e2e-comp-1', 'screening', '[]'::jsonb, 1, NOW(), NOW())`, id)
	require.NoError(t, err)

	t.Cleanup(func() {
		env.pg.DB.ExecContext(context.Background(), `DELETE FROM applications WHERE id = $1`, id)
	})
	return id
}

func TestInterviewLifecycleFlow(t *testing.T) {
	requireE2E(t)
	env := setupEnv(t)
	ctx := context.Background()

	applicationID := seedApplication(t, env)
	seedUser(t, env, "e2e-user-1", "E2E Interviewer", "interviewer-1@example.com")

	t.Log("scheduling interview")
	view, invite, err := env.manager.ScheduleInterview(ctx, &scheduling.ScheduleRequest{
		ApplicationID: applicationID,
		ScheduledDate: time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second),
		Title:         "Technical Interview",
		Interviewers: []models.Interviewer{
			{ParticipantID: "e2e-user-1", DisplayName: "E2E Interviewer"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, invite)
	assert.Equal(t, "screening", view.Stage)
	assert.Equal(t, "screening", view.Status)
	assert.Contains(t, invite.Content, "BEGIN:VCALENDAR")
	assert.Contains(t, invite.Content, "interviewer-1@example.com")

	t.Log("rescheduling interview")
	newDate := time.Now().UTC().Add(96 * time.Hour).Truncate(time.Second)
	moved, freshInvite, err := env.manager.RescheduleInterview(ctx, view.ID, newDate, "")
	require.NoError(t, err)
	require.NotNil(t, freshInvite)
	assert.True(t, moved.ScheduledDate.Equal(newDate))
	assert.Equal(t, view.Title, moved.Title)

	t.Log("submitting feedback")
	entry, err := env.collector.SubmitFeedback(ctx, view.ID, models.FeedbackEntry{
		InterviewerID: "e2e-user-1",
		Rating:        4,
		Decision:      models.DecisionAdvance,
	})
	require.NoError(t, err)
	assert.Equal(t, "e2e-user-1", entry.InterviewerID)
	assert.False(t, entry.CreatedAt.IsZero())

	_, err = env.collector.SubmitFeedback(ctx, view.ID, models.FeedbackEntry{
		InterviewerID: "e2e-outsider",
		Rating:        1,
	})
	require.Error(t, err, "non-panel member must be rejected")

	t.Log("cancelling interview twice")
	cancelled, err := env.manager.CancelInterview(ctx, view.ID, "candidate unavailable")
	require.NoError(t, err)
	assert.Equal(t, models.InterviewStatusCancelled, cancelled.Status)
	assert.Equal(t, "candidate unavailable", cancelled.CancellationReason)

	cancelled, err = env.manager.CancelInterview(ctx, view.ID, "panel conflict")
	require.NoError(t, err)
	assert.Equal(t, "panel conflict", cancelled.CancellationReason)

	t.Log("verifying persisted aggregate")
	app, err := env.appStore.FindContainingInterview(ctx, view.ID)
	require.NoError(t, err)
	persisted := app.FindInterview(view.ID)
	require.NotNil(t, persisted)
	assert.Equal(t, models.InterviewStatusCancelled, persisted.Status)
	require.Len(t, persisted.Feedback, 1)
	assert.Equal(t, "e2e-user-1", persisted.Feedback[0].InterviewerID)
}

func TestConcurrentFeedbackConverges(t *testing.T) {
	requireE2E(t)
	env := setupEnv(t)
	ctx := context.Background()

	applicationID := seedApplication(t, env)
	seedUser(t, env, "e2e-user-1", "Panel Member One", "panel-1@example.com")
	seedUser(t, env, "e2e-user-2", "Panel Member Two", "panel-2@example.com")

	view, _, err := env.manager.ScheduleInterview(ctx, &scheduling.ScheduleRequest{
		ApplicationID: applicationID,
		ScheduledDate: time.Now().UTC().Add(24 * time.Hour),
		Title:         "Panel Interview",
		Interviewers: []models.Interviewer{
			{ParticipantID: "e2e-user-1"},
			{ParticipantID: "e2e-user-2"},
		},
	})
	require.NoError(t, err)

	// Two writers racing on the same aggregate. The version check plus the
	// retry loop must land both entries without losing either.
	done := make(chan error, 2)
	go func() {
		_, err := env.collector.SubmitFeedback(ctx, view.ID, models.FeedbackEntry{
			InterviewerID: "e2e-user-1", Rating: 4, Decision: models.DecisionAdvance,
		})
		done <- err
	}()
	go func() {
		_, err := env.collector.SubmitFeedback(ctx, view.ID, models.FeedbackEntry{
			InterviewerID: "e2e-user-2", Rating: 3, Decision: models.DecisionHold,
		})
		done <- err
	}()
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	app, err := env.appStore.FindContainingInterview(ctx, view.ID)
	require.NoError(t, err)
	persisted := app.FindInterview(view.ID)
	require.NotNil(t, persisted)
	assert.Len(t, persisted.Feedback, 2)
}

func TestDirectoryCacheRoundTrip(t *testing.T) {
	requireE2E(t)
	env := setupEnv(t)
	ctx := context.Background()

	cfg, err := config.Load()
	require.NoError(t, err)

	redis, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { redis.Close() })

	seedUser(t, env, "e2e-user-cache", "Cached User", "cached@example.com")

	dir := directory.New(env.pg.DB, redis.Client, time.Minute, logger.NewTestLogger(t))

	first, err := dir.GetUser(ctx, "e2e-user-cache")
	require.NoError(t, err)
	assert.Equal(t, "cached@example.com", first.Email)

	// Second lookup is served from Redis; same result either way.
	second, err := dir.GetUser(ctx, "e2e-user-cache")
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)

	require.NoError(t, dir.Invalidate(ctx, "e2e-user-cache"))
}
