// internal/store/applications.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

// ApplicationStore reads and writes the Application aggregate. Interviews
// travel as one JSONB column; updates compare-and-swap on the version
// column so concurrent read-modify-write cycles surface as conflicts
// instead of silently overwriting each other.
type ApplicationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationStore(db *sql.DB, log logger.Logger) *ApplicationStore {
	return &ApplicationStore{db: db, logger: log}
}

const applicationColumns = `
	id, candidate_id, candidate_name, job_id, job_title, company_id,
	status, interviews, version, created_at, updated_at`

// FindByID loads one application aggregate.
func (s *ApplicationStore) FindByID(ctx context.Context, applicationID string) (*models.Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM applications
		WHERE id = $1`

	app, err := s.scanApplication(s.db.QueryRowContext(ctx, query, applicationID))
	if err == sql.ErrNoRows {
		return nil, errors.NewApplicationNotFoundError(applicationID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("find_application", err)
	}
	return app, nil
}

// FindContainingInterview locates the application owning the given embedded
// interview id via JSONB containment.
func (s *ApplicationStore) FindContainingInterview(ctx context.Context, interviewID string) (*models.Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM applications
		WHERE interviews @> $1`

	needle, _ := json.Marshal([]map[string]string{{"id": interviewID}})

	app, err := s.scanApplication(s.db.QueryRowContext(ctx, query, needle))
	if err == sql.ErrNoRows {
		return nil, errors.NewInterviewNotFoundError(interviewID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("find_containing_interview", err)
	}
	return app, nil
}

// Update persists the aggregate's mutable state under an optimistic version
// check. Zero rows affected means another writer got there first; the
// caller re-reads and retries.
func (s *ApplicationStore) Update(ctx context.Context, app *models.Application) error {
	interviews, err := json.Marshal(app.Interviews)
	if err != nil {
		return fmt.Errorf("marshal interviews: %w", err)
	}

	app.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE applications
		SET interviews = $1, updated_at = $2, version = version + 1
		WHERE id = $3 AND version = $4`

	result, err := s.db.ExecContext(ctx, query, interviews, app.UpdatedAt, app.ID, app.Version)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update_application", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update_application", err)
	}
	if affected == 0 {
		return errors.NewVersionConflictError(app.ID, app.Version)
	}

	app.Version++
	return nil
}

// ListActive returns applications still in the pipeline, interviews loaded.
func (s *ApplicationStore) ListActive(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM applications
		WHERE status NOT IN ($1, $2, $3)
		ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query,
		models.PipelineStatusHired, models.PipelineStatusRejected, models.PipelineStatusWithdrawn)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_active_applications", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := s.scanApplication(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("list_active_applications", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_active_applications", err)
	}
	return apps, nil
}

// ListWithInterviews returns every application that has at least one
// embedded interview, regardless of pipeline status.
func (s *ApplicationStore) ListWithInterviews(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM applications
		WHERE jsonb_array_length(interviews) > 0
		ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_applications_with_interviews", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := s.scanApplication(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("list_applications_with_interviews", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_applications_with_interviews", err)
	}
	return apps, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *ApplicationStore) scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	var interviews []byte

	err := row.Scan(
		&app.ID,
		&app.CandidateID,
		&app.CandidateName,
		&app.JobID,
		&app.JobTitle,
		&app.CompanyID,
		&app.Status,
		&interviews,
		&app.Version,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(interviews) > 0 {
		if err := json.Unmarshal(interviews, &app.Interviews); err != nil {
			return nil, fmt.Errorf("unmarshal interviews: %w", err)
		}
	}
	return &app, nil
}
