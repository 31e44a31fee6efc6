// internal/store/processes.go
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

// ProcessStore persists interview process templates. Stages are one JSONB
// column; the template is small and always read whole.
type ProcessStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewProcessStore(db *sql.DB, log logger.Logger) *ProcessStore {
	return &ProcessStore{db: db, logger: log}
}

func (s *ProcessStore) Create(ctx context.Context, process *models.InterviewProcess) error {
	stages, err := json.Marshal(process.Stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}

	query := `
		INSERT INTO interview_processes
			(id, title, job_id, company_id, created_by, stages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.db.ExecContext(ctx, query,
		process.ID, process.Title, process.JobID, process.CompanyID,
		process.CreatedBy, stages, process.CreatedAt, process.UpdatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create_process", err)
	}
	return nil
}

func (s *ProcessStore) Update(ctx context.Context, process *models.InterviewProcess) error {
	stages, err := json.Marshal(process.Stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}

	process.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE interview_processes
		SET title = $1, stages = $2, updated_at = $3
		WHERE id = $4`

	result, err := s.db.ExecContext(ctx, query, process.Title, stages, process.UpdatedAt, process.ID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update_process", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update_process", err)
	}
	if affected == 0 {
		return errors.NewProcessNotFoundError(process.ID)
	}
	return nil
}

func (s *ProcessStore) FindByID(ctx context.Context, processID string) (*models.InterviewProcess, error) {
	query := `
		SELECT id, title, job_id, company_id, created_by, stages, created_at, updated_at
		FROM interview_processes
		WHERE id = $1`

	process, err := s.scanProcess(s.db.QueryRowContext(ctx, query, processID))
	if err == sql.ErrNoRows {
		return nil, errors.NewProcessNotFoundError(processID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("find_process", err)
	}
	return process, nil
}

func (s *ProcessStore) ListByCompany(ctx context.Context, companyID string) ([]*models.InterviewProcess, error) {
	query := `
		SELECT id, title, job_id, company_id, created_by, stages, created_at, updated_at
		FROM interview_processes
		WHERE company_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_processes", err)
	}
	defer rows.Close()

	var processes []*models.InterviewProcess
	for rows.Next() {
		process, err := s.scanProcess(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("list_processes", err)
		}
		processes = append(processes, process)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_processes", err)
	}
	return processes, nil
}

func (s *ProcessStore) Delete(ctx context.Context, processID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM interview_processes WHERE id = $1`, processID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete_process", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete_process", err)
	}
	if affected == 0 {
		return errors.NewProcessNotFoundError(processID)
	}
	return nil
}

func (s *ProcessStore) scanProcess(row rowScanner) (*models.InterviewProcess, error) {
	var process models.InterviewProcess
	var stages []byte

	err := row.Scan(
		&process.ID,
		&process.Title,
		&process.JobID,
		&process.CompanyID,
		&process.CreatedBy,
		&stages,
		&process.CreatedAt,
		&process.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(stages) > 0 {
		if err := json.Unmarshal(stages, &process.Stages); err != nil {
			return nil, fmt.Errorf("unmarshal stages: %w", err)
		}
	}
	return &process, nil
}
