// internal/process/service.go
package process

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

// Store is the template persistence surface.
type Store interface {
	Create(ctx context.Context, process *models.InterviewProcess) error
	Update(ctx context.Context, process *models.InterviewProcess) error
	FindByID(ctx context.Context, processID string) (*models.InterviewProcess, error)
	ListByCompany(ctx context.Context, companyID string) ([]*models.InterviewProcess, error)
	Delete(ctx context.Context, processID string) error
}

// CreateRequest carries a new interview process template.
type CreateRequest struct {
	Title     string                `json:"title"`
	JobID     string                `json:"jobId"`
	CompanyID string                `json:"companyId"`
	CreatedBy string                `json:"createdBy"`
	Stages    []models.ProcessStage `json:"stages"`
}

// Service manages interview process templates: the stage and consideration
// definitions that structure feedback forms. Templates are referenced weakly
// from interviews via ProcessID; deleting a template never touches
// interviews that point at it.
type Service struct {
	store  Store
	logger logger.Logger
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// Create validates and persists a new template. Stage order defaults to
// array position when omitted; stages are stored sorted by order.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.InterviewProcess, error) {
	if req.Title == "" {
		return nil, errors.NewScheduleValidationError("process title is required")
	}
	if req.CompanyID == "" {
		return nil, errors.NewScheduleValidationError("companyId is required")
	}

	now := time.Now().UTC()
	process := &models.InterviewProcess{
		ID:        uuid.New().String(),
		Title:     req.Title,
		JobID:     req.JobID,
		CompanyID: req.CompanyID,
		CreatedBy: req.CreatedBy,
		Stages:    normalizeStages(req.Stages),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, process); err != nil {
		return nil, err
	}

	s.logger.Info("interview process created", map[string]interface{}{
		"processId": process.ID,
		"companyId": process.CompanyID,
		"stages":    len(process.Stages),
	})
	return process, nil
}

// Update replaces the template's title and stages wholesale.
func (s *Service) Update(ctx context.Context, processID, title string, stages []models.ProcessStage) (*models.InterviewProcess, error) {
	process, err := s.store.FindByID(ctx, processID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		process.Title = title
	}
	process.Stages = normalizeStages(stages)

	if err := s.store.Update(ctx, process); err != nil {
		return nil, err
	}

	s.logger.Info("interview process updated", map[string]interface{}{
		"processId": process.ID,
		"stages":    len(process.Stages),
	})
	return process, nil
}

func (s *Service) Get(ctx context.Context, processID string) (*models.InterviewProcess, error) {
	return s.store.FindByID(ctx, processID)
}

func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]*models.InterviewProcess, error) {
	return s.store.ListByCompany(ctx, companyID)
}

func (s *Service) Delete(ctx context.Context, processID string) error {
	if err := s.store.Delete(ctx, processID); err != nil {
		return err
	}
	s.logger.Info("interview process deleted", map[string]interface{}{
		"processId": processID,
	})
	return nil
}

// normalizeStages fills omitted order indices from array position and
// returns the stages sorted by order. An explicit order survives as given,
// including 0 on a later-listed stage.
func normalizeStages(stages []models.ProcessStage) []models.ProcessStage {
	normalized := make([]models.ProcessStage, len(stages))
	copy(normalized, stages)
	for i := range normalized {
		if normalized[i].Order == nil {
			pos := i
			normalized[i].Order = &pos
		}
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return *normalized[i].Order < *normalized[j].Order
	})
	return normalized
}
