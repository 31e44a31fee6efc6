// internal/process/service_test.go
package process

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

type fakeStore struct {
	processes map[string]*models.InterviewProcess
}

func newFakeStore() *fakeStore {
	return &fakeStore{processes: make(map[string]*models.InterviewProcess)}
}

func (s *fakeStore) Create(ctx context.Context, process *models.InterviewProcess) error {
	s.processes[process.ID] = process
	return nil
}

func (s *fakeStore) Update(ctx context.Context, process *models.InterviewProcess) error {
	if _, ok := s.processes[process.ID]; !ok {
		return errors.NewProcessNotFoundError(process.ID)
	}
	s.processes[process.ID] = process
	return nil
}

func (s *fakeStore) FindByID(ctx context.Context, processID string) (*models.InterviewProcess, error) {
	process, ok := s.processes[processID]
	if !ok {
		return nil, errors.NewProcessNotFoundError(processID)
	}
	return process, nil
}

func (s *fakeStore) ListByCompany(ctx context.Context, companyID string) ([]*models.InterviewProcess, error) {
	var out []*models.InterviewProcess
	for _, p := range s.processes {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) Delete(ctx context.Context, processID string) error {
	if _, ok := s.processes[processID]; !ok {
		return errors.NewProcessNotFoundError(processID)
	}
	delete(s.processes, processID)
	return nil
}

func createTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewService(store, logger.NewTestLogger(t)), store
}

func createRequest(stages ...models.ProcessStage) *CreateRequest {
	return &CreateRequest{
		Title:     "Engineering Loop",
		JobID:     "job-1",
		CompanyID: "comp-1",
		CreatedBy: "user-1",
		Stages:    stages,
	}
}

func TestCreate_DefaultsStageOrderFromPosition(t *testing.T) {
	service, _ := createTestService(t)

	process, err := service.Create(context.Background(), createRequest(
		models.ProcessStage{Title: "Screening"},
		models.ProcessStage{Title: "Technical"},
		models.ProcessStage{Title: "Onsite"},
	))
	require.NoError(t, err)

	require.Len(t, process.Stages, 3)
	assert.Equal(t, []int{0, 1, 2}, stageOrders(process.Stages))
	assert.Equal(t, "Screening", process.Stages[0].Title)
	assert.Equal(t, "Onsite", process.Stages[2].Title)
	assert.NotEmpty(t, process.ID)
}

func TestCreate_SortsExplicitOrders(t *testing.T) {
	service, _ := createTestService(t)

	process, err := service.Create(context.Background(), createRequest(
		models.ProcessStage{Title: "Onsite", Order: orderAt(2)},
		models.ProcessStage{Title: "Screening"},
		models.ProcessStage{Title: "Technical", Order: orderAt(1)},
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"Screening", "Technical", "Onsite"}, stageTitles(process.Stages))
}

func TestCreate_ExplicitZeroMovesStageToFront(t *testing.T) {
	service, _ := createTestService(t)

	process, err := service.Create(context.Background(), createRequest(
		models.ProcessStage{Title: "Technical", Order: orderAt(1)},
		models.ProcessStage{Title: "Onsite", Order: orderAt(2)},
		models.ProcessStage{Title: "Screening", Order: orderAt(0)},
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"Screening", "Technical", "Onsite"}, stageTitles(process.Stages))
	assert.Equal(t, []int{0, 1, 2}, stageOrders(process.Stages))
}

func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"missing title", func(r *CreateRequest) { r.Title = "" }},
		{"missing company", func(r *CreateRequest) { r.CompanyID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := createTestService(t)

			req := createRequest(models.ProcessStage{Title: "Screening"})
			tt.mutate(req)

			_, err := service.Create(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
			assert.Empty(t, store.processes)
		})
	}
}

func TestUpdate_ReplacesStagesKeepsTitleWhenEmpty(t *testing.T) {
	service, _ := createTestService(t)

	process, err := service.Create(context.Background(), createRequest(
		models.ProcessStage{Title: "Screening"},
	))
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), process.ID, "", []models.ProcessStage{
		{Title: "Technical", Considerations: []models.Consideration{{Title: "Depth"}}},
		{Title: "Onsite"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Engineering Loop", updated.Title)
	require.Len(t, updated.Stages, 2)
	assert.Equal(t, "Technical", updated.Stages[0].Title)
	assert.Equal(t, "Depth", updated.Stages[0].Considerations[0].Title)
}

func TestUpdate_UnknownProcess(t *testing.T) {
	service, _ := createTestService(t)

	_, err := service.Update(context.Background(), "proc-missing", "New Title", nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestDelete_RemovesTemplate(t *testing.T) {
	service, store := createTestService(t)

	process, err := service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), process.ID))
	assert.Empty(t, store.processes)

	err = service.Delete(context.Background(), process.ID)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func stageOrders(stages []models.ProcessStage) []int {
	orders := make([]int, 0, len(stages))
	for _, st := range stages {
		orders = append(orders, *st.Order)
	}
	return orders
}

func stageTitles(stages []models.ProcessStage) []string {
	titles := make([]string, 0, len(stages))
	for _, st := range stages {
		titles = append(titles, st.Title)
	}
	return titles
}

func orderAt(v int) *int {
	return &v
}
