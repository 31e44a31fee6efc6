// internal/search/indexer_test.go
package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

type capturedRequest struct {
	method string
	path   string
	body   []byte
}

func createTestIndexer(t *testing.T, status int, captured *capturedRequest) *Indexer {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.method = r.Method
			captured.path = r.URL.Path
			captured.body, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewIndexer(client, logger.NewTestLogger(t))
}

func testInterview() (*models.Application, *models.Interview) {
	app := &models.Application{
		ID:            "app-1",
		CandidateName: "Alex Kim",
		JobTitle:      "Staff Engineer",
		CompanyID:     "comp-1",
	}
	interview := &models.Interview{
		ID:            "int-1",
		Title:         "Technical Screen",
		Stage:         "technical",
		Status:        "in_process",
		ScheduledDate: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Interviewers: []models.Interviewer{
			{ParticipantID: "user-1"},
			{ParticipantID: "user-2"},
		},
	}
	return app, interview
}

func TestIndexInterview_UpsertsFlattenedDocument(t *testing.T) {
	var captured capturedRequest
	ix := createTestIndexer(t, http.StatusOK, &captured)

	app, interview := testInterview()
	ix.IndexInterview(context.Background(), app, interview)

	assert.Equal(t, http.MethodPut, captured.method)
	assert.Equal(t, "/interviews/_doc/int-1", captured.path)

	var doc InterviewDocument
	require.NoError(t, json.Unmarshal(captured.body, &doc))
	assert.Equal(t, "int-1", doc.InterviewID)
	assert.Equal(t, "app-1", doc.ApplicationID)
	assert.Equal(t, "Alex Kim", doc.CandidateName)
	assert.Equal(t, "comp-1", doc.CompanyID)
	assert.Equal(t, []string{"user-1", "user-2"}, doc.Interviewers)
}

func TestIndexInterview_ServerRejectionIsSwallowed(t *testing.T) {
	var captured capturedRequest
	ix := createTestIndexer(t, http.StatusInternalServerError, &captured)

	app, interview := testInterview()
	ix.IndexInterview(context.Background(), app, interview)

	// The request went out; the rejection was logged, not returned.
	assert.Equal(t, "/interviews/_doc/int-1", captured.path)
}

func TestIndexInterview_NilClientIsNoOp(t *testing.T) {
	ix := NewIndexer(nil, logger.NewTestLogger(t))

	app, interview := testInterview()
	ix.IndexInterview(context.Background(), app, interview)
}

func TestPing(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		ix := createTestIndexer(t, http.StatusOK, nil)
		assert.NoError(t, ix.Ping(context.Background()))
	})

	t.Run("error status", func(t *testing.T) {
		ix := createTestIndexer(t, http.StatusServiceUnavailable, nil)
		assert.Error(t, ix.Ping(context.Background()))
	})

	t.Run("nil client", func(t *testing.T) {
		ix := NewIndexer(nil, logger.NewTestLogger(t))
		assert.NoError(t, ix.Ping(context.Background()))
	})
}
