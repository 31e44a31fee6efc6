// internal/search/indexer.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

const interviewIndex = "interviews"

// InterviewDocument is the flattened projection mirrored into Elasticsearch
// for dashboards and recruiter search. Cancellations update the mirrored
// status instead of deleting, so history stays queryable.
type InterviewDocument struct {
	InterviewID   string    `json:"interviewId"`
	ApplicationID string    `json:"applicationId"`
	CandidateName string    `json:"candidateName"`
	JobTitle      string    `json:"jobTitle"`
	CompanyID     string    `json:"companyId"`
	Title         string    `json:"title"`
	Stage         string    `json:"stage"`
	Status        string    `json:"status"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Interviewers  []string  `json:"interviewers"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Indexer mirrors interviews into Elasticsearch on a best-effort basis:
// every error is logged and swallowed, mirroring must never fail the
// owning mutation.
type Indexer struct {
	client *elasticsearch.Client
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, log logger.Logger) *Indexer {
	return &Indexer{client: client, logger: log}
}

// IndexInterview upserts the flattened document keyed by interview id.
func (ix *Indexer) IndexInterview(ctx context.Context, app *models.Application, interview *models.Interview) {
	if ix.client == nil {
		return
	}

	doc := InterviewDocument{
		InterviewID:   interview.ID,
		ApplicationID: app.ID,
		CandidateName: app.CandidateName,
		JobTitle:      app.JobTitle,
		CompanyID:     app.CompanyID,
		Title:         interview.Title,
		Stage:         interview.Stage,
		Status:        interview.Status,
		ScheduledDate: interview.ScheduledDate,
		UpdatedAt:     interview.UpdatedAt,
	}
	for _, iv := range interview.Interviewers {
		doc.Interviewers = append(doc.Interviewers, iv.ParticipantID)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		ix.logger.Warn("interview index marshal failed", map[string]interface{}{
			"interviewId": interview.ID,
			"error":       err.Error(),
		})
		return
	}

	res, err := ix.client.Index(
		interviewIndex,
		bytes.NewReader(body),
		ix.client.Index.WithDocumentID(interview.ID),
		ix.client.Index.WithContext(ctx),
	)
	if err != nil {
		ix.logger.Warn("interview index update failed", map[string]interface{}{
			"interviewId": interview.ID,
			"error":       errors.NewSearchIndexFailedError(interviewIndex, err).Error(),
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		indexErr := errors.NewSearchIndexFailedError(interviewIndex, fmt.Errorf("status %s", res.Status()))
		ix.logger.Warn("interview index update rejected", map[string]interface{}{
			"interviewId": interview.ID,
			"error":       indexErr.Error(),
			"status":      res.Status(),
		})
		return
	}

	ix.logger.Debug("interview indexed", map[string]interface{}{
		"interviewId": interview.ID,
		"status":      interview.Status,
	})
}

// Ping verifies the cluster is reachable, used at startup.
func (ix *Indexer) Ping(ctx context.Context) error {
	if ix.client == nil {
		return nil
	}
	res, err := ix.client.Ping(ix.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}
