// internal/models/application.go
package models

import (
	"strings"
	"time"
)

// Application is the aggregate root. Interviews and their feedback entries
// are embedded; they are read and written only as part of the whole record.
type Application struct {
	ID            string      `json:"id"`
	CandidateID   string      `json:"candidateId"`
	CandidateName string      `json:"candidateName"`
	JobID         string      `json:"jobId"`
	JobTitle      string      `json:"jobTitle"`
	CompanyID     string      `json:"companyId"`
	Status        string      `json:"status"` // pipeline status, e.g. "screening"
	Interviews    []Interview `json:"interviews"`
	Version       int64       `json:"version"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Pipeline statuses considered terminal for listing purposes.
const (
	PipelineStatusHired     = "hired"
	PipelineStatusRejected  = "rejected"
	PipelineStatusWithdrawn = "withdrawn"
)

// IsTerminal reports whether the application left the active pipeline.
func (a *Application) IsTerminal() bool {
	switch a.Status {
	case PipelineStatusHired, PipelineStatusRejected, PipelineStatusWithdrawn:
		return true
	}
	return false
}

// FindInterview returns the embedded interview with the given id, or nil.
func (a *Application) FindInterview(interviewID string) *Interview {
	for i := range a.Interviews {
		if a.Interviews[i].ID == interviewID {
			return &a.Interviews[i]
		}
	}
	return nil
}

// Interview statuses
const (
	InterviewStatusCancelled = "cancelled"
)

// Interviewer identifies one member of the interview panel.
type Interviewer struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

// Interview is embedded in an Application. Stage and Status are snapshots of
// the application's pipeline status taken when the interview was created;
// they never track later pipeline movement. Only CancelInterview may change
// Status and only RescheduleInterview may change ScheduledDate.
type Interview struct {
	ID                 string          `json:"id"`
	ScheduledDate      time.Time       `json:"scheduledDate"`
	DurationMinutes    int             `json:"durationMinutes,omitempty"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	Stage              string          `json:"stage"`
	Status             string          `json:"status"`
	Interviewers       []Interviewer   `json:"interviewers"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	Location           string          `json:"location,omitempty"`
	OnlineMeetingURL   string          `json:"onlineMeetingUrl,omitempty"`
	MeetingID          string          `json:"meetingId,omitempty"`
	MeetingPassword    string          `json:"meetingPassword,omitempty"`
	ProcessID          string          `json:"processId,omitempty"`
	Feedback           []FeedbackEntry `json:"feedback"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// HasInterviewer reports whether the given participant is on the panel.
func (iv *Interview) HasInterviewer(participantID string) bool {
	for _, p := range iv.Interviewers {
		if p.ParticipantID == participantID {
			return true
		}
	}
	return false
}

// FindFeedback returns the feedback entry for the interviewer, or nil.
func (iv *Interview) FindFeedback(interviewerID string) *FeedbackEntry {
	for i := range iv.Feedback {
		if iv.Feedback[i].InterviewerID == interviewerID {
			return &iv.Feedback[i]
		}
	}
	return nil
}

// FeedbackEntry is one interviewer's structured evaluation, keyed by
// InterviewerID: at most one entry per interviewer per interview.
type FeedbackEntry struct {
	InterviewerID   string             `json:"interviewerId"`
	InterviewerName string             `json:"interviewerName"`
	Rating          float64            `json:"rating"`
	Comments        string             `json:"comments,omitempty"`
	Decision        string             `json:"decision,omitempty"`
	Considerations  map[string]float64 `json:"considerations,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// Feedback decisions
const (
	DecisionAdvance = "advance"
	DecisionHold    = "hold"
	DecisionReject  = "reject"
)

// TitleWithStatusPrefix prefixes an interview title with the capitalized
// pipeline status for at-a-glance identification, e.g.
// "Screening - Technical Interview".
func TitleWithStatusPrefix(applicationStatus, title string) string {
	if applicationStatus == "" {
		return title
	}
	prefix := strings.ToUpper(applicationStatus[:1]) + applicationStatus[1:]
	return prefix + " - " + title
}
