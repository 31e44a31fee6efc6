// internal/workers/interview/schedule-interview/models.go
package scheduleinterview

import (
	"time"

	"careers-scheduling/internal/models"
)

type Input struct {
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
	Provider         string               `json:"provider,omitempty"`
}

// Output carries the created interview plus its invite back into the
// process instance, so a downstream email task can attach the ICS document.
type Output struct {
	InterviewID   string        `json:"interviewId"`
	ApplicationID string        `json:"applicationId"`
	Title         string        `json:"title"`
	Stage         string        `json:"stage"`
	Status        string        `json:"status"`
	ScheduledDate string        `json:"scheduledDate"`
	Invite        models.Invite `json:"invite"`
}
