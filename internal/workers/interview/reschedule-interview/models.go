// internal/workers/interview/reschedule-interview/models.go
package rescheduleinterview

import (
	"time"

	"careers-scheduling/internal/models"
)

type Input struct {
	InterviewID string    `json:"interviewId"`
	NewDate     time.Time `json:"newDate"`
	Provider    string    `json:"provider,omitempty"`
}

// Output carries the moved interview plus a fresh invite reflecting the new
// time slot.
type Output struct {
	InterviewID   string        `json:"interviewId"`
	ApplicationID string        `json:"applicationId"`
	ScheduledDate string        `json:"scheduledDate"`
	Status        string        `json:"status"`
	Invite        models.Invite `json:"invite"`
}
