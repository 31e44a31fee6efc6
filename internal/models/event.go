// internal/models/event.go
package models

import "time"

// CalendarEvent is the provider-neutral representation of an interview
// calendar event, independent of any specific calendar backend.
type CalendarEvent struct {
	UID              string     // iCalendar UID, stable per interview
	Title            string     // summary line
	Description      string     // free text, before meeting-credential augmentation
	StartDate        time.Time  // UTC instant
	EndDate          time.Time  // UTC instant
	Attendees        []Attendee // interviewers plus the candidate
	Location         string     // physical location, optional
	OnlineMeetingURL string     // optional, may coexist with Location
	MeetingID        string     // optional ad-hoc meeting credential
	MeetingPassword  string     // optional ad-hoc meeting credential
	Organizer        string     // organizer email, optional
}

// Attendee is one invite recipient. Role defaults to REQ-PARTICIPANT when
// left empty.
type Attendee struct {
	Email string
	Name  string
	Role  string
}

// Invite is the generated calendar document handed back to callers.
type Invite struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"` // always "text/calendar"
	Filename    string `json:"filename"`
}
