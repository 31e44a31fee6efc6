package models

// User is a directory record used to resolve interviewer ids into invite
// attendees. CalendarConnected is an informational per-user flag; the invite
// path only ever consults the global CalendarCredentials store.
type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Role              string `json:"role,omitempty"`
	CalendarConnected bool   `json:"calendarConnected"`
}
