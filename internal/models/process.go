// internal/models/process.go
package models

import "time"

// InterviewProcess is an independent aggregate describing a company's
// interview flow for one job role. Interviews reference it weakly through
// Interview.ProcessID.
type InterviewProcess struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	JobID     string         `json:"jobId"`
	CompanyID string         `json:"companyId"`
	CreatedBy string         `json:"createdBy"`
	Stages    []ProcessStage `json:"stages"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ProcessStage is one step of the flow. Order is an explicit index; nil
// means the caller omitted it and the stage's array position is used, so an
// explicit 0 can move a later-listed stage to the front.
type ProcessStage struct {
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Considerations []Consideration `json:"considerations,omitempty"`
	EmailTemplate  string          `json:"emailTemplate,omitempty"`
	Order          *int            `json:"order,omitempty"`
}

// Consideration is a named criterion used to structure feedback forms.
type Consideration struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
