// internal/workers/feedback/submit-feedback/models.go
package submitfeedback

type Input struct {
	InterviewID     string             `json:"interviewId"`
	InterviewerID   string             `json:"interviewerId"`
	InterviewerName string             `json:"interviewerName,omitempty"`
	Rating          float64            `json:"rating"`
	Comments        string             `json:"comments,omitempty"`
	Decision        string             `json:"decision,omitempty"`
	Considerations  map[string]float64 `json:"considerations,omitempty"`
}

type Output struct {
	InterviewID   string `json:"interviewId"`
	InterviewerID string `json:"interviewerId"`
	SubmittedAt   string `json:"submittedAt"`
}
