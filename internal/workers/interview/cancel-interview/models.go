// internal/workers/interview/cancel-interview/models.go
package cancelinterview

type Input struct {
	InterviewID string `json:"interviewId"`
	Reason      string `json:"reason"`
}

type Output struct {
	InterviewID        string `json:"interviewId"`
	ApplicationID      string `json:"applicationId"`
	Status             string `json:"status"`
	CancellationReason string `json:"cancellationReason"`
	CancelledAt        string `json:"cancelledAt"`
}
