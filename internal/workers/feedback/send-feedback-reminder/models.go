// internal/workers/feedback/send-feedback-reminder/models.go
package sendfeedbackreminder

type Input struct {
	InterviewID   string `json:"interviewId"`
	InterviewerID string `json:"interviewerId"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	InterviewID    string `json:"interviewId"`
	InterviewerID  string `json:"interviewerId"`
	SentAt         string `json:"sentAt"`
}
