// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	"careers-scheduling/internal/common/config"
	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/common/validation"
	"careers-scheduling/internal/models"
)

// EmailSender and SMSSender cover the AWS surface the notifier needs,
// narrow enough to mock in tests.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier dispatches feedback reminders over SES email and, for recipients
// with a phone number, SNS SMS. Email is the primary channel; SMS is an
// extra nudge and its failure does not fail the reminder once the email
// went out.
type Notifier struct {
	email  EmailSender
	sms    SMSSender
	cfg    config.NotificationConfig
	logger logger.Logger
}

func NewNotifier(email EmailSender, sms SMSSender, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	return &Notifier{
		email:  email,
		sms:    sms,
		cfg:    cfg,
		logger: log,
	}
}

// SendFeedbackReminder sends one reminder to one panel member and returns a
// generated notification id for correlation.
func (n *Notifier) SendFeedbackReminder(ctx context.Context, recipient *models.User, candidateName string, interview *models.Interview) (string, error) {
	if !validation.ValidateEmail(recipient.Email) {
		return "", errors.NewNotificationSendFailedError("email", fmt.Errorf("user %s has no usable email address", recipient.ID))
	}

	notificationID := uuid.New().String()
	subject, body := feedbackReminderContent(recipient, candidateName, interview)

	emailSent := false
	if n.cfg.Email.Enabled && n.email != nil {
		if err := n.sendEmail(ctx, recipient.Email, subject, body); err != nil {
			return "", errors.NewNotificationSendFailedError("email", err)
		}
		emailSent = true
	}

	if n.cfg.SMS.Enabled && n.sms != nil && validation.ValidatePhone(recipient.Phone) {
		if err := n.sendSMS(ctx, recipient.Phone, smsText(candidateName, interview)); err != nil {
			if !emailSent {
				return "", errors.NewNotificationSendFailedError("sms", err)
			}
			n.logger.Warn("reminder SMS failed after email succeeded", map[string]interface{}{
				"userId": recipient.ID,
				"error":  err.Error(),
			})
		}
	}

	n.logger.Info("feedback reminder dispatched", map[string]interface{}{
		"notificationId": notificationID,
		"userId":         recipient.ID,
		"interviewId":    interview.ID,
		"emailSent":      emailSent,
	})
	return notificationID, nil
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.Email.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func feedbackReminderContent(recipient *models.User, candidateName string, interview *models.Interview) (string, string) {
	name := recipient.Name
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Feedback pending: %s", interview.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "You have not submitted feedback for the interview %q", interview.Title)
	if candidateName != "" {
		fmt.Fprintf(&b, " with %s", candidateName)
	}
	fmt.Fprintf(&b, ", held on %s.\n\n", interview.ScheduledDate.Format(time.RFC1123))
	b.WriteString("Please submit your evaluation so the hiring team can move forward.\n")
	return subject, b.String()
}

func smsText(candidateName string, interview *models.Interview) string {
	if candidateName != "" {
		return fmt.Sprintf("Reminder: feedback pending for your interview with %s (%s).", candidateName, interview.Title)
	}
	return fmt.Sprintf("Reminder: feedback pending for interview %s.", interview.Title)
}
