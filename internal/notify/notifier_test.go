// internal/notify/notifier_test.go
package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/common/config"
	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

type fakeEmailSender struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeEmailSender) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	return &ses.SendEmailOutput{}, nil
}

type fakeSMSSender struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSMSSender) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	return &sns.PublishOutput{}, nil
}

func createTestConfig() config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "noreply@example.com"
	cfg.SMS.Enabled = true
	return cfg
}

func createRecipient() *models.User {
	return &models.User{
		ID:    "user-1",
		Name:  "Alex Kim",
		Email: "alex@example.com",
		Phone: "+15551230100",
	}
}

func createInterview() *models.Interview {
	return &models.Interview{
		ID:            "iv-1",
		Title:         "Onsite - System Design",
		ScheduledDate: time.Date(2026, 5, 12, 15, 0, 0, 0, time.UTC),
	}
}

func TestSendFeedbackReminder_EmailAndSMS(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	n := NewNotifier(email, sms, createTestConfig(), logger.NewTestLogger(t))

	notificationID, err := n.SendFeedbackReminder(context.Background(), createRecipient(), "Dana Lee", createInterview())
	require.NoError(t, err)
	assert.NotEmpty(t, notificationID)

	require.Len(t, email.inputs, 1)
	assert.Equal(t, []string{"alex@example.com"}, email.inputs[0].Destination.ToAddresses)
	assert.Equal(t, "noreply@example.com", *email.inputs[0].Source)
	assert.Equal(t, "Feedback pending: Onsite - System Design", *email.inputs[0].Message.Subject.Data)
	assert.Contains(t, *email.inputs[0].Message.Body.Text.Data, "Dana Lee")

	require.Len(t, sms.inputs, 1)
	assert.Equal(t, "+15551230100", *sms.inputs[0].PhoneNumber)
	assert.Contains(t, *sms.inputs[0].Message, "Dana Lee")
}

func TestSendFeedbackReminder_NoEmailAddress(t *testing.T) {
	n := NewNotifier(&fakeEmailSender{}, &fakeSMSSender{}, createTestConfig(), logger.NewTestLogger(t))

	recipient := createRecipient()
	recipient.Email = ""

	_, err := n.SendFeedbackReminder(context.Background(), recipient, "Dana Lee", createInterview())
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
}

func TestSendFeedbackReminder_EmailFailureFails(t *testing.T) {
	email := &fakeEmailSender{err: fmt.Errorf("ses throttled")}
	sms := &fakeSMSSender{}
	n := NewNotifier(email, sms, createTestConfig(), logger.NewTestLogger(t))

	_, err := n.SendFeedbackReminder(context.Background(), createRecipient(), "Dana Lee", createInterview())
	require.Error(t, err)
	assert.Empty(t, sms.inputs)
}

func TestSendFeedbackReminder_SMSFailureAfterEmailSucceeds(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{err: fmt.Errorf("sns unavailable")}
	n := NewNotifier(email, sms, createTestConfig(), logger.NewTestLogger(t))

	notificationID, err := n.SendFeedbackReminder(context.Background(), createRecipient(), "Dana Lee", createInterview())
	require.NoError(t, err)
	assert.NotEmpty(t, notificationID)
	assert.Len(t, email.inputs, 1)
}

func TestSendFeedbackReminder_SMSSkippedWithoutPhone(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	n := NewNotifier(email, sms, createTestConfig(), logger.NewTestLogger(t))

	for _, phone := range []string{"", "ext. 12"} {
		recipient := createRecipient()
		recipient.Phone = phone

		_, err := n.SendFeedbackReminder(context.Background(), recipient, "Dana Lee", createInterview())
		require.NoError(t, err)
	}
	assert.Empty(t, sms.inputs)
}

func TestSendFeedbackReminder_ChannelsDisabled(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	var cfg config.NotificationConfig
	n := NewNotifier(email, sms, cfg, logger.NewTestLogger(t))

	notificationID, err := n.SendFeedbackReminder(context.Background(), createRecipient(), "Dana Lee", createInterview())
	require.NoError(t, err)
	assert.NotEmpty(t, notificationID)
	assert.Empty(t, email.inputs)
	assert.Empty(t, sms.inputs)
}

func TestSMSText_WithoutCandidateName(t *testing.T) {
	text := smsText("", createInterview())
	assert.Equal(t, "Reminder: feedback pending for interview Onsite - System Design.", text)
}
