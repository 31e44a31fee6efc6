// internal/calendar/router_test.go
package calendar

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/calendar/ics"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

type stubProvider struct {
	providerType ProviderType
	invite       *models.Invite
	err          error
	panicWith    interface{}
	calls        int
}

func (s *stubProvider) Type() ProviderType { return s.providerType }

func (s *stubProvider) CreateEvent(ctx context.Context, event models.CalendarEvent) (*models.Invite, error) {
	s.calls++
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.invite, s.err
}

func createTestEvent() models.CalendarEvent {
	return models.CalendarEvent{
		UID:       "interview-7",
		Title:     "Onsite - System Design",
		StartDate: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
		Attendees: []models.Attendee{{Email: "lead@example.com", Name: "Lead"}},
	}
}

func createTestRouter(t *testing.T, providers ...Provider) *Router {
	t.Helper()
	return NewRouter(providers, ics.NewFormatter(""), time.Second, logger.NewTestLogger(t))
}

func assertFallbackInvite(t *testing.T, invite models.Invite) {
	t.Helper()
	require.NotEmpty(t, invite.Content)
	assert.Contains(t, invite.Content, "PRODID:"+ics.FallbackProdID)
	assert.Contains(t, invite.Content, "UID:interview-7")
	assert.Equal(t, "text/calendar", invite.ContentType)
}

func TestGenerateInvite_UsesConfiguredProvider(t *testing.T) {
	provider := &stubProvider{
		providerType: ProviderGoogle,
		invite: &models.Invite{
			Content:     "BEGIN:VCALENDAR\r\nPRODID:-//Google Inc//Google Calendar//EN\r\nEND:VCALENDAR\r\n",
			ContentType: "text/calendar",
			Filename:    "invite.ics",
		},
	}
	router := createTestRouter(t, provider)

	invite := router.GenerateInvite(context.Background(), ProviderGoogle, createTestEvent())

	assert.Equal(t, 1, provider.calls)
	assert.Contains(t, invite.Content, "Google Calendar")
}

func TestGenerateInvite_FallbackCases(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		request  ProviderType
	}{
		{
			name:     "unregistered provider type",
			provider: &stubProvider{providerType: ProviderGoogle},
			request:  ProviderMicrosoft,
		},
		{
			name:     "provider other always formats locally",
			provider: &stubProvider{providerType: ProviderOther},
			request:  ProviderOther,
		},
		{
			name: "provider error",
			provider: &stubProvider{
				providerType: ProviderGoogle,
				err:          NewIntegrationError(ProviderGoogle, "create", context.DeadlineExceeded),
			},
			request: ProviderGoogle,
		},
		{
			name: "provider panic",
			provider: &stubProvider{
				providerType: ProviderMicrosoft,
				panicWith:    "nil token source",
			},
			request: ProviderMicrosoft,
		},
		{
			name: "nil invite without error",
			provider: &stubProvider{
				providerType: ProviderGoogle,
			},
			request: ProviderGoogle,
		},
		{
			name: "empty invite content",
			provider: &stubProvider{
				providerType: ProviderGoogle,
				invite:       &models.Invite{ContentType: "text/calendar"},
			},
			request: ProviderGoogle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := createTestRouter(t, tt.provider)
			invite := router.GenerateInvite(context.Background(), tt.request, createTestEvent())
			assertFallbackInvite(t, invite)
		})
	}
}

func TestGenerateInvite_OtherSkipsRegisteredAdapter(t *testing.T) {
	// Even if an adapter claims the "other" type, the router never calls it.
	provider := &stubProvider{
		providerType: ProviderOther,
		invite:       &models.Invite{Content: "should never be used"},
	}
	router := createTestRouter(t, provider)

	invite := router.GenerateInvite(context.Background(), ProviderOther, createTestEvent())

	assert.Equal(t, 0, provider.calls)
	assertFallbackInvite(t, invite)
}

func TestNewRouter_Defaults(t *testing.T) {
	router := NewRouter(nil, nil, 0, logger.NewTestLogger(t))

	assert.Equal(t, DefaultProviderTimeout, router.timeout)
	require.NotNil(t, router.formatter)

	invite := router.GenerateInvite(context.Background(), ProviderGoogle, createTestEvent())
	assertFallbackInvite(t, invite)
}

func TestParseProviderType(t *testing.T) {
	tests := []struct {
		input string
		want  ProviderType
	}{
		{"google", ProviderGoogle},
		{"microsoft", ProviderMicrosoft},
		{"other", ProviderOther},
		{"", ProviderOther},
		{"GOOGLE", ProviderOther},
		{"outlook", ProviderOther},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseProviderType(tt.input))
		})
	}
}

func TestIntegrationError_Message(t *testing.T) {
	err := NewIntegrationError(ProviderMicrosoft, "auth", context.DeadlineExceeded)
	assert.True(t, strings.Contains(err.Error(), "calendar microsoft: auth"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
