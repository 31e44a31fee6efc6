// internal/calendar/microsoft/microsoft_test.go
package microsoft

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/calendar"
	commonhttp "careers-scheduling/internal/common/http"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/credentials"
	"careers-scheduling/internal/models"
)

type fakeCredentialSource struct {
	creds *models.CalendarCredentials
	err   error
}

func (s *fakeCredentialSource) FindByType(ctx context.Context, providerType string) (*models.CalendarCredentials, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.creds, nil
}

func testEvent() models.CalendarEvent {
	return models.CalendarEvent{
		UID:       "interview-1@careers",
		Title:     "Technical Screen",
		StartDate: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC),
		Attendees: []models.Attendee{{Email: "alex@example.com", Name: "Alex Kim"}},
	}
}

func configuredFallback() FallbackConfig {
	return FallbackConfig{
		TenantID:     "tenant-1",
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RefreshToken: "rt-1",
		Organizer:    "scheduler@example.com",
	}
}

func requireIntegrationError(t *testing.T, err error, op string) *calendar.IntegrationError {
	t.Helper()
	var integErr *calendar.IntegrationError
	require.ErrorAs(t, err, &integErr)
	assert.Equal(t, calendar.ProviderMicrosoft, integErr.Provider)
	assert.Equal(t, op, integErr.Op)
	return integErr
}

func createTestGraph(t *testing.T, handler http.HandlerFunc) *GraphClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &GraphClient{baseURL: srv.URL, httpClient: commonhttp.NewClient(time.Second)}
}

func TestCreateEvent_NotConfigured(t *testing.T) {
	adapter := NewAdapter(&fakeCredentialSource{err: credentials.ErrNotFound},
		FallbackConfig{}, nil, logger.NewTestLogger(t))

	_, err := adapter.CreateEvent(context.Background(), testEvent())
	integErr := requireIntegrationError(t, err, "credentials")
	assert.Contains(t, integErr.Error(), "microsoft calendar not configured")
}

func TestCreateEvent_MissingRefreshToken(t *testing.T) {
	adapter := NewAdapter(&fakeCredentialSource{creds: &models.CalendarCredentials{
		ClientID:     "stored-id",
		ClientSecret: "stored-secret",
	}}, FallbackConfig{}, nil, logger.NewTestLogger(t))

	_, err := adapter.CreateEvent(context.Background(), testEvent())
	integErr := requireIntegrationError(t, err, "credentials")
	assert.Contains(t, integErr.Error(), "no refresh token configured")
}

func TestCreateEvent_StoreFailurePropagates(t *testing.T) {
	adapter := NewAdapter(&fakeCredentialSource{err: assert.AnError},
		configuredFallback(), nil, logger.NewTestLogger(t))

	_, err := adapter.CreateEvent(context.Background(), testEvent())
	integErr := requireIntegrationError(t, err, "credentials")
	assert.ErrorIs(t, integErr, assert.AnError)
}

func TestResolveCredentials_StoredRecordFillsGapsFromFallback(t *testing.T) {
	adapter := NewAdapter(&fakeCredentialSource{creds: &models.CalendarCredentials{
		ClientID:     "stored-id",
		ClientSecret: "stored-secret",
	}}, configuredFallback(), nil, logger.NewTestLogger(t))

	resolved, err := adapter.resolveCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored-id", resolved.ClientID)
	assert.Equal(t, "stored-secret", resolved.ClientSecret)
	// Tenant and refresh token were not stored, fall back to process config.
	assert.Equal(t, "tenant-1", resolved.TenantID)
	assert.Equal(t, "rt-1", resolved.RefreshToken)
}

func TestCreateEvent_AuthFailure(t *testing.T) {
	adapter := NewAdapter(&fakeCredentialSource{err: credentials.ErrNotFound},
		configuredFallback(), nil, logger.NewTestLogger(t))
	adapter.tokenFn = func(ctx context.Context, tenantID, clientID, clientSecret, refreshToken string) (string, error) {
		return "", assert.AnError
	}

	_, err := adapter.CreateEvent(context.Background(), testEvent())
	integErr := requireIntegrationError(t, err, "auth")
	assert.ErrorIs(t, integErr, assert.AnError)
}

func TestCreateEvent_GraphRejection(t *testing.T) {
	graph := createTestGraph(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"ErrorAccessDenied"}}`))
	})

	adapter := NewAdapter(&fakeCredentialSource{err: credentials.ErrNotFound},
		configuredFallback(), graph, logger.NewTestLogger(t))
	adapter.tokenFn = func(ctx context.Context, tenantID, clientID, clientSecret, refreshToken string) (string, error) {
		return "token-abc", nil
	}

	_, err := adapter.CreateEvent(context.Background(), testEvent())
	integErr := requireIntegrationError(t, err, "create")
	assert.Contains(t, integErr.Error(), "status 403")
}

func TestCreateEvent_CarriesWebAndJoinLinks(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	graph := createTestGraph(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": "evt-1",
			"webLink": "https://outlook.office.com/calendar/item/evt-1",
			"onlineMeeting": {"joinUrl": "https://teams.microsoft.com/l/meetup-join/abc"}
		}`))
	})

	adapter := NewAdapter(&fakeCredentialSource{err: credentials.ErrNotFound},
		configuredFallback(), graph, logger.NewTestLogger(t))
	adapter.tokenFn = func(ctx context.Context, tenantID, clientID, clientSecret, refreshToken string) (string, error) {
		return "token-abc", nil
	}

	invite, err := adapter.CreateEvent(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Equal(t, "/users/scheduler@example.com/events", gotPath)
	assert.Equal(t, "Bearer token-abc", gotAuth)

	var remote graphEvent
	require.NoError(t, json.Unmarshal(gotBody, &remote))
	assert.Equal(t, "Technical Screen", remote.Subject)
	assert.True(t, remote.IsOnlineMeeting)
	require.Len(t, remote.Attendees, 1)
	assert.Equal(t, "alex@example.com", remote.Attendees[0].EmailAddress.Address)

	assert.Equal(t, "text/calendar", invite.ContentType)
	assert.Contains(t, invite.Content, "PRODID:-//Careers Platform//Microsoft Outlook//EN")
	assert.Contains(t, invite.Content, "Outlook: https://outlook.office.com/calendar/item/evt-1")
	assert.Contains(t, invite.Content, "Meeting link: https://teams.microsoft.com/l/meetup-join/abc")
}
