// internal/calendar/microsoft/microsoft.go
package microsoft

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	oauth2microsoft "golang.org/x/oauth2/microsoft"

	"careers-scheduling/internal/calendar"
	"careers-scheduling/internal/calendar/ics"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/credentials"
	"careers-scheduling/internal/models"
)

const prodID = "-//Careers Platform//Microsoft Outlook//EN"

// CredentialSource yields the stored per-provider credentials.
type CredentialSource interface {
	FindByType(ctx context.Context, providerType string) (*models.CalendarCredentials, error)
}

// FallbackConfig is the process-level credential fallback used when the
// store has no record for the microsoft provider type.
type FallbackConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	Organizer    string
}

// Adapter creates Outlook events through Microsoft Graph. On success the
// invite description carries the event's web link and, when Graph attaches
// an online meeting, the Teams join link.
type Adapter struct {
	store     CredentialSource
	fallback  FallbackConfig
	graph     *GraphClient
	formatter *ics.Formatter
	logger    logger.Logger

	// tokenFn is swapped in tests to avoid the real token endpoint.
	tokenFn func(ctx context.Context, tenantID, clientID, clientSecret, refreshToken string) (string, error)
}

func NewAdapter(store CredentialSource, fallback FallbackConfig, graph *GraphClient, log logger.Logger) *Adapter {
	return &Adapter{
		store:     store,
		fallback:  fallback,
		graph:     graph,
		formatter: ics.NewFormatter(prodID),
		logger:    log,
		tokenFn:   refreshAccessToken,
	}
}

func (a *Adapter) Type() calendar.ProviderType {
	return calendar.ProviderMicrosoft
}

// CreateEvent resolves credentials, creates the remote event through Graph,
// and returns the invite. Every failure comes back as a
// *calendar.IntegrationError for the router to downgrade.
func (a *Adapter) CreateEvent(ctx context.Context, event models.CalendarEvent) (*models.Invite, error) {
	creds, err := a.resolveCredentials(ctx)
	if err != nil {
		return nil, calendar.NewIntegrationError(calendar.ProviderMicrosoft, "credentials", err)
	}

	accessToken, err := a.tokenFn(ctx, creds.TenantID, creds.ClientID, creds.ClientSecret, creds.RefreshToken)
	if err != nil {
		return nil, calendar.NewIntegrationError(calendar.ProviderMicrosoft, "auth", err)
	}

	remote := &graphEvent{
		Subject:               event.Title,
		IsOnlineMeeting:       true,
		OnlineMeetingProvider: "teamsForBusiness",
		Start: graphDateTime{
			DateTime: event.StartDate.UTC().Format("2006-01-02T15:04:05"),
			TimeZone: "UTC",
		},
		End: graphDateTime{
			DateTime: event.EndDate.UTC().Format("2006-01-02T15:04:05"),
			TimeZone: "UTC",
		},
	}
	remote.Body.ContentType = "Text"
	remote.Body.Content = ics.DescriptionWithMeetingInfo(event)
	if event.Location != "" {
		remote.Location = &graphLocation{DisplayName: event.Location}
	}
	for _, att := range event.Attendees {
		ga := graphAttendee{Type: "required"}
		ga.EmailAddress.Address = att.Email
		ga.EmailAddress.Name = att.Name
		remote.Attendees = append(remote.Attendees, ga)
	}

	created, err := a.graph.CreateEvent(ctx, accessToken, a.organizer(), remote)
	if err != nil {
		return nil, calendar.NewIntegrationError(calendar.ProviderMicrosoft, "create", err)
	}

	a.logger.Info("outlook event created", map[string]interface{}{
		"eventUid": event.UID,
		"remoteId": created.ID,
	})

	if created.WebLink != "" {
		if event.Description != "" {
			event.Description += "\n"
		}
		event.Description += "Outlook: " + created.WebLink
	}
	if created.OnlineMeeting != nil && created.OnlineMeeting.JoinURL != "" {
		event.OnlineMeetingURL = created.OnlineMeeting.JoinURL
	}

	invite := a.formatter.Format(event)
	return &invite, nil
}

type resolvedCredentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

func (a *Adapter) resolveCredentials(ctx context.Context) (*resolvedCredentials, error) {
	stored, err := a.store.FindByType(ctx, string(calendar.ProviderMicrosoft))
	if err != nil {
		if !errors.Is(err, credentials.ErrNotFound) {
			return nil, fmt.Errorf("credential lookup: %w", err)
		}
		if a.fallback.ClientID == "" || a.fallback.ClientSecret == "" {
			return nil, errors.New("microsoft calendar not configured")
		}
		return &resolvedCredentials{
			TenantID:     a.fallback.TenantID,
			ClientID:     a.fallback.ClientID,
			ClientSecret: a.fallback.ClientSecret,
			RefreshToken: a.fallback.RefreshToken,
		}, nil
	}

	resolved := &resolvedCredentials{
		TenantID:     stored.TenantID,
		ClientID:     stored.ClientID,
		ClientSecret: stored.ClientSecret,
		RefreshToken: stored.RefreshToken,
	}
	if resolved.TenantID == "" {
		resolved.TenantID = a.fallback.TenantID
	}
	if resolved.RefreshToken == "" {
		resolved.RefreshToken = a.fallback.RefreshToken
	}
	if resolved.RefreshToken == "" {
		return nil, errors.New("no refresh token configured")
	}
	return resolved, nil
}

func (a *Adapter) organizer() string {
	return a.fallback.Organizer
}

func refreshAccessToken(ctx context.Context, tenantID, clientID, clientSecret, refreshToken string) (string, error) {
	if tenantID == "" {
		tenantID = "common"
	}
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2microsoft.AzureADEndpoint(tenantID),
		Scopes:       []string{"https://graph.microsoft.com/Calendars.ReadWrite", "offline_access"},
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("token refresh: %w", err)
	}
	return token.AccessToken, nil
}
