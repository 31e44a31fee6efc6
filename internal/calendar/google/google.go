// internal/calendar/google/google.go
package google

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	oauth2google "golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"careers-scheduling/internal/calendar"
	"careers-scheduling/internal/calendar/ics"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/credentials"
	"careers-scheduling/internal/models"
)

const prodID = "-//Careers Platform//Google Calendar//EN"

// CredentialSource yields the stored per-provider credentials.
type CredentialSource interface {
	FindByType(ctx context.Context, providerType string) (*models.CalendarCredentials, error)
}

// FallbackConfig is the process-level credential fallback used when the
// store has no record for the google provider type.
type FallbackConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
}

// Adapter creates events through the Google Calendar API and renders the
// invite with the remote event's web link folded into the description.
type Adapter struct {
	store     CredentialSource
	fallback  FallbackConfig
	formatter *ics.Formatter
	logger    logger.Logger

	// newService is swapped in tests to avoid real API construction.
	newService func(ctx context.Context, conf *oauth2.Config, refreshToken string) (*gcalendar.Service, error)
}

func NewAdapter(store CredentialSource, fallback FallbackConfig, log logger.Logger) *Adapter {
	if fallback.CalendarID == "" {
		fallback.CalendarID = "primary"
	}
	return &Adapter{
		store:      store,
		fallback:   fallback,
		formatter:  ics.NewFormatter(prodID),
		logger:     log,
		newService: newCalendarService,
	}
}

func (a *Adapter) Type() calendar.ProviderType {
	return calendar.ProviderGoogle
}

// CreateEvent resolves credentials, creates the remote event, and returns
// the invite. Every failure comes back as a *calendar.IntegrationError for
// the router to downgrade; this method itself never panics on provider
// misconfiguration.
func (a *Adapter) CreateEvent(ctx context.Context, event models.CalendarEvent) (*models.Invite, error) {
	clientID, clientSecret, refreshToken, calendarID, err := a.resolveCredentials(ctx)
	if err != nil {
		return nil, calendar.NewIntegrationError(calendar.ProviderGoogle, "credentials", err)
	}

	// A refresh token is mandatory: without one the integration is simply
	// not configured and the plain invite is the right outcome.
	if refreshToken == "" {
		return nil, calendar.NewIntegrationError(calendar.ProviderGoogle, "credentials",
			errors.New("no refresh token configured"))
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2google.Endpoint,
		Scopes:       []string{gcalendar.CalendarEventsScope},
	}

	service, err := a.newService(ctx, conf, refreshToken)
	if err != nil {
		return nil, calendar.NewIntegrationError(calendar.ProviderGoogle, "auth", err)
	}

	remote := &gcalendar.Event{
		Summary:     event.Title,
		Description: ics.DescriptionWithMeetingInfo(event),
		Location:    event.Location,
		Start: &gcalendar.EventDateTime{
			DateTime: event.StartDate.UTC().Format("2006-01-02T15:04:05Z"),
			TimeZone: "UTC",
		},
		End: &gcalendar.EventDateTime{
			DateTime: event.EndDate.UTC().Format("2006-01-02T15:04:05Z"),
			TimeZone: "UTC",
		},
	}
	for _, att := range event.Attendees {
		remote.Attendees = append(remote.Attendees, &gcalendar.EventAttendee{
			Email:       att.Email,
			DisplayName: att.Name,
		})
	}

	created, err := service.Events.Insert(calendarID, remote).Context(ctx).SendUpdates("all").Do()
	if err != nil {
		return nil, calendar.NewIntegrationError(calendar.ProviderGoogle, "create", err)
	}

	a.logger.Info("google calendar event created", map[string]interface{}{
		"eventUid": event.UID,
		"remoteId": created.Id,
	})

	// Fold the remote link into the description so the rendered ICS carries
	// it; the base format is the shared formatter, unchanged.
	if created.HtmlLink != "" {
		if event.Description != "" {
			event.Description += "\n"
		}
		event.Description += "Google Calendar: " + created.HtmlLink
	}

	invite := a.formatter.Format(event)
	return &invite, nil
}

func (a *Adapter) resolveCredentials(ctx context.Context) (clientID, clientSecret, refreshToken, calendarID string, err error) {
	stored, err := a.store.FindByType(ctx, string(calendar.ProviderGoogle))
	if err != nil {
		if !errors.Is(err, credentials.ErrNotFound) {
			return "", "", "", "", fmt.Errorf("credential lookup: %w", err)
		}
		// No stored record: fall back to process configuration.
		if a.fallback.ClientID == "" || a.fallback.ClientSecret == "" {
			return "", "", "", "", errors.New("google calendar not configured")
		}
		return a.fallback.ClientID, a.fallback.ClientSecret, a.fallback.RefreshToken, a.fallback.CalendarID, nil
	}

	refreshToken = stored.RefreshToken
	if refreshToken == "" {
		refreshToken = a.fallback.RefreshToken
	}
	return stored.ClientID, stored.ClientSecret, refreshToken, a.fallback.CalendarID, nil
}

func newCalendarService(ctx context.Context, conf *oauth2.Config, refreshToken string) (*gcalendar.Service, error) {
	source := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return gcalendar.NewService(ctx, option.WithTokenSource(source))
}
