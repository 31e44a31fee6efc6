// internal/calendar/provider.go
package calendar

import (
	"context"
	"fmt"

	"careers-scheduling/internal/models"
)

// ProviderType is the closed set of calendar backends a company can
// configure. Anything else routes straight to the plain ICS fallback.
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderMicrosoft ProviderType = "microsoft"
	ProviderOther     ProviderType = "other"
)

// ParseProviderType normalizes a configured provider string. Unknown or
// empty values map to ProviderOther.
func ParseProviderType(s string) ProviderType {
	switch ProviderType(s) {
	case ProviderGoogle:
		return ProviderGoogle
	case ProviderMicrosoft:
		return ProviderMicrosoft
	default:
		return ProviderOther
	}
}

// Provider creates a remote calendar event and returns the resulting invite.
// Every failure is reported as a *IntegrationError; the router treats any
// error, of any shape, as a signal to fall back to the plain ICS invite.
type Provider interface {
	Type() ProviderType
	CreateEvent(ctx context.Context, event models.CalendarEvent) (*models.Invite, error)
}

// IntegrationError wraps a provider failure with enough context to log.
// It is never surfaced out of invite generation.
type IntegrationError struct {
	Provider ProviderType
	Op       string // "credentials", "auth", "create", "timeout"
	Err      error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("calendar %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}

// NewIntegrationError builds a typed provider failure.
func NewIntegrationError(provider ProviderType, op string, err error) *IntegrationError {
	return &IntegrationError{Provider: provider, Op: op, Err: err}
}
