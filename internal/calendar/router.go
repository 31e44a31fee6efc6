// internal/calendar/router.go
package calendar

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"careers-scheduling/internal/calendar/ics"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/common/metrics"
	"careers-scheduling/internal/models"
)

// DefaultProviderTimeout bounds each external provider call so a slow third
// party cannot stall the interview mutation path.
const DefaultProviderTimeout = 5 * time.Second

// Router dispatches invite generation to the configured provider adapter and
// unconditionally falls back to the plain ICS formatter on any failure.
// GenerateInvite never returns an error and never returns empty content:
// invite generation is a side effect of scheduling, not a precondition.
type Router struct {
	providers map[ProviderType]Provider
	formatter *ics.Formatter
	timeout   time.Duration
	logger    logger.Logger
}

// NewRouter builds a Router over the given adapters. A nil formatter gets
// the plain fallback Formatter.
func NewRouter(providers []Provider, formatter *ics.Formatter, timeout time.Duration, log logger.Logger) *Router {
	if formatter == nil {
		formatter = ics.NewFormatter("")
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	byType := make(map[ProviderType]Provider, len(providers))
	for _, p := range providers {
		byType[p.Type()] = p
	}
	return &Router{
		providers: byType,
		formatter: formatter,
		timeout:   timeout,
		logger:    log,
	}
}

// GenerateInvite produces a calendar invite for the event. The configured
// provider is tried first under a deadline; any error, timeout, or panic
// downgrades to the plain ICS invite. The two-tier recovery is deliberate:
// even an adapter that violates its no-throw contract must not fail the
// caller.
func (r *Router) GenerateInvite(ctx context.Context, providerType ProviderType, event models.CalendarEvent) models.Invite {
	provider, ok := r.providers[providerType]
	if !ok || providerType == ProviderOther {
		metrics.InviteGenerated.WithLabelValues(string(ProviderOther)).Inc()
		return r.formatter.Format(event)
	}

	invite, err := r.tryProvider(ctx, provider, event)
	if err != nil {
		reason := "error"
		var integrationErr *IntegrationError
		if stderrors.As(err, &integrationErr) {
			reason = integrationErr.Op
		} else if stderrors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}

		r.logger.Warn("calendar provider failed, using fallback invite", map[string]interface{}{
			"provider": string(providerType),
			"reason":   reason,
			"error":    err.Error(),
			"eventUid": event.UID,
		})
		metrics.InviteFallback.WithLabelValues(string(providerType), reason).Inc()
		return r.formatter.Format(event)
	}

	if invite == nil || invite.Content == "" {
		r.logger.Warn("calendar provider returned empty invite, using fallback", map[string]interface{}{
			"provider": string(providerType),
			"eventUid": event.UID,
		})
		metrics.InviteFallback.WithLabelValues(string(providerType), "empty").Inc()
		return r.formatter.Format(event)
	}

	metrics.InviteGenerated.WithLabelValues(string(providerType)).Inc()
	return *invite
}

// tryProvider runs one adapter call under the router's deadline, converting
// a panic into an error.
func (r *Router) tryProvider(ctx context.Context, provider Provider, event models.CalendarEvent) (invite *models.Invite, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			invite = nil
			err = NewIntegrationError(provider.Type(), "panic", fmt.Errorf("%v", rec))
		}
	}()

	start := time.Now()
	invite, err = provider.CreateEvent(ctx, event)
	metrics.ProviderCallDuration.WithLabelValues(string(provider.Type())).Observe(time.Since(start).Seconds())
	return invite, err
}
