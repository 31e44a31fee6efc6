// internal/models/credentials.go
package models

import "time"

// CalendarCredentials is the global per-provider-type integration record.
// At most one record exists per type; adapters re-fetch it on every invite
// generation so credential rotation takes effect immediately.
type CalendarCredentials struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"` // "google" or "microsoft"
	ClientID     string    `json:"clientId"`
	ClientSecret string    `json:"clientSecret"`
	RedirectURI  string    `json:"redirectUri,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TenantID     string    `json:"tenantId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
