// internal/credentials/store.go
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

// ErrNotFound is returned when no credential record exists for a provider
// type. Adapters treat it as "use the process-level fallback", not as a
// failure.
var ErrNotFound = errors.New("CREDENTIALS_NOT_FOUND")

// Store persists the global per-provider-type calendar credentials. Records
// are re-fetched on every invite generation, never cached, so an
// administrator rotating a secret takes effect immediately.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

// FindByType returns the single credential record for the provider type.
func (s *Store) FindByType(ctx context.Context, providerType string) (*models.CalendarCredentials, error) {
	query := `
		SELECT id, type, client_id, client_secret,
		       COALESCE(redirect_uri, ''), COALESCE(refresh_token, ''),
		       COALESCE(tenant_id, ''), created_at, updated_at
		FROM calendar_credentials
		WHERE type = $1`

	var creds models.CalendarCredentials
	err := s.db.QueryRowContext(ctx, query, providerType).Scan(
		&creds.ID,
		&creds.Type,
		&creds.ClientID,
		&creds.ClientSecret,
		&creds.RedirectURI,
		&creds.RefreshToken,
		&creds.TenantID,
		&creds.CreatedAt,
		&creds.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: type %s", ErrNotFound, providerType)
	}
	if err != nil {
		return nil, fmt.Errorf("query calendar credentials: %w", err)
	}

	return &creds, nil
}

// Upsert creates or replaces the credential record for its provider type.
// The unique constraint on type keeps at most one record per provider.
func (s *Store) Upsert(ctx context.Context, creds *models.CalendarCredentials) error {
	if creds.ID == "" {
		creds.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now

	query := `
		INSERT INTO calendar_credentials
			(id, type, client_id, client_secret, redirect_uri, refresh_token, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (type) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			client_secret = EXCLUDED.client_secret,
			redirect_uri = EXCLUDED.redirect_uri,
			refresh_token = EXCLUDED.refresh_token,
			tenant_id = EXCLUDED.tenant_id,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		creds.ID,
		creds.Type,
		creds.ClientID,
		creds.ClientSecret,
		nullable(creds.RedirectURI),
		nullable(creds.RefreshToken),
		nullable(creds.TenantID),
		creds.CreatedAt,
		creds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert calendar credentials: %w", err)
	}

	s.logger.Info("calendar credentials updated", map[string]interface{}{
		"type": creds.Type,
	})
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
