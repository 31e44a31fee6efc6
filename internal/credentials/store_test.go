// internal/credentials/store_test.go
package credentials

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

func createTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, logger.NewTestLogger(t)), mock
}

func TestFindByType_ReturnsRecord(t *testing.T) {
	store, mock := createTestStore(t)

	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "type", "client_id", "client_secret",
		"redirect_uri", "refresh_token", "tenant_id", "created_at", "updated_at",
	}).AddRow(
		"cred-1", "google", "client-abc", "secret-xyz",
		"", "refresh-123", "", now, now,
	)

	mock.ExpectQuery(`SELECT(?s:.+)FROM calendar_credentials(?s:.+)WHERE type = \$1`).
		WithArgs("google").
		WillReturnRows(rows)

	creds, err := store.FindByType(context.Background(), "google")
	require.NoError(t, err)
	assert.Equal(t, "cred-1", creds.ID)
	assert.Equal(t, "google", creds.Type)
	assert.Equal(t, "client-abc", creds.ClientID)
	assert.Equal(t, "refresh-123", creds.RefreshToken)
	assert.Empty(t, creds.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByType_NotFound(t *testing.T) {
	store, mock := createTestStore(t)

	mock.ExpectQuery(`SELECT(?s:.+)FROM calendar_credentials`).
		WithArgs("microsoft").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindByType(context.Background(), "microsoft")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrNotFound))
}

func TestUpsert_AssignsIDAndTimestamps(t *testing.T) {
	store, mock := createTestStore(t)

	creds := &models.CalendarCredentials{
		Type:         "google",
		ClientID:     "client-abc",
		ClientSecret: "secret-xyz",
		RefreshToken: "refresh-123",
	}

	mock.ExpectExec(`INSERT INTO calendar_credentials(?s:.+)ON CONFLICT \(type\) DO UPDATE`).
		WithArgs(sqlmock.AnyArg(), "google", "client-abc", "secret-xyz",
			nil, "refresh-123", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Upsert(context.Background(), creds)
	require.NoError(t, err)
	assert.NotEmpty(t, creds.ID)
	assert.False(t, creds.CreatedAt.IsZero())
	assert.False(t, creds.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_KeepsExistingIDAndCreatedAt(t *testing.T) {
	store, mock := createTestStore(t)

	created := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	creds := &models.CalendarCredentials{
		ID:           "cred-1",
		Type:         "microsoft",
		ClientID:     "client-abc",
		ClientSecret: "secret-xyz",
		TenantID:     "tenant-9",
		CreatedAt:    created,
	}

	mock.ExpectExec(`INSERT INTO calendar_credentials`).
		WithArgs("cred-1", "microsoft", "client-abc", "secret-xyz",
			nil, nil, "tenant-9", created, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Upsert(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "cred-1", creds.ID)
	assert.Equal(t, created, creds.CreatedAt)
	assert.True(t, creds.UpdatedAt.After(created))
}
