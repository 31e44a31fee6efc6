// internal/directory/directory.go
package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"careers-scheduling/internal/common/errors"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/models"
)

// Directory resolves user ids into names and emails for invite attendee
// lists, with a short-lived redis cache in front of postgres. Calendar
// credentials are never cached here or anywhere else; only directory
// records are.
type Directory struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func New(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log logger.Logger) *Directory {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Directory{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// GetUser resolves one user, cache first.
func (d *Directory) GetUser(ctx context.Context, userID string) (*models.User, error) {
	cacheKey := "user:" + userID
	if d.redis != nil {
		if val, err := d.redis.Get(ctx, cacheKey).Result(); err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return &user, nil
			}
		}
	}

	var user models.User
	var phone, role sql.NullString
	query := `SELECT id, name, email, phone, role, calendar_connected FROM users WHERE id = $1`
	err := d.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &phone, &role, &user.CalendarConnected,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewUserNotFoundError(userID)
		}
		return nil, errors.NewQueryExecutionFailedError("get_user", err)
	}
	user.Phone = phone.String
	user.Role = role.String

	if d.redis != nil {
		data, _ := json.Marshal(user)
		if err := d.redis.Set(ctx, cacheKey, data, d.cacheTTL).Err(); err != nil {
			d.logger.Debug("user cache write failed", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
	}

	return &user, nil
}

// ResolveAttendees maps interviewer ids to invite attendees. Unresolvable
// ids and users without an email are skipped with a warning rather than
// failing the invite: a bad directory record must not block scheduling, and
// an attendee without an address would render a dangling mailto line.
func (d *Directory) ResolveAttendees(ctx context.Context, interviewers []models.Interviewer) []models.Attendee {
	attendees := make([]models.Attendee, 0, len(interviewers))
	for _, iv := range interviewers {
		user, err := d.GetUser(ctx, iv.ParticipantID)
		if err != nil {
			d.logger.Warn("skipping unresolvable attendee", map[string]interface{}{
				"participantId": iv.ParticipantID,
				"error":         err.Error(),
			})
			continue
		}
		if user.Email == "" {
			d.logger.Warn("skipping attendee without email", map[string]interface{}{
				"participantId": iv.ParticipantID,
			})
			continue
		}
		name := user.Name
		if name == "" {
			name = iv.DisplayName
		}
		attendees = append(attendees, models.Attendee{
			Email: user.Email,
			Name:  name,
		})
	}
	return attendees
}

// Invalidate drops a user's cache entry, used after profile updates.
func (d *Directory) Invalidate(ctx context.Context, userID string) error {
	if d.redis == nil {
		return nil
	}
	if err := d.redis.Del(ctx, "user:"+userID).Err(); err != nil {
		return fmt.Errorf("invalidate user cache: %w", err)
	}
	return nil
}
