package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/models"
	"github.com/jackc/pgx/v5"
)

type SessionRepo struct {
	db      DB
	timeout time.Duration
}

func NewSessionRepo(db DB, timeout time.Duration) *SessionRepo {
	return &SessionRepo{db: db, timeout: timeout}
}

func (r *SessionRepo) Create(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, access_code, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, session.ID, session.UserID, session.AccessCode, session.Token, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert session: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetActiveWithUser looks up an unexpired session by token, joined to the
// owning user. Expiry is evaluated against the caller's clock so validity is
// re-checked on every use.
func (r *SessionRepo) GetActiveWithUser(ctx context.Context, token string, now time.Time) (*models.ActiveSession, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.access_code, s.token, s.created_at, s.expires_at,
		       u.id, u.name, u.email, u.access_code, u.active, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at >= $2
	`, token, now)

	var as models.ActiveSession
	if err := row.Scan(
		&as.Session.ID,
		&as.Session.UserID,
		&as.Session.AccessCode,
		&as.Session.Token,
		&as.Session.CreatedAt,
		&as.Session.ExpiresAt,
		&as.User.ID,
		&as.User.Name,
		&as.User.Email,
		&as.User.AccessCode,
		&as.User.Active,
		&as.User.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return &as, nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		DELETE FROM sessions WHERE expires_at < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
