package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/models"
	"github.com/jackc/pgx/v5"
)

type AuthCodeRepo struct {
	db      DB
	timeout time.Duration
}

func NewAuthCodeRepo(db DB, timeout time.Duration) *AuthCodeRepo {
	return &AuthCodeRepo{db: db, timeout: timeout}
}

func (r *AuthCodeRepo) GetByCode(ctx context.Context, code string) (*models.AuthorizationCode, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, code, active, created_by, created_at
		FROM auth_codes
		WHERE code = $1
	`, code)

	var ac models.AuthorizationCode
	if err := row.Scan(&ac.ID, &ac.Code, &ac.Active, &ac.CreatedBy, &ac.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get auth code: %w", err)
	}
	return &ac, nil
}

func (r *AuthCodeRepo) Create(ctx context.Context, ac *models.AuthorizationCode) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO auth_codes (id, code, active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ac.ID, ac.Code, ac.Active, ac.CreatedBy, ac.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert auth code: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("insert auth code: %w", err)
	}
	return nil
}

// Deactivate revokes a code so it can no longer gate registrations.
func (r *AuthCodeRepo) Deactivate(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE auth_codes SET active = false WHERE code = $1
	`, code)
	if err != nil {
		return fmt.Errorf("deactivate auth code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AuthCodeRepo) CountByActive(ctx context.Context) (total, active int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE active)
		FROM auth_codes
	`)
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("count auth codes: %w", err)
	}
	return total, active, nil
}
