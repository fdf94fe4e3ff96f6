package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/models"
	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	db      DB
	timeout time.Duration
}

func NewUserRepo(db DB, timeout time.Duration) *UserRepo {
	return &UserRepo{db: db, timeout: timeout}
}

func (r *UserRepo) GetByAccessCode(ctx context.Context, accessCode string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, access_code, active, created_at
		FROM users
		WHERE access_code = $1
	`, accessCode)

	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.AccessCode,
		&user.Active,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by access code: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, access_code, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Name, user.Email, user.AccessCode, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// SetActive toggles the activation flag; the administrative path, never a
// hard delete.
func (r *UserRepo) SetActive(ctx context.Context, accessCode string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE users SET active = $1 WHERE access_code = $2
	`, active, accessCode)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) CountByActive(ctx context.Context) (total, active int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE active)
		FROM users
	`)
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	return total, active, nil
}

func (r *UserRepo) ListRecent(ctx context.Context, limit int) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, access_code, active, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.AccessCode,
			&user.Active,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recent user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent users: %w", err)
	}
	return users, nil
}
