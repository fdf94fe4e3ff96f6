package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureBootstrapAuthCode seeds one active authorization code when none
// exist, so a fresh dev environment can register its first user without
// calling the admin endpoint. The code is logged once; idempotent across
// restarts.
func EnsureBootstrapAuthCode(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration, code string, log *slog.Logger) error {
	ctxCheck, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	row := pool.QueryRow(ctxCheck, "SELECT EXISTS(SELECT 1 FROM auth_codes WHERE active)")
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("check bootstrap auth code: %w", err)
	}
	if exists {
		return nil
	}

	ctxInsert, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := pool.Exec(ctxInsert, `
		INSERT INTO auth_codes (id, code, active, created_by, created_at)
		VALUES ($1, $2, true, 'bootstrap', now())
	`, uuid.NewString(), code)
	if err != nil {
		return fmt.Errorf("insert bootstrap auth code: %w", err)
	}

	log.Info("bootstrap authorization code created", "code", code)
	return nil
}
