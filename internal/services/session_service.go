package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/models"
	"github.com/Cristhianmcc/todobalon-backend/internal/repo"
	"github.com/google/uuid"
)

// SessionService manages the server-side records behind issued tokens.
type SessionService struct {
	sessions SessionStore
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewSessionService(sessions SessionStore, ttl time.Duration, log *slog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

func (s *SessionService) Create(ctx context.Context, userID, accessCode, token string) (*models.Session, error) {
	now := s.now()
	session := &models.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		AccessCode: accessCode,
		Token:      token,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetActive returns the unexpired session for a token joined to its user, or
// (nil, nil) when no such session exists. Store failures are returned as
// errors rather than masked as a missing session.
func (s *SessionService) GetActive(ctx context.Context, token string) (*models.ActiveSession, error) {
	session, err := s.sessions.GetActiveWithUser(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// CleanExpired removes sessions past their expiry. Best effort: failures are
// logged and swallowed, correctness does not depend on this running.
func (s *SessionService) CleanExpired(ctx context.Context) {
	deleted, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("session cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		s.log.Info("expired sessions cleaned", "deleted", deleted)
	}
}
