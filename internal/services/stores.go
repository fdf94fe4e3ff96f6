package services

import (
	"context"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/models"
)

// The store interfaces cover exactly what the services need from the
// datastore; internal/repo provides the PostgreSQL implementations.

type UserStore interface {
	GetByAccessCode(ctx context.Context, accessCode string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, accessCode string, active bool) error
	CountByActive(ctx context.Context) (total, active int64, err error)
	ListRecent(ctx context.Context, limit int) ([]models.User, error)
}

type AuthCodeStore interface {
	GetByCode(ctx context.Context, code string) (*models.AuthorizationCode, error)
	Create(ctx context.Context, ac *models.AuthorizationCode) error
	Deactivate(ctx context.Context, code string) error
	CountByActive(ctx context.Context) (total, active int64, err error)
}

type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetActiveWithUser(ctx context.Context, token string, now time.Time) (*models.ActiveSession, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
