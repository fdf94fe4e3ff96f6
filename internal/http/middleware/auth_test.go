package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/config"
	"github.com/Cristhianmcc/todobalon-backend/internal/models"
	"github.com/Cristhianmcc/todobalon-backend/internal/repo"
	"github.com/Cristhianmcc/todobalon-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct{ user *models.User }

func (s *stubUsers) GetByAccessCode(_ context.Context, code string) (*models.User, error) {
	if s.user != nil && s.user.AccessCode == code {
		copied := *s.user
		return &copied, nil
	}
	return nil, repo.ErrNotFound
}
func (s *stubUsers) Create(context.Context, *models.User) error      { return nil }
func (s *stubUsers) SetActive(context.Context, string, bool) error   { return nil }
func (s *stubUsers) CountByActive(context.Context) (int64, int64, error) {
	return 0, 0, nil
}
func (s *stubUsers) ListRecent(context.Context, int) ([]models.User, error) { return nil, nil }

type stubCodes struct{}

func (stubCodes) GetByCode(context.Context, string) (*models.AuthorizationCode, error) {
	return nil, repo.ErrNotFound
}
func (stubCodes) Create(context.Context, *models.AuthorizationCode) error { return nil }
func (stubCodes) Deactivate(context.Context, string) error                { return nil }
func (stubCodes) CountByActive(context.Context) (int64, int64, error)     { return 0, 0, nil }

type stubSessions struct {
	byToken map[string]*models.Session
	users   map[string]*models.User
}

func (s *stubSessions) Create(_ context.Context, session *models.Session) error {
	copied := *session
	s.byToken[session.Token] = &copied
	return nil
}

func (s *stubSessions) GetActiveWithUser(_ context.Context, token string, now time.Time) (*models.ActiveSession, error) {
	session, ok := s.byToken[token]
	if !ok || session.ExpiresAt.Before(now) {
		return nil, repo.ErrNotFound
	}
	user, ok := s.users[session.UserID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &models.ActiveSession{Session: *session, User: *user}, nil
}

func (s *stubSessions) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

func newAuthFixture(t *testing.T) (*services.AuthService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	user := &models.User{ID: "user-ana", Name: "Ana", AccessCode: "TBX7K2AB", Active: true, CreatedAt: time.Now()}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, AdminPassword: "admin-pass"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := &stubSessions{
		byToken: map[string]*models.Session{},
		users:   map[string]*models.User{user.ID: user},
	}
	sessions := services.NewSessionService(store, cfg.JWTExpiry, logger)
	auth := services.NewAuthService(&stubUsers{user: user}, stubCodes{}, sessions, cfg, logger)

	login, err := auth.Login(context.Background(), "TBX7K2AB")
	require.NoError(t, err)
	return auth, login.Token
}

func identityEcho(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"anonymous": false, "id": identity.ID})
}

func TestRequireAuth(t *testing.T) {
	auth, token := newAuthFixture(t)

	router := gin.New()
	router.GET("/protected", RequireAuth(auth), identityEcho)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"user-ana"`)
	})

	t.Run("token without bearer prefix", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", token)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	auth, token := newAuthFixture(t)

	router := gin.New()
	router.GET("/open", OptionalAuth(auth), identityEcho)

	t.Run("no token proceeds anonymously", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"anonymous":true`)
	})

	t.Run("bad token proceeds anonymously", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"anonymous":true`)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"anonymous":false`)
	})
}
