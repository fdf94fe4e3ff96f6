package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/config"
	"github.com/Cristhianmcc/todobalon-backend/internal/models"
	"github.com/Cristhianmcc/todobalon-backend/internal/repo"
)

// Hand-written fakes backing the service tests.

type fakeUserStore struct {
	byCode map[string]*models.User

	getErr       error
	createErr    error
	alwaysExists bool

	recent []models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byCode: map[string]*models.User{}}
}

func (f *fakeUserStore) GetByAccessCode(_ context.Context, accessCode string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.alwaysExists {
		return &models.User{ID: "taken", AccessCode: accessCode, Active: true}, nil
	}
	user, ok := f.byCode[accessCode]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *user
	f.byCode[user.AccessCode] = &copied
	return nil
}

func (f *fakeUserStore) SetActive(_ context.Context, accessCode string, active bool) error {
	user, ok := f.byCode[accessCode]
	if !ok {
		return repo.ErrNotFound
	}
	user.Active = active
	return nil
}

func (f *fakeUserStore) CountByActive(context.Context) (int64, int64, error) {
	var total, active int64
	for _, user := range f.byCode {
		total++
		if user.Active {
			active++
		}
	}
	return total, active, nil
}

func (f *fakeUserStore) ListRecent(context.Context, int) ([]models.User, error) {
	return f.recent, nil
}

type fakeAuthCodeStore struct {
	byCode map[string]*models.AuthorizationCode

	getErr        error
	createErrs    []error
	deactivateErr error
}

func newFakeAuthCodeStore() *fakeAuthCodeStore {
	return &fakeAuthCodeStore{byCode: map[string]*models.AuthorizationCode{}}
}

func (f *fakeAuthCodeStore) GetByCode(_ context.Context, code string) (*models.AuthorizationCode, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	ac, ok := f.byCode[code]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *ac
	return &copied, nil
}

func (f *fakeAuthCodeStore) Create(_ context.Context, ac *models.AuthorizationCode) error {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	copied := *ac
	f.byCode[ac.Code] = &copied
	return nil
}

func (f *fakeAuthCodeStore) Deactivate(_ context.Context, code string) error {
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	ac, ok := f.byCode[code]
	if !ok {
		return repo.ErrNotFound
	}
	ac.Active = false
	return nil
}

func (f *fakeAuthCodeStore) CountByActive(context.Context) (int64, int64, error) {
	var total, active int64
	for _, ac := range f.byCode {
		total++
		if ac.Active {
			active++
		}
	}
	return total, active, nil
}

type fakeSessionStore struct {
	byToken map[string]*models.Session
	users   map[string]*models.User

	createErr error
	getErr    error
	deleteErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		byToken: map[string]*models.Session{},
		users:   map[string]*models.User{},
	}
}

func (f *fakeSessionStore) Create(_ context.Context, session *models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *session
	f.byToken[session.Token] = &copied
	return nil
}

func (f *fakeSessionStore) GetActiveWithUser(_ context.Context, token string, now time.Time) (*models.ActiveSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	session, ok := f.byToken[token]
	if !ok || session.ExpiresAt.Before(now) {
		return nil, repo.ErrNotFound
	}
	user, ok := f.users[session.UserID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &models.ActiveSession{Session: *session, User: *user}, nil
}

func (f *fakeSessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var deleted int64
	for token, session := range f.byToken {
		if session.ExpiresAt.Before(now) {
			delete(f.byToken, token)
			deleted++
		}
	}
	return deleted, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Env:           "test",
		JWTSecret:     "test-secret",
		JWTExpiry:     24 * time.Hour,
		AdminPassword: "admin-pass",
	}
}

type testEnv struct {
	auth     *AuthService
	sessions *SessionService
	users    *fakeUserStore
	codes    *fakeAuthCodeStore
	store    *fakeSessionStore
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	users := newFakeUserStore()
	codes := newFakeAuthCodeStore()
	store := newFakeSessionStore()
	sessions := NewSessionService(store, cfg.JWTExpiry, testLogger())
	auth := NewAuthService(users, codes, sessions, cfg, testLogger())
	return &testEnv{auth: auth, sessions: sessions, users: users, codes: codes, store: store, cfg: cfg}
}

// addUser registers a user directly in the fakes, visible to both the user
// store and the session join.
func (e *testEnv) addUser(user *models.User) {
	copied := *user
	e.users.byCode[user.AccessCode] = &copied
	joined := *user
	e.store.users[user.ID] = &joined
}

func (e *testEnv) addAuthCode(code string, active bool) {
	e.codes.byCode[code] = &models.AuthorizationCode{
		ID:        "ac-" + code,
		Code:      code,
		Active:    active,
		CreatedBy: "admin",
		CreatedAt: time.Now(),
	}
}
