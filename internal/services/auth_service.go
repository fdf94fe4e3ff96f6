package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/config"
	"github.com/Cristhianmcc/todobalon-backend/internal/models"
	"github.com/Cristhianmcc/todobalon-backend/internal/repo"
	"github.com/Cristhianmcc/todobalon-backend/internal/utils"
	"github.com/google/uuid"
)

// maxCodeAttempts bounds code generation retries. The random space is large
// enough that hitting the cap means something is wrong with the store, not
// with luck.
const maxCodeAttempts = 5

const recentUsersLimit = 5

// AuthService orchestrates login, registration, authorization code issuance
// and token verification.
type AuthService struct {
	users    UserStore
	codes    AuthCodeStore
	sessions *SessionService
	cfg      *config.Config
	log      *slog.Logger
}

type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type RegisterResult struct {
	AccessCode string            `json:"accessCode"`
	User       models.PublicUser `json:"user"`
}

type Stats struct {
	TotalUsers      int64         `json:"totalUsers"`
	ActiveUsers     int64         `json:"activeUsers"`
	InactiveUsers   int64         `json:"inactiveUsers"`
	TotalAuthCodes  int64         `json:"totalAuthCodes"`
	ActiveAuthCodes int64         `json:"activeAuthCodes"`
	RecentUsers     []models.User `json:"recentUsers"`
}

func NewAuthService(users UserStore, codes AuthCodeStore, sessions *SessionService, cfg *config.Config, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		codes:    codes,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

// Login exchanges an access code for a bearer token backed by a session row.
func (s *AuthService) Login(ctx context.Context, accessCode string) (*LoginResult, error) {
	accessCode = strings.TrimSpace(accessCode)
	if accessCode == "" {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Código de acceso requerido")
	}

	user, err := s.users.GetByAccessCode(ctx, accessCode)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeUnauthorized, "Código de acceso inválido")
		}
		s.log.Error("login: user lookup failed", "error", err)
		return nil, s.internalError()
	}

	if !user.Active {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeAccountInactive, "Usuario inactivo. Contacte al administrador")
	}

	token, err := GenerateToken(user, []byte(s.cfg.JWTSecret), s.cfg.JWTExpiry)
	if err != nil {
		s.log.Error("login: token generation failed", "error", err)
		return nil, s.internalError()
	}

	if _, err := s.sessions.Create(ctx, user.ID, user.AccessCode, token); err != nil {
		s.log.Error("login: session creation failed", "error", err)
		return nil, s.internalError()
	}

	return &LoginResult{Token: token, User: user.Public()}, nil
}

// Register creates a user gated by an active authorization code and returns
// the freshly minted access code. The code is shown exactly once.
func (s *AuthService) Register(ctx context.Context, name, email, authCode string) (*RegisterResult, error) {
	name = strings.TrimSpace(name)
	authCode = strings.TrimSpace(authCode)
	if name == "" || authCode == "" {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Nombre y código de autorización son requeridos")
	}

	code, err := s.codes.GetByCode(ctx, authCode)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidAuthCode, "Código de autorización inválido")
		}
		s.log.Error("register: auth code lookup failed", "error", err)
		return nil, s.internalError()
	}
	if !code.Active {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidAuthCode, "Código de autorización inválido")
	}

	accessCode, err := s.newUniqueAccessCode(ctx)
	if err != nil {
		return nil, err
	}

	var emailPtr *string
	if trimmed := strings.TrimSpace(email); trimmed != "" {
		emailPtr = &trimmed
	}

	user := &models.User{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      emailPtr,
		AccessCode: accessCode,
		Active:     true,
		CreatedAt:  time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check is optimistic; the unique constraint is the arbiter
		// when two registrations race on the same code.
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, utils.NewAppError(http.StatusConflict, utils.CodeDuplicateAccessCode, "El código de acceso ya existe. Intente nuevamente.")
		}
		s.log.Error("register: user creation failed", "error", err)
		return nil, s.internalError()
	}

	return &RegisterResult{AccessCode: accessCode, User: user.Public()}, nil
}

// GenerateAuthorizationCode issues a registration gate code. Only callers
// presenting the configured admin password may do so.
func (s *AuthService) GenerateAuthorizationCode(ctx context.Context, adminPassword string) (string, error) {
	if adminPassword == "" {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Contraseña de administrador requerida")
	}

	if subtle.ConstantTimeCompare([]byte(adminPassword), []byte(s.cfg.AdminPassword)) != 1 {
		return "", utils.NewAppError(http.StatusUnauthorized, utils.CodeUnauthorized, "Contraseña de administrador incorrecta")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateAuthorizationCode()
		if err != nil {
			s.log.Error("generate: code draw failed", "error", err)
			return "", s.internalError()
		}

		ac := &models.AuthorizationCode{
			ID:        uuid.NewString(),
			Code:      code,
			Active:    true,
			CreatedBy: "admin",
			CreatedAt: time.Now(),
		}
		err = s.codes.Create(ctx, ac)
		if err == nil {
			return code, nil
		}
		if errors.Is(err, repo.ErrDuplicateKey) {
			continue
		}
		s.log.Error("generate: auth code creation failed", "error", err)
		return "", s.internalError()
	}

	s.log.Error("generate: authorization code generation exhausted", "attempts", maxCodeAttempts)
	return "", s.internalError()
}

// VerifyToken checks a bearer token's signature and expiry, then confirms an
// active session still backs it. A structurally valid token whose session is
// gone or whose user was deactivated is rejected.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.PublicUser, error) {
	if token == "" {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeUnauthorized, "Token de acceso requerido")
	}

	if _, err := ParseToken(token, []byte(s.cfg.JWTSecret)); err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeTokenExpired, "Token expirado. Inicie sesión nuevamente")
		}
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidToken, "Token inválido")
	}

	session, err := s.sessions.GetActive(ctx, token)
	if err != nil {
		s.log.Error("verify: session lookup failed", "error", err)
		return nil, s.internalError()
	}
	if session == nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeSessionInvalid, "Sesión expirada o inválida")
	}
	if !session.User.Active {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.CodeAccountInactive, "Usuario inactivo. Contacte al administrador")
	}

	public := session.User.Public()
	return &public, nil
}

// DeactivateAuthorizationCode revokes a previously issued code.
func (s *AuthService) DeactivateAuthorizationCode(ctx context.Context, code string) error {
	if err := s.codes.Deactivate(ctx, strings.TrimSpace(code)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidAuthCode, "Código de autorización inválido")
		}
		s.log.Error("deactivate: auth code update failed", "error", err)
		return s.internalError()
	}
	return nil
}

// SetUserActive toggles a user's activation flag by access code.
func (s *AuthService) SetUserActive(ctx context.Context, accessCode string, active bool) error {
	if err := s.users.SetActive(ctx, strings.TrimSpace(accessCode), active); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return utils.NewAppError(http.StatusUnauthorized, utils.CodeUnauthorized, "Código de acceso inválido")
		}
		s.log.Error("set user active: update failed", "error", err)
		return s.internalError()
	}
	return nil
}

// GetStats aggregates user and authorization code counts plus the most
// recent registrations.
func (s *AuthService) GetStats(ctx context.Context) (*Stats, error) {
	totalUsers, activeUsers, err := s.users.CountByActive(ctx)
	if err != nil {
		s.log.Error("stats: user counts failed", "error", err)
		return nil, s.internalError()
	}

	totalCodes, activeCodes, err := s.codes.CountByActive(ctx)
	if err != nil {
		s.log.Error("stats: auth code counts failed", "error", err)
		return nil, s.internalError()
	}

	recent, err := s.users.ListRecent(ctx, recentUsersLimit)
	if err != nil {
		s.log.Error("stats: recent users failed", "error", err)
		return nil, s.internalError()
	}

	return &Stats{
		TotalUsers:      totalUsers,
		ActiveUsers:     activeUsers,
		InactiveUsers:   totalUsers - activeUsers,
		TotalAuthCodes:  totalCodes,
		ActiveAuthCodes: activeCodes,
		RecentUsers:     recent,
	}, nil
}

// newUniqueAccessCode draws access codes until one is unused, bounded so a
// misbehaving store cannot trap the request in a loop.
func (s *AuthService) newUniqueAccessCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateAccessCode()
		if err != nil {
			s.log.Error("register: code draw failed", "error", err)
			return "", s.internalError()
		}

		_, err = s.users.GetByAccessCode(ctx, code)
		if errors.Is(err, repo.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			s.log.Error("register: access code check failed", "error", err)
			return "", s.internalError()
		}
		// Taken; draw again.
	}

	s.log.Error("register: access code generation exhausted", "attempts", maxCodeAttempts)
	return "", s.internalError()
}

func (s *AuthService) internalError() *utils.AppError {
	return utils.NewAppError(http.StatusInternalServerError, utils.CodeInternal, "Error interno del servidor")
}
