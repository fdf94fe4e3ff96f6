package middleware

import (
	"strings"

	"github.com/Cristhianmcc/todobalon-backend/internal/services"
	"github.com/Cristhianmcc/todobalon-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

const identityKey = "auth_identity"

// Identity is the verified caller attached to the request context by the
// auth middleware.
type Identity struct {
	ID         string
	Name       string
	Email      string
	AccessCode string
	Token      string
}

// RequireAuth rejects requests without a valid bearer token backed by an
// active session and an active user.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		user, err := auth.VerifyToken(c.Request.Context(), token)
		if err != nil {
			utils.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, Identity{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			AccessCode: user.AccessCode,
			Token:      token,
		})
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is presented but lets
// the request through anonymously on any failure. Handlers must check
// CurrentIdentity themselves.
func OptionalAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := auth.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(identityKey, Identity{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			AccessCode: user.AccessCode,
			Token:      token,
		})
		c.Next()
	}
}

// CurrentIdentity reports the verified caller, if any. The second return
// distinguishes an identified request from an anonymous one.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

// BearerToken extracts the token from the Authorization header. A bare token
// without the "Bearer " prefix is accepted too.
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return header
}
