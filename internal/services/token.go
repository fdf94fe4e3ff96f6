package services

import (
	"errors"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID     string `json:"user_id"`
	AccessCode string `json:"access_code"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken mints an HS256 JWT carrying the user's id, access code and
// name, valid for the given duration.
func GenerateToken(user *models.User, secret []byte, validity time.Duration) (string, error) {
	issuedAt := time.Now()
	claims := Claims{
		UserID:     user.ID,
		AccessCode: user.AccessCode,
		Name:       user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validity)),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry of a token. Expired tokens
// are distinguished from malformed or tampered ones.
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
