package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes used across the service layer. They map one-to-one onto HTTP
// statuses at the boundary; clients only ever see the envelope.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeAccountInactive     = "ACCOUNT_INACTIVE"
	CodeInvalidAuthCode     = "INVALID_AUTH_CODE"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeSessionInvalid      = "SESSION_INVALID"
	CodeDuplicateAccessCode = "DUPLICATE_ACCESS_CODE"
	CodeInternal            = "INTERNAL_ERROR"
)

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// RespondError translates an error into the JSON envelope. Anything that is
// not an *AppError is treated as an unexpected failure and collapsed to 500.
func RespondError(c *gin.Context, err error) {
	appErr, ok := err.(*AppError)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error interno del servidor",
		})
		return
	}

	c.JSON(appErr.Status, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}

// Respond writes a success envelope with an optional message and extra
// payload fields merged at the top level.
func Respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for key, value := range payload {
		body[key] = value
	}
	c.JSON(status, body)
}

func RespondOK(c *gin.Context, message string, payload gin.H) {
	Respond(c, http.StatusOK, message, payload)
}

func RespondCreated(c *gin.Context, message string, payload gin.H) {
	Respond(c, http.StatusCreated, message, payload)
}
