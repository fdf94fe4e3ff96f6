package handlers

import (
	"net/http"

	"github.com/Cristhianmcc/todobalon-backend/internal/http/middleware"
	"github.com/Cristhianmcc/todobalon-backend/internal/services"
	"github.com/Cristhianmcc/todobalon-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

type LoginRequest struct {
	AccessCode string `json:"accessCode"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	AuthCode string `json:"authCode"`
}

type GenerateRequest struct {
	AdminPassword string `json:"adminPassword"`
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Field presence is validated in the service so the error messages stay in
// one place; binding here only rejects malformed JSON.

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, invalidBody())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.AccessCode)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, "Login exitoso", gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, invalidBody())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.AuthCode)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondCreated(c, "Usuario registrado exitosamente", gin.H{
		"accessCode": result.AccessCode,
		"user":       result.User,
	})
}

func (h *AuthHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, invalidBody())
		return
	}

	code, err := h.auth.GenerateAuthorizationCode(c.Request.Context(), req.AdminPassword)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, "Código generado exitosamente", gin.H{"code": code})
}

// Verify runs behind RequireAuth; by the time it executes the token has been
// fully validated and the identity attached.
func (h *AuthHandler) Verify(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.RespondError(c, utils.NewAppError(http.StatusUnauthorized, utils.CodeUnauthorized, "Token de acceso requerido"))
		return
	}

	utils.RespondOK(c, "Token válido", gin.H{
		"user": gin.H{
			"id":         identity.ID,
			"name":       identity.Name,
			"email":      identity.Email,
			"accessCode": identity.AccessCode,
		},
	})
}

func (h *AuthHandler) Stats(c *gin.Context) {
	stats, err := h.auth.GetStats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, "", gin.H{"stats": stats})
}

func invalidBody() *utils.AppError {
	return utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Solicitud inválida")
}
