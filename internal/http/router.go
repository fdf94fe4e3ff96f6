package http

import (
	"log/slog"
	"net/http"

	"github.com/Cristhianmcc/todobalon-backend/internal/config"
	"github.com/Cristhianmcc/todobalon-backend/internal/http/handlers"
	"github.com/Cristhianmcc/todobalon-backend/internal/http/middleware"
	"github.com/Cristhianmcc/todobalon-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Config      *config.Config
	AuthService *services.AuthService
	Logger      *slog.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(deps.Config.AllowedOrigins))

	authHandler := handlers.NewAuthHandler(deps.AuthService)

	router.GET("/", index)
	router.GET("/api/health", handlers.Health(deps.Config.Env))

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/generate", authHandler.Generate)
		auth.GET("/verify", middleware.RequireAuth(deps.AuthService), authHandler.Verify)
		auth.GET("/stats", middleware.RequireAuth(deps.AuthService), authHandler.Stats)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Endpoint no encontrado",
			"path":    c.Request.URL.Path,
		})
	})

	return router
}

func index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "TodoBalon Backend API",
		"version":     "1.0.0",
		"description": "Authentication API with access codes and server-side sessions",
		"endpoints": gin.H{
			"health": "/api/health",
			"auth": gin.H{
				"login":    "POST /api/auth/login",
				"register": "POST /api/auth/register",
				"generate": "POST /api/auth/generate",
				"verify":   "GET /api/auth/verify",
				"stats":    "GET /api/auth/stats",
			},
		},
	})
}
