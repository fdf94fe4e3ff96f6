package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cristhianmcc/todobalon-backend/internal/config"
	"github.com/Cristhianmcc/todobalon-backend/internal/db"
	transport "github.com/Cristhianmcc/todobalon-backend/internal/http"
	"github.com/Cristhianmcc/todobalon-backend/internal/repo"
	"github.com/Cristhianmcc/todobalon-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbConn, err := db.Connect(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, cfg.DBURL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if cfg.EnableBootstrapCode {
		code, err := services.GenerateAuthorizationCode()
		if err != nil {
			logger.Error("failed to generate bootstrap code", "error", err)
			os.Exit(1)
		}
		if err := db.EnsureBootstrapAuthCode(ctx, dbConn.Pool, cfg.RequestTimeout, code, logger); err != nil {
			logger.Error("failed to seed bootstrap auth code", "error", err)
			os.Exit(1)
		}
	}

	userRepo := repo.NewUserRepo(dbConn.Pool, cfg.RequestTimeout)
	authCodeRepo := repo.NewAuthCodeRepo(dbConn.Pool, cfg.RequestTimeout)
	sessionRepo := repo.NewSessionRepo(dbConn.Pool, cfg.RequestTimeout)

	sessionService := services.NewSessionService(sessionRepo, cfg.JWTExpiry, logger)
	authService := services.NewAuthService(userRepo, authCodeRepo, sessionService, cfg, logger)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SessionCleanupSchedule, func() {
		sessionService.CleanExpired(context.Background())
	}); err != nil {
		logger.Error("failed to schedule session cleanup", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	router := transport.NewRouter(transport.Dependencies{
		Config:      cfg,
		AuthService: authService,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.RequestTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		logger.Error("http server stopped unexpectedly", "error", err)
	}

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != "prod" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
