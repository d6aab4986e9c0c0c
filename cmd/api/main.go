package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/authform/internal/auth"
	"github.com/octobees/authform/internal/config"
	"github.com/octobees/authform/internal/database"
	"github.com/octobees/authform/internal/handler"
	"github.com/octobees/authform/internal/metrics"
	middlewarepkg "github.com/octobees/authform/internal/middleware"
	"github.com/octobees/authform/internal/repository"
	"github.com/octobees/authform/internal/router"
	"github.com/octobees/authform/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to prepare schema: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	actionLogsRepo := repository.NewPGXActionLogsRepository(pool)

	auditService := service.NewActionLogService(actionLogsRepo)
	authService := service.NewAuthService(usersRepo, auditService, jwtManager)
	userService := service.NewUserService(usersRepo)

	if cfg.AdminEmail != "" {
		admin, changed, err := userService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("failed to bootstrap admin: %v", err)
		}
		if changed {
			log.Printf("bootstrap admin ready user_id=%s email=%s", admin.ID, admin.Email)
		}
	}

	appMetrics := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, appMetrics),
		Users:      handler.NewUserHandler(userService),
		ActionLogs: handler.NewActionLogHandler(auditService),
		Metrics:    appMetrics,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
