package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/authform/internal/auth"
	"github.com/octobees/authform/internal/config"
	"github.com/octobees/authform/internal/entity"
	"github.com/octobees/authform/internal/handler"
	"github.com/octobees/authform/internal/metrics"
	middlewarepkg "github.com/octobees/authform/internal/middleware"
)

// Paths served by the backend.
const (
	PathHealth     = "/healthz"
	PathMetrics    = metrics.Path
	PathRegister   = "/api/register"
	PathLogin      = "/api/login"
	PathLogout     = "/api/logout"
	PathProfile    = "/api/profile"
	PathUsers      = "/api/admin/users"
	PathActionLogs = "/api/admin/logs"
)

// Handlers aggregates HTTP handlers used by the router. Metrics may be nil.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	ActionLogs *handler.ActionLogHandler
	Metrics    *metrics.Metrics
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	if handlers.Metrics != nil {
		e.Use(handlers.Metrics.Middleware())
		e.GET(PathMetrics, handlers.Metrics.Handler())
	}

	e.GET(PathHealth, func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy")
	})

	e.POST(PathRegister, handlers.Auth.Register)
	e.POST(PathLogin, handlers.Auth.Login, middlewarepkg.RateLimiter(cfg.RateLimitLogin, PathLogin))
	e.POST(PathLogout, handlers.Auth.Logout)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))
	secured.GET(PathProfile, handlers.Users.Profile)

	requireAdmin := middlewarepkg.RequireRole(entity.RoleAdmin)

	admin := secured.Group(PathUsers, requireAdmin)
	admin.GET("", handlers.Users.List)
	admin.POST("", handlers.Users.Create)
	admin.PUT("/:id", handlers.Users.Update)
	admin.DELETE("/:id", handlers.Users.Delete)

	secured.GET(PathActionLogs, handlers.ActionLogs.List, requireAdmin)
}
