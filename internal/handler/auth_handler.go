package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/authform/internal/dto"
	"github.com/octobees/authform/internal/middleware"
	"github.com/octobees/authform/internal/service"
)

// Outcome labels reported to an AuthObserver.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// AuthObserver counts form submissions by action and outcome.
type AuthObserver interface {
	ObserveAuth(action, outcome string)
}

// AuthHandler exposes the registration, login and logout endpoints.
type AuthHandler struct {
	authService *service.AuthService
	observer    AuthObserver
}

// NewAuthHandler constructs an AuthHandler. observer may be nil.
func NewAuthHandler(authService *service.AuthService, observer AuthObserver) *AuthHandler {
	return &AuthHandler{authService: authService, observer: observer}
}

// Register handles POST /api/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return h.reject(c, "register", http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case service.IsValidation(err):
			return h.reject(c, "register", http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailAlreadyExists):
			return h.reject(c, "register", http.StatusConflict, "email already exists")
		default:
			log.Printf("register failed: %v", err)
			return h.reject(c, "register", http.StatusInternalServerError, "unable to register user")
		}
	}

	log.Printf("registered user_id=%s role=%s", user.ID, user.Role)
	h.observe("register", OutcomeOK)
	return Success(c, http.StatusCreated, "registration successful")
}

// Login handles POST /api/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.reject(c, "login", http.StatusBadRequest, "invalid payload")
	}

	if req.Email == "" || req.Password == "" {
		return h.reject(c, "login", http.StatusBadRequest, "email and password are required")
	}

	token, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return h.reject(c, "login", http.StatusUnauthorized, "invalid credentials")
		}
		log.Printf("login failed: %v", err)
		return h.reject(c, "login", http.StatusInternalServerError, "unable to authenticate")
	}

	h.observe("login", OutcomeOK)
	return c.JSON(http.StatusOK, dto.AuthResponse{Message: "login successful", Token: token})
}

// Logout handles POST /api/logout. It always expires the token cookie, even
// when the presented token is stale.
func (h *AuthHandler) Logout(c echo.Context) error {
	if token, ok := middleware.TokenFromRequest(c); ok {
		h.authService.Logout(c.Request().Context(), token)
	}

	c.SetCookie(&http.Cookie{
		Name:    middleware.TokenCookie,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
	h.observe("logout", OutcomeOK)
	return Success(c, http.StatusOK, "logout successful")
}

func (h *AuthHandler) reject(c echo.Context, action string, status int, message string) error {
	outcome := OutcomeRejected
	if status >= http.StatusInternalServerError {
		outcome = OutcomeError
	}
	h.observe(action, outcome)
	return Error(c, status, message)
}

func (h *AuthHandler) observe(action, outcome string) {
	if h.observer != nil {
		h.observer.ObserveAuth(action, outcome)
	}
}
