package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/authform/internal/dto"
	"github.com/octobees/authform/internal/middleware"
	"github.com/octobees/authform/internal/repository"
	"github.com/octobees/authform/internal/service"
)

// UserHandler exposes the signed-in profile and administrative user endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs a handler instance.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Profile returns the account behind the session token.
func (h *UserHandler) Profile(c echo.Context) error {
	subject, _ := c.Get(middleware.ContextKeyUserID).(string)
	profile, err := h.users.Profile(c.Request().Context(), subject)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, service.ErrInvalidUserID):
			return Error(c, http.StatusUnauthorized, "session no longer valid")
		default:
			return Error(c, http.StatusInternalServerError, "failed to load profile")
		}
	}
	return c.JSON(http.StatusOK, profile)
}

// List returns all users.
func (h *UserHandler) List(c echo.Context) error {
	records, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list users")
	}
	return c.JSON(http.StatusOK, records)
}

// Create provisions a new user with any role.
func (h *UserHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.CreateUser(c.Request().Context(), req)
	if err != nil {
		switch {
		case service.IsValidation(err):
			return Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailAlreadyExists):
			return Error(c, http.StatusConflict, "email already exists")
		default:
			return Error(c, http.StatusInternalServerError, "failed to create user")
		}
	}

	return c.JSON(http.StatusCreated, user)
}

// Update modifies an existing user, including its role.
func (h *UserHandler) Update(c echo.Context) error {
	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateUser(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return Error(c, http.StatusNotFound, "user not found")
		case service.IsValidation(err):
			return Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailAlreadyExists):
			return Error(c, http.StatusConflict, "email already exists")
		default:
			return Error(c, http.StatusInternalServerError, "failed to update user")
		}
	}

	return c.JSON(http.StatusOK, user)
}

// Delete removes a user.
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return Error(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidUserID):
			return Error(c, http.StatusBadRequest, err.Error())
		default:
			return Error(c, http.StatusInternalServerError, "failed to delete user")
		}
	}

	return Success(c, http.StatusOK, "user deleted")
}
