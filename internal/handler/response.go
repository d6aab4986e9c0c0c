package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/authform/internal/dto"
)

// Success sends {"message": ...}, the body the form shows on success.
func Success(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, dto.AuthResponse{Message: message})
}

// Error sends {"error": ...}, the body the form shows on failure.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, dto.AuthResponse{Error: message})
}
