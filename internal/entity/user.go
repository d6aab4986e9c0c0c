package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role values a user may hold.
const (
	RoleUser    = "user"
	RoleSeller  = "seller"
	RoleCourier = "courier"
	RoleAdmin   = "admin"
)

// User is an account able to sign in through the auth endpoints.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
