package dto

import "time"

// CreateUserRequest is used by administrators to create new users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest captures administrator-triggered partial updates.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// UserResponse represents user data returned to clients.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ActionLogResponse is one audit entry as shown to administrators.
type ActionLogResponse struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
