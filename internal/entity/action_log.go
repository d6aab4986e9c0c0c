package entity

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit log.
const (
	ActionRegister    = "register"
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionLogout      = "logout"
)

// ActionLog is one audit entry joined with the acting user's name.
type ActionLog struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
