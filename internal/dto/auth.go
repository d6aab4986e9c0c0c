package dto

// RegistrationRequest is the body posted to /api/register.
type RegistrationRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest captures credential input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the flat body returned by both auth endpoints. Every field
// is optional on the wire.
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Token   string `json:"token,omitempty"`
}

// DisplayText picks the text shown to the user: the message, else the error,
// else the empty string.
func (r AuthResponse) DisplayText() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}
