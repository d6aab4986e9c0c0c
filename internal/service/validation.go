package service

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"github.com/octobees/authform/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

// Validation errors surfaced to clients verbatim.
var (
	ErrMissingFields = errors.New("name, email and password are required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidRole   = errors.New("role is not allowed")
	ErrPasswordLong  = errors.New("password must be at most 72 bytes")
	ErrBlankField    = errors.New("updated fields must not be blank")
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

var selfServiceRoles = map[string]struct{}{
	entity.RoleUser:    {},
	entity.RoleSeller:  {},
	entity.RoleCourier: {},
}

var assignableRoles = map[string]struct{}{
	entity.RoleUser:    {},
	entity.RoleSeller:  {},
	entity.RoleCourier: {},
	entity.RoleAdmin:   {},
}

// IsValidation reports whether err was caused by bad input rather than a
// storage or hashing failure.
func IsValidation(err error) bool {
	for _, target := range []error{ErrMissingFields, ErrInvalidEmail, ErrInvalidRole, ErrPasswordLong, ErrBlankField, ErrInvalidUserID} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func checkPassword(password string) error {
	if len(password) > maxPasswordBytes {
		return ErrPasswordLong
	}
	return nil
}

// normalizeEmail lower-cases the address and converts its domain to ASCII
// with IDNA lookup rules.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || !isDomainValid(domain) {
		return "", ErrInvalidEmail
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", ErrInvalidEmail
	}
	email = local + "@" + asciiDomain
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// normalizeRole maps an empty role to the default one and rejects roles
// outside allowed.
func normalizeRole(raw string, allowed map[string]struct{}) (string, error) {
	role := strings.ToLower(strings.TrimSpace(raw))
	if role == "" {
		return entity.RoleUser, nil
	}
	if _, ok := allowed[role]; !ok {
		return "", ErrInvalidRole
	}
	return role, nil
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
