package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/authform/internal/auth"
	"github.com/octobees/authform/internal/dto"
	"github.com/octobees/authform/internal/entity"
	"github.com/octobees/authform/internal/repository"
)

var (
	// ErrEmailAlreadyExists signals that registration collided with an existing account.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService coordinates registration, credential validation and token issuance.
type AuthService struct {
	users repository.UsersRepository
	audit *ActionLogService
	jwt   *auth.JWTManager
	cost  int
}

// NewAuthService constructs a new AuthService. audit may be nil.
func NewAuthService(users repository.UsersRepository, audit *ActionLogService, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, audit: audit, jwt: jwtManager, cost: bcrypt.DefaultCost}
}

// Register creates an account. The password is stored as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, req dto.RegistrationRequest) (*entity.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	role, err := normalizeRole(req.Role, selfServiceRoles)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, name, email, string(hashed), role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	s.audit.Record(ctx, user.ID, entity.ActionRegister)
	return user, nil
}

// Login validates credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return "", errors.New("email and password must not be empty")
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.audit.Record(ctx, user.ID, entity.ActionLoginFailed)
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(auth.Identity{
		Subject: user.ID.String(),
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
	})
	if err != nil {
		return "", err
	}

	s.audit.Record(ctx, user.ID, entity.ActionLogin)
	return token, nil
}

// Logout records the sign-out of the token owner. Tokens that fail to parse
// are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := s.jwt.ParseToken(token)
	if err != nil {
		return
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return
	}
	s.audit.Record(ctx, id, entity.ActionLogout)
}
