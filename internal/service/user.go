package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/authform/internal/dto"
	"github.com/octobees/authform/internal/entity"
	"github.com/octobees/authform/internal/repository"
)

// ErrInvalidUserID is returned for malformed user identifiers.
var ErrInvalidUserID = errors.New("invalid user id")

// UserService encapsulates profile lookups and administrative operations.
type UserService struct {
	repo repository.UsersRepository
	cost int
}

// NewUserService builds a new UserService instance.
func NewUserService(repo repository.UsersRepository) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

// Profile returns the account behind a token subject.
func (s *UserService) Profile(ctx context.Context, subject string) (*dto.UserResponse, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*user)
	return &resp, nil
}

// ListUsers returns all users as DTOs.
func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toResponse(u))
	}
	return responses, nil
}

// CreateUser creates a user with any role, including admin.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	role, err := normalizeRole(req.Role, assignableRoles)
	if err != nil {
		return nil, err
	}
	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, name, email, hashed, role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	resp := toResponse(*user)
	return &resp, nil
}

// UpdateUser mutates selected user fields. Absent fields are left unchanged.
func (s *UserService) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	var namePtr, emailPtr, rolePtr, passwordPtr *string
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrBlankField
		}
		namePtr = &name
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return nil, ErrBlankField
		}
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		emailPtr = &email
	}
	if req.Role != nil {
		if strings.TrimSpace(*req.Role) == "" {
			return nil, ErrBlankField
		}
		role, err := normalizeRole(*req.Role, assignableRoles)
		if err != nil {
			return nil, err
		}
		rolePtr = &role
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, ErrBlankField
		}
		hashed, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		passwordPtr = &hashed
	}

	user, err := s.repo.Update(ctx, userID, namePtr, emailPtr, passwordPtr, rolePtr)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	resp := toResponse(*user)
	return &resp, nil
}

// EnsureAdmin makes sure an admin account exists for email. A missing account
// is created with password; an existing one is promoted and keeps its
// password. The boolean reports whether anything changed.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*dto.UserResponse, bool, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByEmail(ctx, normalized)
	switch {
	case err == nil:
		if existing.Role == entity.RoleAdmin {
			resp := toResponse(*existing)
			return &resp, false, nil
		}
		role := entity.RoleAdmin
		promoted, err := s.repo.Update(ctx, existing.ID, nil, nil, nil, &role)
		if err != nil {
			return nil, false, fmt.Errorf("promote admin: %w", err)
		}
		resp := toResponse(*promoted)
		return &resp, true, nil
	case errors.Is(err, repository.ErrUserNotFound):
		if strings.TrimSpace(name) == "" {
			name = "Administrator"
		}
		created, err := s.CreateUser(ctx, dto.CreateUserRequest{Name: name, Email: normalized, Password: password, Role: entity.RoleAdmin})
		if err != nil {
			return nil, false, fmt.Errorf("create admin: %w", err)
		}
		return created, true, nil
	default:
		return nil, false, err
	}
}

// DeleteUser removes a user by id.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidUserID
	}
	return s.repo.Delete(ctx, userID)
}

func (s *UserService) hash(password string) (string, error) {
	if err := checkPassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func toResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role}
}
