package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/authform/internal/dto"
	"github.com/octobees/authform/internal/entity"
	"github.com/octobees/authform/internal/repository"
)

func TestUserService_ListUsers(t *testing.T) {
	repo := &mockUsersRepository{
		list: func(ctx context.Context) ([]entity.User, error) {
			return []entity.User{
				{ID: uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"), Name: "Admin", Email: "admin@example.com", Role: "admin"},
				{ID: uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"), Name: "Jane", Email: "user@example.com", Role: "user"},
			}, nil
		},
	}

	service := NewUserService(repo)
	users, err := service.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0].Email != "admin@example.com" || users[1].Role != "user" || users[1].Name != "Jane" {
		t.Fatalf("unexpected response: %+v", users)
	}

	repo.list = func(ctx context.Context) ([]entity.User, error) { return nil, errors.New("db down") }
	if _, err := service.ListUsers(context.Background()); err == nil {
		t.Fatalf("expected repository error")
	}
}

func TestUserService_Profile(t *testing.T) {
	id := uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
	repo := &mockUsersRepository{
		findByID: func(ctx context.Context, got uuid.UUID) (*entity.User, error) {
			if got != id {
				return nil, repository.ErrUserNotFound
			}
			return &entity.User{ID: id, Name: "Jane", Email: "jane@example.com", Role: "seller"}, nil
		},
	}
	service := NewUserService(repo)

	profile, err := service.Profile(context.Background(), id.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Jane" || profile.Role != "seller" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := service.Profile(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if _, err := service.Profile(context.Background(), uuid.NewString()); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	deleted := uuid.Nil
	repo := &mockUsersRepository{
		delete: func(ctx context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	service := NewUserService(repo)

	if err := service.DeleteUser(context.Background(), "bad"); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}

	id := uuid.New()
	if err := service.DeleteUser(context.Background(), id.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != id {
		t.Fatalf("expected %s to be deleted, got %s", id, deleted)
	}
}

func newTestUserService(repo repository.UsersRepository) *UserService {
	s := NewUserService(repo)
	s.cost = bcrypt.MinCost
	return s
}

func strPtr(s string) *string { return &s }

func TestUserService_CreateUser(t *testing.T) {
	var gotRole, gotHash string
	repo := &mockUsersRepository{
		create: func(ctx context.Context, name, email, passwordHash, role string) (*entity.User, error) {
			if email == "taken@example.com" {
				return nil, repository.ErrEmailDuplicate
			}
			gotRole, gotHash = role, passwordHash
			return &entity.User{ID: uuid.New(), Name: name, Email: email, Role: role}, nil
		},
	}
	service := newTestUserService(repo)

	tests := map[string]struct {
		req         dto.CreateUserRequest
		expectError error
		wantRole    string
	}{
		"missing name":  {req: dto.CreateUserRequest{Email: "a@example.com", Password: "pw"}, expectError: ErrMissingFields},
		"bad email":     {req: dto.CreateUserRequest{Name: "A", Email: "nope", Password: "pw"}, expectError: ErrInvalidEmail},
		"unknown role":  {req: dto.CreateUserRequest{Name: "A", Email: "a@example.com", Password: "pw", Role: "root"}, expectError: ErrInvalidRole},
		"long password": {req: dto.CreateUserRequest{Name: "A", Email: "a@example.com", Password: strings.Repeat("p", 73)}, expectError: ErrPasswordLong},
		"duplicate":     {req: dto.CreateUserRequest{Name: "A", Email: "taken@example.com", Password: "pw"}, expectError: ErrEmailAlreadyExists},
		"admin allowed": {req: dto.CreateUserRequest{Name: "Root", Email: "root@example.com", Password: "pw", Role: "admin"}, wantRole: "admin"},
		"role defaults": {req: dto.CreateUserRequest{Name: "Jo", Email: "jo@example.com", Password: "pw"}, wantRole: "user"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			user, err := service.CreateUser(context.Background(), tt.req)
			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Role != tt.wantRole || gotRole != tt.wantRole {
				t.Fatalf("expected role %s, got %+v", tt.wantRole, user)
			}
			if bcrypt.CompareHashAndPassword([]byte(gotHash), []byte("pw")) != nil {
				t.Fatalf("expected a bcrypt hash of the password")
			}
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	id := uuid.MustParse("eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee")
	var gotName, gotEmail, gotHash, gotRole *string
	repo := &mockUsersRepository{
		update: func(ctx context.Context, got uuid.UUID, name, email, passwordHash, role *string) (*entity.User, error) {
			if got != id {
				return nil, repository.ErrUserNotFound
			}
			gotName, gotEmail, gotHash, gotRole = name, email, passwordHash, role
			user := &entity.User{ID: id, Name: "Jane", Email: "jane@example.com", Role: "user", UpdatedAt: time.Now()}
			if role != nil {
				user.Role = *role
			}
			return user, nil
		},
	}
	service := newTestUserService(repo)
	ctx := context.Background()

	user, err := service.UpdateUser(ctx, id.String(), dto.UpdateUserRequest{Role: strPtr(" Admin ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != "admin" || gotRole == nil || *gotRole != "admin" {
		t.Fatalf("expected promotion to admin, got %+v", user)
	}
	if gotName != nil || gotEmail != nil || gotHash != nil {
		t.Fatalf("expected untouched fields to stay nil")
	}

	if _, err := service.UpdateUser(ctx, id.String(), dto.UpdateUserRequest{Email: strPtr("New@Example.com"), Password: strPtr("pw2")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEmail == nil || *gotEmail != "new@example.com" {
		t.Fatalf("expected normalised email, got %v", gotEmail)
	}
	if gotHash == nil || bcrypt.CompareHashAndPassword([]byte(*gotHash), []byte("pw2")) != nil {
		t.Fatalf("expected hashed password")
	}

	failures := map[string]struct {
		id          string
		req         dto.UpdateUserRequest
		expectError error
	}{
		"bad id":        {id: "x", expectError: ErrInvalidUserID},
		"blank name":    {id: id.String(), req: dto.UpdateUserRequest{Name: strPtr("  ")}, expectError: ErrBlankField},
		"blank role":    {id: id.String(), req: dto.UpdateUserRequest{Role: strPtr("")}, expectError: ErrBlankField},
		"unknown role":  {id: id.String(), req: dto.UpdateUserRequest{Role: strPtr("wizard")}, expectError: ErrInvalidRole},
		"long password": {id: id.String(), req: dto.UpdateUserRequest{Password: strPtr(strings.Repeat("p", 100))}, expectError: ErrPasswordLong},
		"missing user":  {id: uuid.NewString(), req: dto.UpdateUserRequest{Name: strPtr("X")}, expectError: repository.ErrUserNotFound},
	}
	for name, tt := range failures {
		t.Run(name, func(t *testing.T) {
			if _, err := service.UpdateUser(ctx, tt.id, tt.req); !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing admin", func(t *testing.T) {
		var created string
		service := newTestUserService(&mockUsersRepository{
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, repository.ErrUserNotFound
			},
			create: func(ctx context.Context, name, email, passwordHash, role string) (*entity.User, error) {
				created = role
				return &entity.User{ID: uuid.New(), Name: name, Email: email, Role: role}, nil
			},
		})
		user, changed, err := service.EnsureAdmin(ctx, "", "Root@Example.com", "pw")
		if err != nil || !changed {
			t.Fatalf("expected creation, got changed=%v err=%v", changed, err)
		}
		if created != "admin" || user.Name != "Administrator" || user.Email != "root@example.com" {
			t.Fatalf("unexpected admin: %+v", user)
		}
	})

	t.Run("promotes existing user", func(t *testing.T) {
		id := uuid.New()
		service := newTestUserService(&mockUsersRepository{
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return &entity.User{ID: id, Email: email, Role: "seller"}, nil
			},
			update: func(ctx context.Context, got uuid.UUID, name, email, passwordHash, role *string) (*entity.User, error) {
				if got != id || role == nil || passwordHash != nil {
					t.Fatalf("unexpected update: id=%s role=%v hash=%v", got, role, passwordHash)
				}
				return &entity.User{ID: id, Role: *role}, nil
			},
		})
		user, changed, err := service.EnsureAdmin(ctx, "Root", "root@example.com", "ignored")
		if err != nil || !changed || user.Role != "admin" {
			t.Fatalf("expected promotion, got %+v changed=%v err=%v", user, changed, err)
		}
	})

	t.Run("leaves existing admin alone", func(t *testing.T) {
		service := newTestUserService(&mockUsersRepository{
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return &entity.User{ID: uuid.New(), Email: email, Role: "admin"}, nil
			},
		})
		if _, changed, err := service.EnsureAdmin(ctx, "Root", "root@example.com", "pw"); err != nil || changed {
			t.Fatalf("expected no change, got changed=%v err=%v", changed, err)
		}
	})

	t.Run("requires a password for a new admin", func(t *testing.T) {
		service := newTestUserService(&mockUsersRepository{
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, repository.ErrUserNotFound
			},
		})
		if _, _, err := service.EnsureAdmin(ctx, "Root", "root@example.com", ""); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields, got %v", err)
		}
	})
}

func TestActionLogService_List(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var gotFilter string
	service := NewActionLogService(&mockActionLogsRepository{
		list: func(ctx context.Context, filter string) ([]entity.ActionLog, error) {
			gotFilter = filter
			return []entity.ActionLog{{ID: 7, UserID: uuid.New(), UserName: "Jane", Action: "login", CreatedAt: created}}, nil
		},
	})

	entries, err := service.List(context.Background(), "log")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilter != "log" || len(entries) != 1 || entries[0].UserName != "Jane" || !entries[0].CreatedAt.Equal(created) {
		t.Fatalf("unexpected entries: %+v (filter %q)", entries, gotFilter)
	}

	var nilService *ActionLogService
	nilService.Record(context.Background(), uuid.New(), "login")
}
