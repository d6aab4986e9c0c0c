package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestConnect_Validation(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}

	if _, err := Connect(context.Background(), "invalid-dsn"); err == nil {
		t.Fatalf("expected error for invalid dsn")
	}
}

type recordingExecer struct {
	stmts  []string
	failAt int
}

func (r *recordingExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	if r.failAt > 0 && len(r.stmts) == r.failAt {
		return pgconn.CommandTag{}, errors.New("permission denied")
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func TestEnsureSchema(t *testing.T) {
	exec := &recordingExecer{}
	if err := EnsureSchema(context.Background(), exec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exec.stmts) != len(Schema) {
		t.Fatalf("expected %d statements, got %d", len(Schema), len(exec.stmts))
	}
	if !strings.Contains(exec.stmts[1], "users_email_key") {
		t.Fatalf("expected users table with unique email constraint")
	}
	if !strings.Contains(exec.stmts[2], "action_logs") || !strings.Contains(exec.stmts[2], "REFERENCES users") {
		t.Fatalf("expected audit table after users, got %q", exec.stmts[2])
	}

	failing := &recordingExecer{failAt: 1}
	if err := EnsureSchema(context.Background(), failing); err == nil {
		t.Fatalf("expected schema error")
	}
	if len(failing.stmts) != 1 {
		t.Fatalf("expected to stop after first failure, ran %d", len(failing.stmts))
	}
}
