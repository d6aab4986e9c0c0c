package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/authform/internal/entity"
)

// ActionLogsRepository persists the user action audit trail.
type ActionLogsRepository interface {
	Create(ctx context.Context, userID uuid.UUID, action string) error
	List(ctx context.Context, actionFilter string) ([]entity.ActionLog, error)
}

// PGXActionLogsRepository implements ActionLogsRepository with pgx.
type PGXActionLogsRepository struct {
	pool DB
}

// NewPGXActionLogsRepository instantiates an audit log repository.
func NewPGXActionLogsRepository(pool DB) *PGXActionLogsRepository {
	return &PGXActionLogsRepository{pool: pool}
}

// Create appends an entry for userID.
func (r *PGXActionLogsRepository) Create(ctx context.Context, userID uuid.UUID, action string) error {
	if _, err := r.pool.Exec(ctx, `INSERT INTO action_logs (user_id, action) VALUES ($1, $2)`, userID, action); err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return nil
}

// List returns entries newest first. A non-empty filter keeps actions that
// contain it, case-insensitively.
func (r *PGXActionLogsRepository) List(ctx context.Context, actionFilter string) ([]entity.ActionLog, error) {
	query := `
        SELECT l.id, l.user_id, u.name, l.action, l.created_at
        FROM action_logs l
        JOIN users u ON u.id = l.user_id`
	args := make([]any, 0, 1)
	if filter := strings.TrimSpace(actionFilter); filter != "" {
		query += ` WHERE l.action ILIKE $1`
		args = append(args, "%"+escapeLike(filter)+"%")
	}
	query += ` ORDER BY l.created_at DESC, l.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list action logs: %w", err)
	}
	defer rows.Close()

	var logs []entity.ActionLog
	for rows.Next() {
		var entry entity.ActionLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.UserName, &entry.Action, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan action log row: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action logs: %w", err)
	}
	return logs, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ ActionLogsRepository = (*PGXActionLogsRepository)(nil)
