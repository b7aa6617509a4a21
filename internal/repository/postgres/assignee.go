package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lalith-99/taskdeck/internal/db"
)

type AssigneeStore struct {
	db db.DBTX
}

func NewAssigneeStore(q db.DBTX) *AssigneeStore {
	return &AssigneeStore{db: q}
}

func (s *AssigneeStore) Add(ctx context.Context, taskID int64, userID, actorID string) error {
	query := `
		INSERT INTO tasks_assignees (task_id, user_id, created_by, updated_by)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (task_id, user_id) DO NOTHING`

	if _, err := s.db.Exec(ctx, query, taskID, userID, actorID); err != nil {
		return fmt.Errorf("add assignee: %w", err)
	}
	return nil
}

func (s *AssigneeStore) DeleteAll(ctx context.Context, taskID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM tasks_assignees WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("delete assignees: %w", err)
	}
	return nil
}

func (s *AssigneeStore) List(ctx context.Context, taskID int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT user_id FROM tasks_assignees WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list assignees: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect assignees: %w", err)
	}
	if ids == nil {
		ids = make([]string, 0)
	}
	return ids, nil
}
