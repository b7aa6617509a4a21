package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lalith-99/taskdeck/internal/db"
	"github.com/lalith-99/taskdeck/internal/models"
)

// Enum columns are read as text and written through a text cast so pgx
// never needs the custom enum OIDs. jsonb arrays are coalesced because a
// NULL cannot scan into a slice-of-struct target.
const taskColumns = `t.id, t.name, t.workspace_id, t.priority::text, t.category::text,
	COALESCE(t.files, '[]'::jsonb), t.publish_date, t.deadline_date,
	COALESCE(t.captions, '[]'::jsonb), COALESCE(t.social_links, '[]'::jsonb),
	COALESCE(t.client_comment, '[]'::jsonb), t.page_status::text, t.client_status::text,
	t.created_at, t.created_by, t.updated_at, t.updated_by`

type TaskStore struct {
	db db.DBTX
}

func NewTaskStore(q db.DBTX) *TaskStore {
	return &TaskStore{db: q}
}

func taskScanTargets(t *models.Task) []any {
	return []any{
		&t.ID,
		&t.Name,
		&t.WorkspaceID,
		&t.Priority,
		&t.Category,
		&t.Files,
		&t.PublishDate,
		&t.DeadlineDate,
		&t.Captions,
		&t.SocialLinks,
		&t.ClientComment,
		&t.TaskStatus,
		&t.ClientStatus,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.UpdatedAt,
		&t.UpdatedBy,
	}
}

// jsonList keeps empty lists as [] in storage instead of null.
func jsonList[T any](v []T) []T {
	if v == nil {
		return make([]T, 0)
	}
	return v
}

func (s *TaskStore) Create(ctx context.Context, t *models.Task) error {
	query := `
		INSERT INTO tasks (
			name, workspace_id, priority, category, files, publish_date, deadline_date,
			captions, social_links, client_comment, created_by, updated_by
		)
		VALUES ($1, $2, $3::text::priority, $4::text::category, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING page_status::text, client_status::text, id, created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		t.Name,
		t.WorkspaceID,
		string(t.Priority),
		string(t.Category),
		jsonList(t.Files),
		t.PublishDate,
		t.DeadlineDate,
		jsonList(t.Captions),
		jsonList(t.SocialLinks),
		jsonList(t.ClientComment),
		t.CreatedBy,
	).Scan(&t.TaskStatus, &t.ClientStatus, &t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.UpdatedBy = t.CreatedBy
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, taskID int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`

	var t models.Task
	if err := s.db.QueryRow(ctx, query, taskID).Scan(taskScanTargets(&t)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *TaskStore) Update(ctx context.Context, t *models.Task) error {
	query := `
		UPDATE tasks SET
			name = $2,
			priority = $3::text::priority,
			category = $4::text::category,
			files = $5,
			publish_date = $6,
			deadline_date = $7,
			captions = $8,
			social_links = $9,
			client_comment = $10,
			page_status = $11::text::taskstatus,
			client_status = $12::text::client_status,
			updated_by = $13,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := s.db.QueryRow(ctx, query,
		t.ID,
		t.Name,
		string(t.Priority),
		string(t.Category),
		jsonList(t.Files),
		t.PublishDate,
		t.DeadlineDate,
		jsonList(t.Captions),
		jsonList(t.SocialLinks),
		jsonList(t.ClientComment),
		string(t.TaskStatus),
		string(t.ClientStatus),
		t.UpdatedBy,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("update task %d: %w", t.ID, err)
		}
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *TaskStore) ListAssignedTo(ctx context.Context, userID string) ([]models.AssignedTask, error) {
	query := `
		SELECT ` + taskColumns + `, w.name, w.image
		FROM tasks t
		JOIN workspace w ON w.id = t.workspace_id
		WHERE t.id IN (SELECT task_id FROM tasks_assignees WHERE user_id = $1)
		ORDER BY t.created_at DESC, t.id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: %w", err)
	}
	defer rows.Close()

	out := make([]models.AssignedTask, 0)
	for rows.Next() {
		var at models.AssignedTask
		targets := append(taskScanTargets(&at.Task), &at.WorkspaceName, &at.WorkspaceImage)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan assigned task: %w", err)
		}
		out = append(out, at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assigned tasks: %w", err)
	}
	return out, nil
}

func (s *TaskStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.workspace_id = $1
		ORDER BY t.created_at DESC, t.id DESC`

	rows, err := s.db.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list workspace tasks: %w", err)
	}
	defer rows.Close()

	out := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(taskScanTargets(&t)...); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}
