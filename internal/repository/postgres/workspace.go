package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lalith-99/taskdeck/internal/db"
	"github.com/lalith-99/taskdeck/internal/models"
)

const workspaceColumns = `w.id, w.name, w.image, COALESCE(w.information, '{}'::jsonb),
	w.created_at, w.created_by, w.updated_at, w.updated_by`

type WorkspaceStore struct {
	db db.DBTX
}

func NewWorkspaceStore(q db.DBTX) *WorkspaceStore {
	return &WorkspaceStore{db: q}
}

func scanWorkspace(row pgx.Row, ws *models.Workspace) error {
	return row.Scan(
		&ws.ID,
		&ws.Name,
		&ws.Image,
		&ws.Information,
		&ws.CreatedAt,
		&ws.CreatedBy,
		&ws.UpdatedAt,
		&ws.UpdatedBy,
	)
}

func (s *WorkspaceStore) Create(ctx context.Context, ws *models.Workspace) error {
	query := `
		INSERT INTO workspace (name, image, information, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRow(ctx, query, ws.Name, ws.Image, ws.Information, ws.CreatedBy, ws.UpdatedBy).
		Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

func (s *WorkspaceStore) GetByID(ctx context.Context, workspaceID int64) (*models.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspace w WHERE w.id = $1`

	var ws models.Workspace
	if err := scanWorkspace(s.db.QueryRow(ctx, query, workspaceID), &ws); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return &ws, nil
}

func (s *WorkspaceStore) ListForUser(ctx context.Context, userID string) ([]models.Workspace, error) {
	query := `
		SELECT ` + workspaceColumns + `
		FROM workspace w
		WHERE w.id IN (
			SELECT workspace_id FROM workspace_users WHERE user_id = $1
			UNION
			SELECT workspace_id FROM workspace_clients WHERE client_id = $1
		)
		ORDER BY w.created_at DESC, w.id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	out := make([]models.Workspace, 0)
	for rows.Next() {
		var ws models.Workspace
		if err := scanWorkspace(rows, &ws); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}
	return out, nil
}
