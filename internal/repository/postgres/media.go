package postgres

import (
	"context"
	"fmt"

	"github.com/lalith-99/taskdeck/internal/db"
	"github.com/lalith-99/taskdeck/internal/models"
)

type MediaStore struct {
	db db.DBTX
}

func NewMediaStore(q db.DBTX) *MediaStore {
	return &MediaStore{db: q}
}

func (s *MediaStore) Create(ctx context.Context, m *models.MediaContent) error {
	query := `
		INSERT INTO media_content (user_id, type, url, original_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, m.UserID, string(m.Type), m.URL, m.OriginalName).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

func (s *MediaStore) GetByIDs(ctx context.Context, ids []int64) (map[int64]models.MediaContent, error) {
	query := `
		SELECT id, user_id, type, url, original_name, created_at
		FROM media_content
		WHERE id = ANY($1)`

	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]models.MediaContent, len(ids))
	for rows.Next() {
		var m models.MediaContent
		if err := rows.Scan(&m.ID, &m.UserID, &m.Type, &m.URL, &m.OriginalName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media: %w", err)
	}
	return out, nil
}

func (s *MediaStore) LinkToTask(ctx context.Context, taskID, mediaID int64) error {
	if _, err := s.db.Exec(ctx, `INSERT INTO task_files (task_id, media_id) VALUES ($1, $2)`, taskID, mediaID); err != nil {
		return fmt.Errorf("link media: %w", err)
	}
	return nil
}
