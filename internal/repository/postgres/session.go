package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lalith-99/taskdeck/internal/db"
	"github.com/lalith-99/taskdeck/internal/models"
)

// SessionStore reads sessions written by the external auth provider.
type SessionStore struct {
	db db.DBTX
}

func NewSessionStore(q db.DBTX) *SessionStore {
	return &SessionStore{db: q}
}

func (s *SessionStore) UserByToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.email_verified, u.image, u.role, u.created_at, u.updated_at
		FROM session s
		JOIN "user" u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > $2`

	var u models.User
	if err := scanUser(s.db.QueryRow(ctx, query, token, now), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return &u, nil
}
