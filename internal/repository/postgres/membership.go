package postgres

import (
	"context"
	"fmt"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/db"
	"github.com/lalith-99/taskdeck/internal/models"
)

type MembershipStore struct {
	db db.DBTX
}

func NewMembershipStore(q db.DBTX) *MembershipStore {
	return &MembershipStore{db: q}
}

// AddUser never deduplicates: a creator listed in a role bucket ends up
// with two rows, and RoleOf picks the stronger one.
func (s *MembershipStore) AddUser(ctx context.Context, workspaceID int64, userID string, role access.Role) error {
	query := `
		INSERT INTO workspace_users (workspace_id, user_id, role)
		VALUES ($1, $2, $3)`

	if _, err := s.db.Exec(ctx, query, workspaceID, userID, int(role)); err != nil {
		return fmt.Errorf("add workspace user: %w", err)
	}
	return nil
}

func (s *MembershipStore) AddClient(ctx context.Context, workspaceID int64, clientID, actorID string) error {
	query := `
		INSERT INTO workspace_clients (workspace_id, client_id, role, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $4)`

	if _, err := s.db.Exec(ctx, query, workspaceID, clientID, int(access.RoleClient), actorID); err != nil {
		return fmt.Errorf("add workspace client: %w", err)
	}
	return nil
}

func (s *MembershipStore) RoleOf(ctx context.Context, workspaceID int64, userID string) (access.Membership, error) {
	query := `
		SELECT
			(SELECT MIN(role) FROM workspace_users WHERE workspace_id = $1 AND user_id = $2),
			EXISTS (SELECT 1 FROM workspace_clients WHERE workspace_id = $1 AND client_id = $2)`

	var (
		role     *int32
		isClient bool
	)
	if err := s.db.QueryRow(ctx, query, workspaceID, userID).Scan(&role, &isClient); err != nil {
		return access.None(), fmt.Errorf("resolve role: %w", err)
	}

	switch {
	case role != nil:
		return access.Of(access.Role(*role)), nil
	case isClient:
		return access.Of(access.RoleClient), nil
	}
	return access.None(), nil
}

func (s *MembershipStore) Roles(ctx context.Context, workspaceID int64, userID string) ([]access.Role, error) {
	query := `
		SELECT role FROM workspace_users
		WHERE workspace_id = $1 AND user_id = $2
		ORDER BY id`

	rows, err := s.db.Query(ctx, query, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]access.Role, 0)
	for rows.Next() {
		var r int32
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, access.Role(r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}

func (s *MembershipStore) Members(ctx context.Context, workspaceID int64) ([]models.WorkspaceMember, error) {
	query := `
		SELECT u.id, u.name, u.email, m.role, u.image
		FROM (
			SELECT user_id, MIN(role) AS role
			FROM (
				SELECT user_id, role FROM workspace_users WHERE workspace_id = $1
				UNION ALL
				SELECT client_id, 6 FROM workspace_clients WHERE workspace_id = $1
			) r
			GROUP BY user_id
		) m
		JOIN "user" u ON u.id = m.user_id
		ORDER BY m.role, u.name, u.id`

	rows, err := s.db.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]models.WorkspaceMember, 0)
	for rows.Next() {
		var (
			m    models.WorkspaceMember
			role int32
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &role, &m.Image); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.Role = int(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}
