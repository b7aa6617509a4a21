package repository

import (
	"context"
	"time"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/models"
)

// Every lookup that can miss returns nil, nil rather than an error.
// Every list returns an empty slice (not nil) so JSON renders [].

// UserRepository reads the auth provider's "user" table.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// List returns every user, oldest first.
	List(ctx context.Context) ([]models.User, error)

	// ListSummaries returns id, name and image for the given ids. Unknown
	// ids are skipped.
	ListSummaries(ctx context.Context, ids []string) ([]models.UserSummary, error)

	// ExistingIDs returns the subset of ids that name a user.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

// SessionRepository reads the auth provider's "session" table.
type SessionRepository interface {
	// UserByToken returns the owner of a session token that has not
	// expired at now.
	UserByToken(ctx context.Context, token string, now time.Time) (*models.User, error)
}

type WorkspaceRepository interface {
	// Create inserts the workspace and fills in ID and timestamps.
	Create(ctx context.Context, ws *models.Workspace) error

	GetByID(ctx context.Context, workspaceID int64) (*models.Workspace, error)

	// ListForUser returns the workspaces the user holds any membership
	// in, via workspace_users or workspace_clients, each once.
	ListForUser(ctx context.Context, userID string) ([]models.Workspace, error)
}

// MembershipRepository covers workspace_users and workspace_clients.
type MembershipRepository interface {
	// AddUser inserts one workspace_users row. Duplicates are allowed.
	AddUser(ctx context.Context, workspaceID int64, userID string, role access.Role) error

	// AddClient inserts one workspace_clients row tagged role 6.
	AddClient(ctx context.Context, workspaceID int64, clientID, actorID string) error

	// RoleOf resolves the user's membership in a workspace. The lowest role
	// across workspace_users rows wins; a workspace_clients row alone
	// yields RoleClient; no rows at all yields access.None().
	RoleOf(ctx context.Context, workspaceID int64, userID string) (access.Membership, error)

	// Roles returns every workspace_users role row for the user.
	Roles(ctx context.Context, workspaceID int64, userID string) ([]access.Role, error)

	// Members lists users with their effective role, one entry per user.
	Members(ctx context.Context, workspaceID int64) ([]models.WorkspaceMember, error)
}

type TaskRepository interface {
	// Create inserts the task and fills in ID, timestamps and the
	// storage defaults for taskstatus and clientStatus.
	Create(ctx context.Context, t *models.Task) error

	GetByID(ctx context.Context, taskID int64) (*models.Task, error)

	// Update writes every mutable column of t and refreshes UpdatedAt.
	Update(ctx context.Context, t *models.Task) error

	// ListAssignedTo returns tasks the user is an assignee of, newest
	// first, with workspace display fields.
	ListAssignedTo(ctx context.Context, userID string) ([]models.AssignedTask, error)

	ListByWorkspace(ctx context.Context, workspaceID int64) ([]models.Task, error)
}

type AssigneeRepository interface {
	// Add is a no-op when the user is already assigned.
	Add(ctx context.Context, taskID int64, userID, actorID string) error

	DeleteAll(ctx context.Context, taskID int64) error

	// List returns assignee user ids in insertion order.
	List(ctx context.Context, taskID int64) ([]string, error)
}

type MediaRepository interface {
	// Create inserts the media row and fills in ID and CreatedAt.
	Create(ctx context.Context, m *models.MediaContent) error

	// GetByIDs returns the rows that exist, keyed by id.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]models.MediaContent, error)

	// LinkToTask appends one task_files row. The same media may be linked
	// more than once.
	LinkToTask(ctx context.Context, taskID, mediaID int64) error
}

// Repos bundles repositories that share one database handle, either the
// pool or an open transaction.
type Repos struct {
	Users       UserRepository
	Sessions    SessionRepository
	Workspaces  WorkspaceRepository
	Memberships MembershipRepository
	Tasks       TaskRepository
	Assignees   AssigneeRepository
	Media       MediaRepository
}

// TxRunner runs fn against repositories bound to a single transaction.
// fn's error rolls the transaction back; nil commits it.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
