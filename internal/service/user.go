package service

import (
	"context"
	"fmt"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository"
)

type UserService struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	workspaces  *WorkspaceService
	policy      access.Policy
}

func NewUserService(repos repository.Repos, workspaces *WorkspaceService, policy access.Policy) *UserService {
	return &UserService{
		users:       repos.Users,
		memberships: repos.Memberships,
		workspaces:  workspaces,
		policy:      policy,
	}
}

// ListAll returns every user. Super admins only.
func (s *UserService) ListAll(ctx context.Context, caller *models.User) ([]models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !s.policy.Allowed(access.None(), caller.IsSuperAdmin(), access.ActionListUsers) {
		return nil, denied(access.ActionListUsers)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetMany(ctx context.Context, caller *models.User, ids []string) ([]models.UserSummary, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	ids = uniqueExcluding(ids, "")
	if len(ids) == 0 {
		return nil, invalid("ids are required")
	}
	out, err := s.users.ListSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list user summaries: %w", err)
	}
	return out, nil
}

// ForWorkspace lists workspace members with their roles.
func (s *UserService) ForWorkspace(ctx context.Context, caller *models.User, workspaceID int64) ([]models.WorkspaceMember, error) {
	return s.workspaces.AccessUsers(ctx, caller, workspaceID)
}

// RoleForWorkspace returns the caller's membership rows in a workspace. A
// caller known only through workspace_clients gets a single client row.
func (s *UserService) RoleForWorkspace(ctx context.Context, caller *models.User, workspaceID int64) ([]access.Role, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if workspaceID <= 0 {
		return nil, invalid("workspaceId is required")
	}
	roles, err := s.memberships.Roles(ctx, workspaceID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	if len(roles) > 0 {
		return roles, nil
	}
	m, err := s.memberships.RoleOf(ctx, workspaceID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	if m.Member {
		roles = append(roles, m.Role)
	}
	return roles, nil
}

// IsSuperAdmin reports the caller's global flag. It is never an error to
// ask.
func (s *UserService) IsSuperAdmin(caller *models.User) (bool, error) {
	if err := requireCaller(caller); err != nil {
		return false, err
	}
	return s.policy.Allowed(access.None(), caller.IsSuperAdmin(), access.ActionCheckSuperAdmin), nil
}
