package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository"
)

type CreateWorkspaceInput struct {
	Name        string
	Image       *string
	Information models.WorkspaceInfo
	Roles       map[access.Bucket][]string
}

// WorkspaceTasks is the ws/getTasks payload.
type WorkspaceTasks struct {
	Workspace models.Workspace `json:"workspace"`
	Tasks     []models.Task    `json:"tasks"`
}

type WorkspaceService struct {
	repos  repository.Repos
	tx     repository.TxRunner
	policy access.Policy
	logger *zap.Logger
}

func NewWorkspaceService(repos repository.Repos, tx repository.TxRunner, policy access.Policy, logger *zap.Logger) *WorkspaceService {
	return &WorkspaceService{repos: repos, tx: tx, policy: policy, logger: logger}
}

// Create makes the caller an ADMIN of the new workspace and inserts one
// membership row per listed user. The creator row is written even when the
// creator also appears in a bucket. Clients are mirrored into
// workspace_clients.
func (s *WorkspaceService) Create(ctx context.Context, caller *models.User, in CreateWorkspaceInput) (int64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return 0, invalid("name is required")
	}
	for b := range in.Roles {
		if b.Role() == 0 {
			return 0, invalid("unknown role bucket %q", b)
		}
	}

	var id int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var listed []string
		for _, b := range access.Buckets {
			listed = append(listed, in.Roles[b]...)
		}
		if err := requireUsers(ctx, r, uniqueExcluding(listed, "")); err != nil {
			return err
		}

		ws := &models.Workspace{
			Name:        in.Name,
			Image:       in.Image,
			Information: in.Information,
			CreatedBy:   &caller.ID,
			UpdatedBy:   &caller.ID,
		}
		if err := r.Workspaces.Create(ctx, ws); err != nil {
			return err
		}
		if err := r.Memberships.AddUser(ctx, ws.ID, caller.ID, access.RoleAdmin); err != nil {
			return err
		}

		for _, b := range access.Buckets {
			for _, userID := range in.Roles[b] {
				if userID == "" {
					continue
				}
				if err := r.Memberships.AddUser(ctx, ws.ID, userID, b.Role()); err != nil {
					return err
				}
				if b == access.BucketClients {
					if err := r.Memberships.AddClient(ctx, ws.ID, userID, caller.ID); err != nil {
						return err
					}
				}
			}
		}
		id = ws.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("workspace created",
		zap.Int64("workspace_id", id),
		zap.String("created_by", caller.ID),
	)
	return id, nil
}

// Get returns the workspace as a one-element list, or an empty list when
// the caller cannot see it.
func (s *WorkspaceService) Get(ctx context.Context, caller *models.User, workspaceID int64) ([]models.Workspace, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if workspaceID <= 0 {
		return nil, invalid("workspaceId is required")
	}

	out := make([]models.Workspace, 0, 1)
	ws, err := s.repos.Workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	if ws == nil {
		return out, nil
	}
	ok, err := s.canView(ctx, caller, workspaceID)
	if err != nil {
		return nil, err
	}
	if ok {
		out = append(out, *ws)
	}
	return out, nil
}

// ListMine returns every workspace the caller belongs to.
func (s *WorkspaceService) ListMine(ctx context.Context, caller *models.User) ([]models.Workspace, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	list, err := s.repos.Workspaces.ListForUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return list, nil
}

// Tasks returns the workspace and all of its tasks.
func (s *WorkspaceService) Tasks(ctx context.Context, caller *models.User, workspaceID int64) (*WorkspaceTasks, error) {
	ws, err := s.visible(ctx, caller, workspaceID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repos.Tasks.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list workspace tasks: %w", err)
	}
	return &WorkspaceTasks{Workspace: *ws, Tasks: tasks}, nil
}

// AccessUsers lists the workspace's members with their roles.
func (s *WorkspaceService) AccessUsers(ctx context.Context, caller *models.User, workspaceID int64) ([]models.WorkspaceMember, error) {
	if _, err := s.visible(ctx, caller, workspaceID); err != nil {
		return nil, err
	}
	members, err := s.repos.Memberships.Members(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// visible loads a workspace the caller may view: 404 when it does not
// exist, 403 when the caller is not a member.
func (s *WorkspaceService) visible(ctx context.Context, caller *models.User, workspaceID int64) (*models.Workspace, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if workspaceID <= 0 {
		return nil, invalid("workspaceId is required")
	}
	ws, err := s.repos.Workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %d", ErrNotFound, workspaceID)
	}
	ok, err := s.canView(ctx, caller, workspaceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, denied(access.ActionViewWorkspace)
	}
	return ws, nil
}

func (s *WorkspaceService) canView(ctx context.Context, caller *models.User, workspaceID int64) (bool, error) {
	if caller.IsSuperAdmin() {
		return true, nil
	}
	m, err := s.repos.Memberships.RoleOf(ctx, workspaceID, caller.ID)
	if err != nil {
		return false, fmt.Errorf("resolve role: %w", err)
	}
	return s.policy.Allowed(m, false, access.ActionViewWorkspace), nil
}
