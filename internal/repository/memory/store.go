// Package memory is an in-process implementation of the repository
// interfaces used by service and handler tests. WithinTx snapshots the
// whole store and restores it when the closure fails.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository"
)

type session struct {
	userID    string
	expiresAt time.Time
}

type taskFileLink struct {
	id      int64
	taskID  int64
	mediaID int64
}

type state struct {
	users      map[string]models.User
	sessions   map[string]session
	workspaces map[int64]models.Workspace
	wsUsers    []models.WorkspaceUser
	wsClients  []models.WorkspaceClient
	tasks      map[int64]models.Task
	assignees  []models.TaskAssignee
	media      map[int64]models.MediaContent
	links      []taskFileLink
	seq        int64
}

func newState() state {
	return state{
		users:      make(map[string]models.User),
		sessions:   make(map[string]session),
		workspaces: make(map[int64]models.Workspace),
		tasks:      make(map[int64]models.Task),
		media:      make(map[int64]models.MediaContent),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.workspaces {
		c.workspaces[k] = v
	}
	for k, v := range s.tasks {
		c.tasks[k] = cloneTask(v)
	}
	for k, v := range s.media {
		c.media[k] = v
	}
	c.wsUsers = append(c.wsUsers, s.wsUsers...)
	c.wsClients = append(c.wsClients, s.wsClients...)
	c.assignees = append(c.assignees, s.assignees...)
	c.links = append(c.links, s.links...)
	c.seq = s.seq
	return c
}

func cloneTask(t models.Task) models.Task {
	t.Files = append([]models.TaskFile(nil), t.Files...)
	t.Captions = append([]models.Caption(nil), t.Captions...)
	t.SocialLinks = append([]models.SocialLink(nil), t.SocialLinks...)
	t.ClientComment = append([]models.ClientComment(nil), t.ClientComment...)
	return t
}

// Store holds all tables behind one mutex.
type Store struct {
	mu  sync.Mutex
	txM sync.Mutex
	st  state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

// Repos returns the store viewed through every repository interface.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:       s,
		Sessions:    sessions{s},
		Workspaces:  workspaces{s},
		Memberships: memberships{s},
		Tasks:       tasks{s},
		Assignees:   assignees{s},
		Media:       media{s},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) (err error) {
	s.txM.Lock()
	defer s.txM.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()
	return fn(ctx, s.Repos())
}

func (s *Store) restore(snapshot state) {
	s.mu.Lock()
	s.st = snapshot
	s.mu.Unlock()
}

// Seeding helpers for tests.

func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
		u.UpdatedAt = u.CreatedAt
	}
	s.st.users[u.ID] = u
}

func (s *Store) PutSession(token, userID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sessions[token] = session{userID: userID, expiresAt: expiresAt}
}

// UserRepository

func (s *Store) GetByID(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.st.users))
	for _, u := range s.st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) ListSummaries(_ context.Context, ids []string) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserSummary, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		u, ok := s.st.users[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, models.UserSummary{ID: u.ID, Name: u.Name, Image: u.Image})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.st.users[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

type sessions struct{ s *Store }

func (r sessions) UserByToken(_ context.Context, token string, now time.Time) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.st.sessions[token]
	if !ok || !sess.expiresAt.After(now) {
		return nil, nil
	}
	u, ok := r.s.st.users[sess.userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type workspaces struct{ s *Store }

func (r workspaces) Create(_ context.Context, ws *models.Workspace) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ws.ID = r.s.nextID()
	ws.CreatedAt = r.s.now()
	ws.UpdatedAt = ws.CreatedAt
	r.s.st.workspaces[ws.ID] = *ws
	return nil
}

func (r workspaces) GetByID(_ context.Context, workspaceID int64) (*models.Workspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ws, ok := r.s.st.workspaces[workspaceID]
	if !ok {
		return nil, nil
	}
	return &ws, nil
}

func (r workspaces) ListForUser(_ context.Context, userID string) ([]models.Workspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[int64]bool)
	for _, m := range r.s.st.wsUsers {
		if m.UserID == userID {
			ids[m.WorkspaceID] = true
		}
	}
	for _, c := range r.s.st.wsClients {
		if c.ClientID == userID {
			ids[c.WorkspaceID] = true
		}
	}
	out := make([]models.Workspace, 0, len(ids))
	for id := range ids {
		if ws, ok := r.s.st.workspaces[id]; ok {
			out = append(out, ws)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memberships struct{ s *Store }

func (r memberships) AddUser(_ context.Context, workspaceID int64, userID string, role access.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.wsUsers = append(r.s.st.wsUsers, models.WorkspaceUser{
		ID:          r.s.nextID(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        int(role),
	})
	return nil
}

func (r memberships) AddClient(_ context.Context, workspaceID int64, clientID, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	r.s.st.wsClients = append(r.s.st.wsClients, models.WorkspaceClient{
		ID:          r.s.nextID(),
		WorkspaceID: workspaceID,
		ClientID:    clientID,
		Role:        int(access.RoleClient),
		CreatedAt:   now,
		CreatedBy:   &actorID,
		UpdatedAt:   now,
		UpdatedBy:   &actorID,
	})
	return nil
}

func (r memberships) RoleOf(_ context.Context, workspaceID int64, userID string) (access.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.roleOfLocked(workspaceID, userID), nil
}

func (s *Store) roleOfLocked(workspaceID int64, userID string) access.Membership {
	m := access.None()
	for _, wu := range s.st.wsUsers {
		if wu.WorkspaceID != workspaceID || wu.UserID != userID {
			continue
		}
		if !m.Member || access.Role(wu.Role) < m.Role {
			m = access.Of(access.Role(wu.Role))
		}
	}
	if m.Member {
		return m
	}
	for _, c := range s.st.wsClients {
		if c.WorkspaceID == workspaceID && c.ClientID == userID {
			return access.Of(access.RoleClient)
		}
	}
	return m
}

func (r memberships) Roles(_ context.Context, workspaceID int64, userID string) ([]access.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]access.Role, 0)
	for _, wu := range r.s.st.wsUsers {
		if wu.WorkspaceID == workspaceID && wu.UserID == userID {
			out = append(out, access.Role(wu.Role))
		}
	}
	return out, nil
}

func (r memberships) Members(_ context.Context, workspaceID int64) ([]models.WorkspaceMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]bool)
	out := make([]models.WorkspaceMember, 0)
	add := func(userID string) {
		if seen[userID] {
			return
		}
		seen[userID] = true
		u, ok := r.s.st.users[userID]
		if !ok {
			return
		}
		m := r.s.roleOfLocked(workspaceID, userID)
		out = append(out, models.WorkspaceMember{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Role:  int(m.Role),
			Image: u.Image,
		})
	}
	for _, wu := range r.s.st.wsUsers {
		if wu.WorkspaceID == workspaceID {
			add(wu.UserID)
		}
	}
	for _, c := range r.s.st.wsClients {
		if c.WorkspaceID == workspaceID {
			add(c.ClientID)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
