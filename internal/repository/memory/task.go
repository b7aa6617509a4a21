package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/lalith-99/taskdeck/internal/models"
)

type tasks struct{ s *Store }

func (r tasks) Create(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.nextID()
	t.CreatedAt = r.s.now()
	t.UpdatedAt = t.CreatedAt
	t.UpdatedBy = t.CreatedBy
	t.TaskStatus = models.TaskStatusIdeation
	t.ClientStatus = models.ClientStatusChanges
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	normalizeLists(t)
	r.s.st.tasks[t.ID] = cloneTask(*t)
	return nil
}

func normalizeLists(t *models.Task) {
	if t.Files == nil {
		t.Files = make([]models.TaskFile, 0)
	}
	if t.Captions == nil {
		t.Captions = make([]models.Caption, 0)
	}
	if t.SocialLinks == nil {
		t.SocialLinks = make([]models.SocialLink, 0)
	}
	if t.ClientComment == nil {
		t.ClientComment = make([]models.ClientComment, 0)
	}
}

func (r tasks) GetByID(_ context.Context, taskID int64) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.st.tasks[taskID]
	if !ok {
		return nil, nil
	}
	t = cloneTask(t)
	normalizeLists(&t)
	return &t, nil
}

func (r tasks) Update(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.st.tasks[t.ID]
	if !ok {
		return fmt.Errorf("update task %d: no row", t.ID)
	}
	t.WorkspaceID = existing.WorkspaceID
	t.CreatedAt = existing.CreatedAt
	t.CreatedBy = existing.CreatedBy
	t.UpdatedAt = r.s.now()
	normalizeLists(t)
	r.s.st.tasks[t.ID] = cloneTask(*t)
	return nil
}

func (r tasks) ListAssignedTo(_ context.Context, userID string) ([]models.AssignedTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[int64]bool)
	for _, a := range r.s.st.assignees {
		if a.UserID == userID {
			ids[a.TaskID] = true
		}
	}
	out := make([]models.AssignedTask, 0, len(ids))
	for id := range ids {
		t, ok := r.s.st.tasks[id]
		if !ok {
			continue
		}
		at := models.AssignedTask{Task: cloneTask(t)}
		normalizeLists(&at.Task)
		if ws, ok := r.s.st.workspaces[t.WorkspaceID]; ok {
			at.WorkspaceName = ws.Name
			at.WorkspaceImage = ws.Image
		}
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r tasks) ListByWorkspace(_ context.Context, workspaceID int64) ([]models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Task, 0)
	for _, t := range r.s.st.tasks {
		if t.WorkspaceID == workspaceID {
			t = cloneTask(t)
			normalizeLists(&t)
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type assignees struct{ s *Store }

func (r assignees) Add(_ context.Context, taskID int64, userID, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.st.assignees {
		if a.TaskID == taskID && a.UserID == userID {
			return nil
		}
	}
	now := r.s.now()
	r.s.st.assignees = append(r.s.st.assignees, models.TaskAssignee{
		ID:        r.s.nextID(),
		TaskID:    taskID,
		UserID:    userID,
		CreatedAt: now,
		CreatedBy: &actorID,
		UpdatedAt: now,
		UpdatedBy: &actorID,
	})
	return nil
}

func (r assignees) DeleteAll(_ context.Context, taskID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.st.assignees[:0:0]
	for _, a := range r.s.st.assignees {
		if a.TaskID != taskID {
			kept = append(kept, a)
		}
	}
	r.s.st.assignees = kept
	return nil
}

func (r assignees) List(_ context.Context, taskID int64) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]string, 0)
	for _, a := range r.s.st.assignees {
		if a.TaskID == taskID {
			out = append(out, a.UserID)
		}
	}
	return out, nil
}

type media struct{ s *Store }

func (r media) Create(_ context.Context, m *models.MediaContent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.nextID()
	m.CreatedAt = r.s.now()
	r.s.st.media[m.ID] = *m
	return nil
}

func (r media) GetByIDs(_ context.Context, ids []int64) (map[int64]models.MediaContent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64]models.MediaContent, len(ids))
	for _, id := range ids {
		if m, ok := r.s.st.media[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (r media) LinkToTask(_ context.Context, taskID, mediaID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.links = append(r.s.st.links, taskFileLink{id: r.s.nextID(), taskID: taskID, mediaID: mediaID})
	return nil
}
