package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository"
)

type CreateTaskInput struct {
	Name          string
	WorkspaceID   int64
	Category      models.Category
	Priority      models.Priority
	PublishDate   *time.Time
	DeadlineDate  *time.Time
	Captions      []models.Caption
	SocialLinks   []models.SocialLink
	AssignedUsers []string
	// UploadedFiles are media_content ids registered through /fileupload.
	UploadedFiles []int64
}

// UpdateTaskInput is sparse: nil leaves the stored value alone.
// AssignedUsers set to a non-nil (possibly empty) slice replaces the
// assignee set. UploadedFiles is appended to the existing files.
type UpdateTaskInput struct {
	Name          *string
	Priority      *models.Priority
	Category      *models.Category
	PublishDate   *time.Time
	DeadlineDate  *time.Time
	TaskStatus    *models.TaskStatus
	ClientStatus  *models.ClientStatus
	Captions      *[]models.Caption
	SocialLinks   *[]models.SocialLink
	AssignedUsers *[]string
	UploadedFiles []int64
}

// changes compares the patch with the stored task and reports which field
// groups it would actually modify. The dashboard echoes the whole form on
// save, so a supplied value equal to the stored one is not a change.
func (in UpdateTaskInput) changes(t *models.Task, assigned []string, actorID string) access.PatchScope {
	core := len(in.UploadedFiles) > 0 ||
		(in.Name != nil && strings.TrimSpace(*in.Name) != t.Name) ||
		(in.Priority != nil && *in.Priority != t.Priority) ||
		(in.Category != nil && *in.Category != t.Category) ||
		(in.TaskStatus != nil && *in.TaskStatus != t.TaskStatus) ||
		dateChanged(in.PublishDate, t.PublishDate) ||
		dateChanged(in.DeadlineDate, t.DeadlineDate) ||
		(in.Captions != nil && !slices.Equal(*in.Captions, t.Captions)) ||
		(in.SocialLinks != nil && !slices.Equal(*in.SocialLinks, t.SocialLinks))

	return access.PatchScope{
		CoreFields:   core,
		ClientStatus: in.ClientStatus != nil && *in.ClientStatus != t.ClientStatus,
		Assignees:    in.AssignedUsers != nil && !sameSet(desiredAssignees(*in.AssignedUsers, actorID), assigned),
	}
}

// dateChanged treats a nil patch value as "leave alone".
func dateChanged(patch, stored *time.Time) bool {
	if patch == nil {
		return false
	}
	return stored == nil || !patch.Equal(*stored)
}

// desiredAssignees is the set replaceAssignees would leave behind.
func desiredAssignees(ids []string, actorID string) []string {
	return append([]string{actorID}, uniqueExcluding(ids, actorID)...)
}

func sameSet(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, id := range a {
		seen[id] = true
	}
	other := make(map[string]bool, len(b))
	for _, id := range b {
		if !seen[id] {
			return false
		}
		other[id] = true
	}
	return len(seen) == len(other)
}

// Upload is one file received by the multipart create endpoint.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type TaskService struct {
	repos    repository.Repos
	tx       repository.TxRunner
	policy   access.Policy
	uploader ObjectUploader
	logger   *zap.Logger
	now      func() time.Time
}

func NewTaskService(repos repository.Repos, tx repository.TxRunner, policy access.Policy, uploader ObjectUploader, logger *zap.Logger) *TaskService {
	return &TaskService{
		repos:    repos,
		tx:       tx,
		policy:   policy,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func validateCreate(in *CreateTaskInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.WorkspaceID <= 0 || in.Category == "" {
		return invalid("name, workspaceId and category are required")
	}
	if !in.Category.Valid() {
		return invalid("unknown category %q", in.Category)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return invalid("unknown priority %q", in.Priority)
	}
	return nil
}

// authorizeCreate checks the caller may create in the workspace and, when
// others are named, assign them.
func (s *TaskService) authorizeCreate(ctx context.Context, caller *models.User, in *CreateTaskInput) error {
	ws, err := s.repos.Workspaces.GetByID(ctx, in.WorkspaceID)
	if err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}
	if ws == nil {
		return fmt.Errorf("%w: workspace %d", ErrNotFound, in.WorkspaceID)
	}

	m, err := s.repos.Memberships.RoleOf(ctx, in.WorkspaceID, caller.ID)
	if err != nil {
		return fmt.Errorf("resolve role: %w", err)
	}
	if !s.policy.Allowed(m, caller.IsSuperAdmin(), access.ActionCreateTask) {
		return denied(access.ActionCreateTask)
	}
	if len(uniqueExcluding(in.AssignedUsers, caller.ID)) > 0 &&
		!s.policy.Allowed(m, caller.IsSuperAdmin(), access.ActionAssignUsers) {
		return denied(access.ActionAssignUsers)
	}
	return nil
}

// Create inserts the task, assigns the creator, then assigns any other
// requested users, all in one transaction.
func (s *TaskService) Create(ctx context.Context, caller *models.User, in CreateTaskInput) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := validateCreate(&in); err != nil {
		return nil, err
	}
	if err := s.authorizeCreate(ctx, caller, &in); err != nil {
		return nil, err
	}

	var task *models.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		task, err = createTask(ctx, r, caller, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		zap.Int64("task_id", task.ID),
		zap.Int64("workspace_id", task.WorkspaceID),
	)
	return task, nil
}

// CreateFull uploads files server-side, registers them as media and
// creates the task with them attached.
func (s *TaskService) CreateFull(ctx context.Context, caller *models.User, in CreateTaskInput, uploads []Upload) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := validateCreate(&in); err != nil {
		return nil, err
	}
	if err := s.authorizeCreate(ctx, caller, &in); err != nil {
		return nil, err
	}

	registered := make([]models.MediaContent, 0, len(uploads))
	for _, up := range uploads {
		url, err := s.uploader.Put(ctx, up.ContentType, up.Body, up.Size)
		if err != nil {
			s.discardUploads(ctx, registered)
			return nil, fmt.Errorf("upload %q: %w: %w", up.Name, ErrUpstream, err)
		}
		registered = append(registered, models.MediaContent{
			UserID:       caller.ID,
			Type:         ClassifyContentType(up.ContentType),
			URL:          url,
			OriginalName: up.Name,
		})
	}

	var task *models.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		for i := range registered {
			if err := r.Media.Create(ctx, &registered[i]); err != nil {
				return err
			}
			in.UploadedFiles = append(in.UploadedFiles, registered[i].ID)
		}
		var err error
		task, err = createTask(ctx, r, caller, in)
		return err
	})
	if err != nil {
		s.discardUploads(ctx, registered)
		return nil, err
	}

	s.logger.Info("task created with uploads",
		zap.Int64("task_id", task.ID),
		zap.Int("files", len(registered)),
	)
	return task, nil
}

// discardUploads deletes objects whose task was never created. It runs
// even when ctx is already cancelled. Objects that cannot be deleted are
// logged so they can be cleaned up by hand.
func (s *TaskService) discardUploads(ctx context.Context, uploaded []models.MediaContent) {
	if len(uploaded) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var orphaned []string
	for _, m := range uploaded {
		if err := s.uploader.Delete(ctx, m.URL); err != nil {
			s.logger.Warn("failed to delete upload", zap.String("url", m.URL), zap.Error(err))
			orphaned = append(orphaned, m.URL)
		}
	}
	if len(orphaned) > 0 {
		s.logger.Error("orphaned uploads left in bucket", zap.Strings("urls", orphaned))
	}
}

func createTask(ctx context.Context, r repository.Repos, caller *models.User, in CreateTaskInput) (*models.Task, error) {
	others := uniqueExcluding(in.AssignedUsers, caller.ID)
	if err := requireUsers(ctx, r, others); err != nil {
		return nil, err
	}
	files, err := snapshotMedia(ctx, r, in.UploadedFiles)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:         in.Name,
		WorkspaceID:  in.WorkspaceID,
		Priority:     in.Priority,
		Category:     in.Category,
		Files:        files,
		PublishDate:  in.PublishDate,
		DeadlineDate: in.DeadlineDate,
		Captions:     in.Captions,
		SocialLinks:  in.SocialLinks,
		CreatedBy:    &caller.ID,
	}
	if err := r.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	for _, id := range in.UploadedFiles {
		if err := r.Media.LinkToTask(ctx, task.ID, id); err != nil {
			return nil, err
		}
	}
	if err := r.Assignees.Add(ctx, task.ID, caller.ID, caller.ID); err != nil {
		return nil, err
	}
	for _, id := range others {
		if err := r.Assignees.Add(ctx, task.ID, id, caller.ID); err != nil {
			return nil, err
		}
	}
	return task, nil
}

func requireUsers(ctx context.Context, r repository.Repos, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := r.Users.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}
	known := make(map[string]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return invalid("unknown user %q", id)
		}
	}
	return nil
}

// snapshotMedia copies media rows into task file entries, in the order
// the ids were given.
func snapshotMedia(ctx context.Context, r repository.Repos, ids []int64) ([]models.TaskFile, error) {
	files := make([]models.TaskFile, 0, len(ids))
	if len(ids) == 0 {
		return files, nil
	}
	rows, err := r.Media.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		m, ok := rows[id]
		if !ok {
			return nil, invalid("unknown media %d", id)
		}
		files = append(files, m.Snapshot())
	}
	return files, nil
}

// Get returns a task the caller may see. A task outside the caller's
// workspaces is reported as not found, not forbidden.
func (s *TaskService) Get(ctx context.Context, caller *models.User, taskID int64) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if taskID <= 0 {
		return nil, invalid("id is required")
	}

	task, err := s.repos.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if caller.IsSuperAdmin() {
		return task, nil
	}

	m, err := s.repos.Memberships.RoleOf(ctx, task.WorkspaceID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	if !s.policy.Allowed(m, false, access.ActionViewTask) {
		return nil, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	return task, nil
}

// ListMine returns the tasks the caller is assigned to.
func (s *TaskService) ListMine(ctx context.Context, caller *models.User) ([]models.AssignedTask, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	tasks, err := s.repos.Tasks.ListAssignedTo(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: %w", err)
	}
	return tasks, nil
}

func validateUpdate(in UpdateTaskInput) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name must not be empty")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return invalid("unknown priority %q", *in.Priority)
	}
	if in.Category != nil && !in.Category.Valid() {
		return invalid("unknown category %q", *in.Category)
	}
	if in.TaskStatus != nil && !in.TaskStatus.Valid() {
		return invalid("unknown taskstatus %q", *in.TaskStatus)
	}
	if in.ClientStatus != nil && !in.ClientStatus.Valid() {
		return invalid("unknown clientStatus %q", *in.ClientStatus)
	}
	return nil
}

// Update applies a sparse patch. The read, the field merge and the
// assignee replacement share one transaction; concurrent updates to the
// same task are last-write-wins.
func (s *TaskService) Update(ctx context.Context, caller *models.User, taskID int64, in UpdateTaskInput) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if taskID <= 0 {
		return nil, invalid("id is required")
	}
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	var task *models.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		existing, err := r.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}

		m, err := r.Memberships.RoleOf(ctx, existing.WorkspaceID, caller.ID)
		if err != nil {
			return err
		}
		if !m.Member {
			return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}

		assigned, err := r.Assignees.List(ctx, existing.ID)
		if err != nil {
			return err
		}
		scope := in.changes(existing, assigned, caller.ID)
		if d, action := s.policy.DecidePatch(m, scope); d == access.Deny {
			return denied(action)
		}

		if err := applyPatch(ctx, r, existing, in); err != nil {
			return err
		}
		existing.UpdatedBy = &caller.ID
		if err := r.Tasks.Update(ctx, existing); err != nil {
			return err
		}

		if scope.Assignees {
			if err := replaceAssignees(ctx, r, existing.ID, caller.ID, *in.AssignedUsers); err != nil {
				return err
			}
		}
		task = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated", zap.Int64("task_id", task.ID))
	return task, nil
}

func applyPatch(ctx context.Context, r repository.Repos, t *models.Task, in UpdateTaskInput) error {
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.PublishDate != nil {
		t.PublishDate = in.PublishDate
	}
	if in.DeadlineDate != nil {
		t.DeadlineDate = in.DeadlineDate
	}
	if in.TaskStatus != nil {
		t.TaskStatus = *in.TaskStatus
	}
	if in.ClientStatus != nil {
		t.ClientStatus = *in.ClientStatus
	}
	if in.Captions != nil {
		t.Captions = *in.Captions
	}
	if in.SocialLinks != nil {
		t.SocialLinks = *in.SocialLinks
	}

	if len(in.UploadedFiles) > 0 {
		added, err := snapshotMedia(ctx, r, in.UploadedFiles)
		if err != nil {
			return err
		}
		for _, id := range in.UploadedFiles {
			if err := r.Media.LinkToTask(ctx, t.ID, id); err != nil {
				return err
			}
		}
		t.Files = append(t.Files, added...)
	}
	return nil
}

// replaceAssignees leaves the task assigned to exactly actor plus ids.
func replaceAssignees(ctx context.Context, r repository.Repos, taskID int64, actorID string, ids []string) error {
	others := uniqueExcluding(ids, actorID)
	if err := requireUsers(ctx, r, others); err != nil {
		return err
	}
	if err := r.Assignees.DeleteAll(ctx, taskID); err != nil {
		return err
	}
	if err := r.Assignees.Add(ctx, taskID, actorID, actorID); err != nil {
		return err
	}
	for _, id := range others {
		if err := r.Assignees.Add(ctx, taskID, id, actorID); err != nil {
			return err
		}
	}
	return nil
}

// clientAction loads the task and checks the caller is a client of the
// task's workspace before running fn on it.
func (s *TaskService) clientAction(ctx context.Context, caller *models.User, taskID int64, fn func(t *models.Task)) (*models.Task, error) {
	var task *models.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		t, err := r.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}

		m, err := r.Memberships.RoleOf(ctx, t.WorkspaceID, caller.ID)
		if err != nil {
			return err
		}
		if !s.policy.Allowed(m, caller.IsSuperAdmin(), access.ActionClientReview) {
			return denied(access.ActionClientReview)
		}

		fn(t)
		t.UpdatedBy = &caller.ID
		if err := r.Tasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	return task, err
}

// AddClientComment appends a dated comment from a client.
func (s *TaskService) AddClientComment(ctx context.Context, caller *models.User, taskID int64, comment string) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if taskID <= 0 || comment == "" {
		return nil, invalid("taskId and comment are required")
	}

	task, err := s.clientAction(ctx, caller, taskID, func(t *models.Task) {
		t.ClientComment = append(t.ClientComment, models.ClientComment{
			UserID:  caller.ID,
			Comment: comment,
			Date:    s.now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("client comment added", zap.Int64("task_id", taskID))
	return task, nil
}

// ChangeClientStatus sets the client's approval state.
func (s *TaskService) ChangeClientStatus(ctx context.Context, caller *models.User, taskID int64, status models.ClientStatus) (*models.Task, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if taskID <= 0 || status == "" {
		return nil, invalid("taskId and status are required")
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}

	task, err := s.clientAction(ctx, caller, taskID, func(t *models.Task) {
		t.ClientStatus = status
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("client status changed",
		zap.Int64("task_id", taskID),
		zap.String("status", string(status)),
	)
	return task, nil
}
