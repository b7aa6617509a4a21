package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository/memory"
	"github.com/lalith-99/taskdeck/internal/storage"
)

type fakeUploader struct {
	calls   []string
	deleted []string
	err     error
	// failAfter makes every Put after the first failAfter ones fail with err.
	failAfter int
	deleteErr error
}

func (f *fakeUploader) Put(_ context.Context, _ string, body io.Reader, _ int64) (string, error) {
	if f.err != nil && len(f.calls) >= f.failAfter {
		return "", f.err
	}
	data, _ := io.ReadAll(body)
	f.calls = append(f.calls, string(data))
	return "https://cdn.example/" + string(data), nil
}

func (f *fakeUploader) Delete(_ context.Context, fileURL string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type fakePresigner struct {
	err error
}

func (f fakePresigner) PresignPut(_ context.Context, fileName, _ string) (*storage.PresignedUpload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &storage.PresignedUpload{
		SignedURL:    "https://signed.example/put",
		FileURL:      "https://bucket.example/01012024/id",
		OriginalName: fileName,
	}, nil
}

type fixture struct {
	store      *memory.Store
	tasks      *TaskService
	workspaces *WorkspaceService
	users      *UserService
	media      *MediaService
	uploader   *fakeUploader
}

func newFixture(t *testing.T, policy access.Policy) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	logger := zap.NewNop()
	up := &fakeUploader{}
	ws := NewWorkspaceService(repos, store, policy, logger)
	return &fixture{
		store:      store,
		tasks:      NewTaskService(repos, store, policy, up, logger),
		workspaces: ws,
		users:      NewUserService(repos, ws, policy),
		media:      NewMediaService(repos.Media, fakePresigner{}, logger),
		uploader:   up,
	}
}

func (f *fixture) user(id string) *models.User {
	u := models.User{ID: id, Name: "User " + id, Email: id + "@example.com"}
	f.store.PutUser(u)
	return &u
}

func (f *fixture) superAdmin(id string) *models.User {
	role := models.SuperAdminRole
	u := models.User{ID: id, Name: "Root " + id, Email: id + "@example.com", Role: &role}
	f.store.PutUser(u)
	return &u
}

// workspace creates a workspace owned by owner with the given buckets.
func (f *fixture) workspace(t *testing.T, owner *models.User, roles map[access.Bucket][]string) int64 {
	t.Helper()
	id, err := f.workspaces.Create(context.Background(), owner, CreateWorkspaceInput{Name: "Acme", Roles: roles})
	require.NoError(t, err)
	return id
}

func (f *fixture) assignees(t *testing.T, taskID int64) []string {
	t.Helper()
	ids, err := f.store.Repos().Assignees.List(context.Background(), taskID)
	require.NoError(t, err)
	return ids
}
