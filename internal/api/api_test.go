package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/auth"
	"github.com/lalith-99/taskdeck/internal/middleware"
	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/repository/memory"
	"github.com/lalith-99/taskdeck/internal/service"
	"github.com/lalith-99/taskdeck/internal/storage"
)

type stubObjects struct{}

func (stubObjects) Put(_ context.Context, contentType string, body io.Reader, _ int64) (string, error) {
	_, _ = io.Copy(io.Discard, body)
	return "https://cdn.example/" + contentType, nil
}

func (stubObjects) Delete(context.Context, string) error { return nil }

func (stubObjects) PresignPut(_ context.Context, fileName, _ string) (*storage.PresignedUpload, error) {
	return &storage.PresignedUpload{
		SignedURL:    "https://signed.example/put",
		FileURL:      "https://bucket.example/01012024/abc",
		OriginalName: fileName,
	}, nil
}

type testServer struct {
	router http.Handler
	store  *memory.Store
}

func setupServer(t *testing.T, health func(context.Context) error) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	repos := store.Repos()
	logger := zap.NewNop()
	policy := access.Policy{}

	workspaces := service.NewWorkspaceService(repos, store, policy, logger)
	router := NewRouter(Services{
		Tasks:      service.NewTaskService(repos, store, policy, stubObjects{}, logger),
		Workspaces: workspaces,
		Users:      service.NewUserService(repos, workspaces, policy),
		Media:      service.NewMediaService(repos.Media, stubObjects{}, logger),
	}, RouterOptions{
		Resolver:    auth.NewSessionResolver(repos.Sessions),
		Logger:      logger,
		CORSOrigins: []string{"http://localhost:3000"},
		Health:      health,
	})
	return &testServer{router: router, store: store}
}

// login seeds a user with a live session and returns the auth header.
func (s *testServer) login(id string, superAdmin bool) map[string]string {
	u := models.User{ID: id, Name: "User " + id, Email: id + "@example.com"}
	if superAdmin {
		role := models.SuperAdminRole
		u.Role = &role
	}
	s.store.PutUser(u)
	token := "tok-" + id
	s.store.PutSession(token, id, time.Now().Add(time.Hour))
	return map[string]string{middleware.HeaderSessionToken: token}
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createWorkspace(t *testing.T, headers map[string]string, body gin.H) int64 {
	t.Helper()
	w := doRequest(t, s.router, http.MethodPost, "/ws/create", body, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode[struct {
		WorkspaceID int64  `json:"workspaceId"`
		Message     string `json:"message"`
	}](t, w)
	assert.Equal(t, "Workspace created", out.Message)
	return out.WorkspaceID
}

type taskEnvelope struct {
	Success bool        `json:"success"`
	Task    models.Task `json:"task"`
	TaskID  int64       `json:"taskId"`
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s := setupServer(t, nil)
		w := doRequest(t, s.router, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("database down", func(t *testing.T) {
		s := setupServer(t, func(context.Context) error { return errors.New("down") })
		w := doRequest(t, s.router, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	s := setupServer(t, nil)

	for _, path := range []string{"/tasks/get", "/ws/getAll", "/user/checkSA"} {
		w := doRequest(t, s.router, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	s.store.PutUser(models.User{ID: "old"})
	s.store.PutSession("expired", "old", time.Now().Add(-time.Minute))
	w := doRequest(t, s.router, http.MethodGet, "/tasks/get", nil, map[string]string{middleware.HeaderSessionToken: "expired"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskLifecycle(t *testing.T) {
	s := setupServer(t, nil)
	manager := s.login("mgr", false)
	s.login("designer", false)
	client := s.login("client", false)

	wsID := s.createWorkspace(t, manager, gin.H{
		"name":        "Acme",
		"information": gin.H{"industry": "retail"},
		"roles": gin.H{
			"assignees": []string{"designer"},
			"clients":   []string{"client"},
		},
	})

	// register a file, then attach it at creation time
	w := doRequest(t, s.router, http.MethodPost, "/fileupload", gin.H{
		"fileUrl":      "https://bucket.example/a.png",
		"originalName": "a.png",
		"contentType":  "image/png",
	}, manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	media := decode[struct {
		Media models.MediaContent `json:"media"`
	}](t, w).Media
	assert.Equal(t, models.MediaTypeImage, media.Type)

	w = doRequest(t, s.router, http.MethodPost, "/tasks/create", gin.H{
		"name":          "Launch reel",
		"workspaceId":   wsID,
		"category":      "REELS",
		"assignedUsers": []string{"designer"},
		"uploadedFiles": []gin.H{{"id": media.ID}},
	}, manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[taskEnvelope](t, w)
	assert.True(t, created.Success)
	assert.Equal(t, created.Task.ID, created.TaskID)
	assert.Equal(t, models.PriorityMedium, created.Task.Priority)
	assert.Equal(t, models.TaskStatusIdeation, created.Task.TaskStatus)
	require.Len(t, created.Task.Files, 1)
	assert.Equal(t, "a.png", created.Task.Files[0].OriginalName)

	taskPath := fmt.Sprintf("/tasks/getTask?id=%d", created.TaskID)

	// the designer sees it in their list and can move it along
	w = doRequest(t, s.router, http.MethodGet, "/tasks/get", nil, map[string]string{middleware.HeaderSessionToken: "tok-designer"})
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]models.AssignedTask](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, "Acme", mine[0].WorkspaceName)

	w = doRequest(t, s.router, http.MethodPut, fmt.Sprintf("/tasks/updateTask?id=%d", created.TaskID),
		gin.H{"taskstatus": "CLIENT REVIEW"}, map[string]string{middleware.HeaderSessionToken: "tok-designer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.TaskStatusClientReview, decode[taskEnvelope](t, w).Task.TaskStatus)

	// the client may not touch internal fields
	w = doRequest(t, s.router, http.MethodPut, fmt.Sprintf("/tasks/updateTask?id=%d", created.TaskID),
		gin.H{"name": "renamed"}, client)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// but can comment and approve
	w = doRequest(t, s.router, http.MethodPost, "/tasks/addComment",
		gin.H{"taskId": created.TaskID, "comment": "love it"}, client)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	commented := decode[taskEnvelope](t, w).Task
	require.Len(t, commented.ClientComment, 1)
	assert.Equal(t, "client", commented.ClientComment[0].UserID)

	w = doRequest(t, s.router, http.MethodPost, "/tasks/changeClientStatus",
		gin.H{"taskId": created.TaskID, "status": "APPROVED"}, client)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ClientStatusApproved, decode[taskEnvelope](t, w).Task.ClientStatus)

	// internal members cannot act as the client
	w = doRequest(t, s.router, http.MethodPost, "/tasks/changeClientStatus",
		gin.H{"taskId": created.TaskID, "status": "DECLINED"}, manager)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s.router, http.MethodGet, taskPath, nil, client)
	require.Equal(t, http.StatusOK, w.Code)
	final := decode[models.Task](t, w)
	assert.Equal(t, "Launch reel", final.Name)
	assert.Equal(t, models.ClientStatusApproved, final.ClientStatus)

	outsider := s.login("outsider", false)
	w = doRequest(t, s.router, http.MethodGet, taskPath, nil, outsider)
	assert.Equal(t, http.StatusNotFound, w.Code)

	root := s.login("root", true)
	w = doRequest(t, s.router, http.MethodGet, taskPath, nil, root)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateTask_BadRequests(t *testing.T) {
	s := setupServer(t, nil)
	manager := s.login("mgr", false)
	wsID := s.createWorkspace(t, manager, gin.H{"name": "Acme"})

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing name", gin.H{"workspaceId": wsID, "category": "POSTS"}, http.StatusBadRequest},
		{"bad category", gin.H{"name": "x", "workspaceId": wsID, "category": "MEMES"}, http.StatusBadRequest},
		{"unknown assignee", gin.H{"name": "x", "workspaceId": wsID, "category": "POSTS", "assignedUsers": []string{"ghost"}}, http.StatusBadRequest},
		{"unknown workspace", gin.H{"name": "x", "workspaceId": 999, "category": "POSTS"}, http.StatusNotFound},
		{"not json", "nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s.router, http.MethodPost, "/tasks/create", tt.body, manager)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := doRequest(t, s.router, http.MethodGet, "/tasks/getTask?id=abc", nil, manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateFull_Multipart(t *testing.T) {
	s := setupServer(t, nil)
	manager := s.login("mgr", false)
	wsID := s.createWorkspace(t, manager, gin.H{"name": "Acme"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Poster"))
	require.NoError(t, mw.WriteField("workspaceId", fmt.Sprint(wsID)))
	require.NoError(t, mw.WriteField("category", "POSTS"))
	require.NoError(t, mw.WriteField("deadlineDate", "2025-03-01T10:00:00Z"))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="files"; filename="poster.pdf"`)
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/tasks/createFull", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.HeaderSessionToken, manager[middleware.HeaderSessionToken])
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[taskEnvelope](t, w).Task
	require.Len(t, task.Files, 1)
	assert.Equal(t, models.MediaTypePDF, task.Files[0].Type)
	assert.Equal(t, "poster.pdf", task.Files[0].OriginalName)
	assert.Equal(t, "https://cdn.example/application/pdf", task.Files[0].URL)
	require.NotNil(t, task.DeadlineDate)
	assert.True(t, task.DeadlineDate.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))

	w = doRequest(t, s.router, http.MethodPost, "/tasks/createFull", gin.H{"name": "x"}, manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPresigned(t *testing.T) {
	s := setupServer(t, nil)
	user := s.login("u1", false)

	w := doRequest(t, s.router, http.MethodGet, "/presigned?fileName=cut.mp4&contentType=video/mp4", nil, user)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[map[string]string](t, w)
	assert.Equal(t, "https://signed.example/put", out["signedUrl"])
	assert.Equal(t, "cut.mp4", out["originalName"])
	assert.NotEmpty(t, out["fileUrl"])

	w = doRequest(t, s.router, http.MethodGet, "/presigned", nil, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspaceRoutes(t *testing.T) {
	s := setupServer(t, nil)
	owner := s.login("owner", false)
	s.login("mgr", false)
	outsider := s.login("outsider", false)

	wsID := s.createWorkspace(t, owner, gin.H{
		"name":  "Acme",
		"roles": gin.H{"managers": []string{"mgr"}},
	})

	w := doRequest(t, s.router, http.MethodGet, "/ws/getAll", nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]models.Workspace](t, w)
	require.Len(t, all, 1)
	assert.Equal(t, "Acme", all[0].Name)

	getPath := fmt.Sprintf("/ws/get?workspaceId=%d", wsID)
	w = doRequest(t, s.router, http.MethodGet, getPath, nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Workspace](t, w), 1)

	w = doRequest(t, s.router, http.MethodGet, getPath, nil, outsider)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	tasksPath := fmt.Sprintf("/ws/getTasks?workspaceId=%d", wsID)
	w = doRequest(t, s.router, http.MethodGet, tasksPath, nil, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[struct {
		Workspace models.Workspace `json:"workspace"`
		Tasks     []models.Task    `json:"tasks"`
	}](t, w)
	assert.Equal(t, wsID, out.Workspace.ID)
	assert.Empty(t, out.Tasks)

	w = doRequest(t, s.router, http.MethodGet, tasksPath, nil, outsider)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s.router, http.MethodGet, "/ws/getTasks?workspaceId=999", nil, owner)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, s.router, http.MethodGet, fmt.Sprintf("/ws/getAccessUsers?workspaceId=%d", wsID), nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	members := decode[[]models.WorkspaceMember](t, w)
	roles := map[string]int{}
	for _, m := range members {
		roles[m.ID] = m.Role
	}
	assert.Equal(t, map[string]int{"owner": 2, "mgr": 3}, roles)

	w = doRequest(t, s.router, http.MethodPost, "/ws/create", gin.H{"name": "  "}, owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserRoutes(t *testing.T) {
	s := setupServer(t, nil)
	owner := s.login("owner", false)
	s.login("client", false)
	root := s.login("root", true)

	wsID := s.createWorkspace(t, owner, gin.H{
		"name":    "Acme",
		"clients": []string{"client"},
	})

	t.Run("list all is super admin only", func(t *testing.T) {
		w := doRequest(t, s.router, http.MethodGet, "/user/get", nil, owner)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doRequest(t, s.router, http.MethodGet, "/user/get", nil, root)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]models.User](t, w), 3)
	})

	t.Run("get many", func(t *testing.T) {
		w := doRequest(t, s.router, http.MethodPost, "/user/getMany", gin.H{"ids": []string{"client", "ghost"}}, owner)
		require.Equal(t, http.StatusOK, w.Code)
		users := decode[[]models.UserSummary](t, w)
		require.Len(t, users, 1)
		assert.Equal(t, "client", users[0].ID)
	})

	t.Run("members of workspace", func(t *testing.T) {
		w := doRequest(t, s.router, http.MethodGet, fmt.Sprintf("/user/getForWS?workspaceId=%d", wsID), nil, owner)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]models.WorkspaceMember](t, w), 2)
	})

	t.Run("role for workspace", func(t *testing.T) {
		path := fmt.Sprintf("/user/getRoleforWS?workspaceId=%d", wsID)
		w := doRequest(t, s.router, http.MethodGet, path, nil, owner)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"role":2}]`, w.Body.String())

		w = doRequest(t, s.router, http.MethodGet, path, nil, map[string]string{middleware.HeaderSessionToken: "tok-client"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"role":6}]`, w.Body.String())

		w = doRequest(t, s.router, http.MethodGet, "/user/getRoleforWS", nil, owner)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("check super admin", func(t *testing.T) {
		w := doRequest(t, s.router, http.MethodGet, "/user/checkSA", nil, root)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"value":true}`, w.Body.String())

		w = doRequest(t, s.router, http.MethodGet, "/user/checkSA", nil, owner)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"value":false}`, w.Body.String())
	})
}

func TestCORSPreflight(t *testing.T) {
	s := setupServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/tasks/get", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", middleware.HeaderSessionToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestStringIDsAccepted(t *testing.T) {
	s := setupServer(t, nil)
	manager := s.login("mgr", false)
	s.login("client", false)
	client := map[string]string{middleware.HeaderSessionToken: "tok-client"}
	wsID := s.createWorkspace(t, manager, gin.H{"name": "Acme", "clients": []string{"client"}})

	// the create page forwards the workspace id from its route params
	w := doRequest(t, s.router, http.MethodPost, "/tasks/create", gin.H{
		"name":        "From route params",
		"workspaceId": fmt.Sprint(wsID),
		"category":    "POSTS",
	}, manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[taskEnvelope](t, w)
	assert.Equal(t, wsID, created.Task.WorkspaceID)

	taskID := fmt.Sprint(created.TaskID)
	w = doRequest(t, s.router, http.MethodPost, "/tasks/addComment", gin.H{"taskId": taskID, "comment": "ok"}, client)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, s.router, http.MethodPost, "/tasks/changeClientStatus", gin.H{"taskId": taskID, "status": "APPROVED"}, client)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ClientStatusApproved, decode[taskEnvelope](t, w).Task.ClientStatus)

	tests := []struct {
		name string
		body gin.H
	}{
		{"non numeric", gin.H{"name": "x", "workspaceId": "abc", "category": "POSTS"}},
		{"missing", gin.H{"name": "x", "category": "POSTS"}},
		{"zero", gin.H{"name": "x", "workspaceId": "0", "category": "POSTS"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s.router, http.MethodPost, "/tasks/create", tt.body, manager)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestEditFormEcho(t *testing.T) {
	s := setupServer(t, nil)
	manager := s.login("mgr", false)
	s.login("client", false)
	client := map[string]string{middleware.HeaderSessionToken: "tok-client"}
	wsID := s.createWorkspace(t, manager, gin.H{"name": "Acme", "clients": []string{"client"}})

	w := doRequest(t, s.router, http.MethodPost, "/tasks/create", gin.H{
		"name": "Teaser", "workspaceId": wsID, "category": "SHORTS",
	}, manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[taskEnvelope](t, w).Task
	path := fmt.Sprintf("/tasks/updateTask?id=%d", task.ID)

	form := func(name, status, clientStatus string) gin.H {
		return gin.H{
			"name":         name,
			"priority":     task.Priority,
			"category":     task.Category,
			"taskstatus":   status,
			"clientStatus": clientStatus,
			"publishDate":  nil,
			"deadlineDate": nil,
			"files":        []gin.H{},
			"captions":     []gin.H{},
			"socialLinks":  []gin.H{},
		}
	}

	w = doRequest(t, s.router, http.MethodPut, path, form("Teaser v2", "DEVELOPMENT", "CHANGES"), manager)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Teaser v2", decode[taskEnvelope](t, w).Task.Name)

	w = doRequest(t, s.router, http.MethodPut, path, form("Teaser v2", "DEVELOPMENT", "APPROVED"), client)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ClientStatusApproved, decode[taskEnvelope](t, w).Task.ClientStatus)

	w = doRequest(t, s.router, http.MethodPut, path, form("Teaser v2", "DEVELOPMENT", "DECLINED"), manager)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFlexIDUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    flexID
		wantErr bool
	}{
		{`12`, 12, false},
		{`"12"`, 12, false},
		{`null`, 0, false},
		{`"1x"`, 0, true},
		{`1.5`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got flexID
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
