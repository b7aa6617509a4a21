package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/middleware"
	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/service"
)

// TaskHandler serves the /tasks routes.
//
// Why does it hold *service.TaskService and not the repositories?
//   - Every task write is several statements (task row, assignees, file
//     links) that must commit together. The service owns that transaction.
//   - The handler only translates HTTP to service calls and service
//     errors back to status codes (see respondError).
type TaskHandler struct {
	svc    *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// fileRef accepts the media objects returned by /fileupload; only the id
// is read.
type fileRef struct {
	ID flexID `json:"id"`
}

func fileIDs(refs []fileRef) []int64 {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, int64(r.ID))
	}
	return ids
}

type createTaskRequest struct {
	Name          string              `json:"name" binding:"required"`
	WorkspaceID   flexID              `json:"workspaceId" binding:"required"`
	Category      models.Category     `json:"category" binding:"required"`
	Priority      models.Priority     `json:"priority"`
	PublishDate   *time.Time          `json:"publishDate"`
	DeadlineDate  *time.Time          `json:"deadlineDate"`
	Captions      []models.Caption    `json:"captions"`
	SocialLinks   []models.SocialLink `json:"socialLinks"`
	AssignedUsers []string            `json:"assignedUsers"`
	UploadedFiles []fileRef           `json:"uploadedFiles"`
}

// Create handles POST /tasks/create
func (h *TaskHandler) Create(c *gin.Context) {
	// Step 1: Parse and validate the body. workspaceId may arrive as a
	// number or a numeric string (see flexID).
	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	// Step 2: Hand off to the service. It checks the caller's role in the
	// target workspace, inserts the task and assigns the creator plus any
	// requested users in one transaction.
	task, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), service.CreateTaskInput{
		Name:          req.Name,
		WorkspaceID:   int64(req.WorkspaceID),
		Category:      req.Category,
		Priority:      req.Priority,
		PublishDate:   req.PublishDate,
		DeadlineDate:  req.DeadlineDate,
		Captions:      req.Captions,
		SocialLinks:   req.SocialLinks,
		AssignedUsers: req.AssignedUsers,
		UploadedFiles: fileIDs(req.UploadedFiles),
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to create task")
		return
	}

	// Step 3: 201 with both the task and its id; the dashboard reads taskId
	// to navigate to the new task.
	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task, "taskId": task.ID})
}

// CreateFull handles POST /tasks/createFull (multipart/form-data). Text
// fields mirror /tasks/create; every part named "files" is uploaded.
func (h *TaskHandler) CreateFull(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "expected multipart form")
		return
	}

	in, err := createInputFromForm(form)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	uploads := make([]service.Upload, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "unreadable file "+fh.Filename)
			return
		}
		defer f.Close()
		uploads = append(uploads, service.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	task, err := h.svc.CreateFull(c.Request.Context(), middleware.CurrentUser(c), in, uploads)
	if err != nil {
		respondError(c, h.logger, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task, "taskId": task.ID})
}

func createInputFromForm(form *multipart.Form) (service.CreateTaskInput, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	in := service.CreateTaskInput{
		Name:          value("name"),
		Category:      models.Category(value("category")),
		Priority:      models.Priority(value("priority")),
		AssignedUsers: form.Value["assignedUsers"],
	}
	if raw := value("workspaceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, fmt.Errorf("invalid workspaceId")
		}
		in.WorkspaceID = id
	}
	for key, dst := range map[string]**time.Time{"publishDate": &in.PublishDate, "deadlineDate": &in.DeadlineDate} {
		raw := value(key)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return in, fmt.Errorf("invalid %s", key)
		}
		*dst = &ts
	}
	return in, nil
}

// List handles GET /tasks/get
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get handles GET /tasks/getTask?id=
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	task, err := h.svc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

type updateTaskRequest struct {
	Name          *string              `json:"name"`
	Priority      *models.Priority     `json:"priority"`
	Category      *models.Category     `json:"category"`
	PublishDate   *time.Time           `json:"publishDate"`
	DeadlineDate  *time.Time           `json:"deadlineDate"`
	TaskStatus    *models.TaskStatus   `json:"taskstatus"`
	ClientStatus  *models.ClientStatus `json:"clientStatus"`
	Captions      *[]models.Caption    `json:"captions"`
	SocialLinks   *[]models.SocialLink `json:"socialLinks"`
	AssignedUsers *[]string            `json:"assignedUsers"`
	UploadedFiles []fileRef            `json:"uploadedFiles"`
}

// Update handles PUT /tasks/updateTask?id=
//
// The edit form resubmits every field on save. Only fields whose value
// differs from the stored task count as edits for the role check, so a
// client approving a task may send the unchanged name back with it.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), id, service.UpdateTaskInput{
		Name:          req.Name,
		Priority:      req.Priority,
		Category:      req.Category,
		PublishDate:   req.PublishDate,
		DeadlineDate:  req.DeadlineDate,
		TaskStatus:    req.TaskStatus,
		ClientStatus:  req.ClientStatus,
		Captions:      req.Captions,
		SocialLinks:   req.SocialLinks,
		AssignedUsers: req.AssignedUsers,
		UploadedFiles: fileIDs(req.UploadedFiles),
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

type addCommentRequest struct {
	TaskID  flexID `json:"taskId" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// AddComment handles POST /tasks/addComment
func (h *TaskHandler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.svc.AddClientComment(c.Request.Context(), middleware.CurrentUser(c), int64(req.TaskID), req.Comment)
	if err != nil {
		respondError(c, h.logger, err, "failed to add comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

type changeClientStatusRequest struct {
	TaskID flexID              `json:"taskId" binding:"required"`
	Status models.ClientStatus `json:"status" binding:"required"`
}

// ChangeClientStatus handles POST /tasks/changeClientStatus
func (h *TaskHandler) ChangeClientStatus(c *gin.Context) {
	var req changeClientStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.svc.ChangeClientStatus(c.Request.Context(), middleware.CurrentUser(c), int64(req.TaskID), req.Status)
	if err != nil {
		respondError(c, h.logger, err, "failed to change client status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}
