package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/middleware"
	"github.com/lalith-99/taskdeck/internal/models"
	"github.com/lalith-99/taskdeck/internal/service"
)

type WorkspaceHandler struct {
	svc    *service.WorkspaceService
	logger *zap.Logger
}

func NewWorkspaceHandler(svc *service.WorkspaceService, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc, logger: logger}
}

// createWorkspaceRequest takes role buckets either nested under "roles"
// or at the top level; both are merged.
type createWorkspaceRequest struct {
	Name         string               `json:"name" binding:"required"`
	Image        *string              `json:"image"`
	Information  models.WorkspaceInfo `json:"information"`
	Roles        map[string][]string  `json:"roles"`
	Admins       []string             `json:"admins"`
	Managers     []string             `json:"managers"`
	ContentHeads []string             `json:"contentHeads"`
	Assignees    []string             `json:"assignees"`
	Clients      []string             `json:"clients"`
}

func (r createWorkspaceRequest) buckets() map[access.Bucket][]string {
	out := make(map[access.Bucket][]string, len(r.Roles)+5)
	for name, ids := range r.Roles {
		out[access.Bucket(name)] = append(out[access.Bucket(name)], ids...)
	}
	top := map[access.Bucket][]string{
		access.BucketAdmins:       r.Admins,
		access.BucketManagers:     r.Managers,
		access.BucketContentHeads: r.ContentHeads,
		access.BucketAssignees:    r.Assignees,
		access.BucketClients:      r.Clients,
	}
	for b, ids := range top {
		if len(ids) > 0 {
			out[b] = append(out[b], ids...)
		}
	}
	return out
}

// Create handles POST /ws/create
//
// The caller becomes the workspace owner. Every user listed in a role
// bucket gets a membership row in the same transaction.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	// Step 1: Parse the body. Buckets may be nested or top-level.
	var req createWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	// Step 2: Create the workspace and its memberships.
	id, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), service.CreateWorkspaceInput{
		Name:        req.Name,
		Image:       req.Image,
		Information: req.Information,
		Roles:       req.buckets(),
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to create workspace")
		return
	}

	// Step 3: Return only the new id. The client reloads the list.
	c.JSON(http.StatusCreated, gin.H{"workspaceId": id, "message": "Workspace created"})
}

// Get handles GET /ws/get?workspaceId=
func (h *WorkspaceHandler) Get(c *gin.Context) {
	id, ok := queryID(c, "workspaceId")
	if !ok {
		return
	}
	list, err := h.svc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to fetch workspace")
		return
	}
	c.JSON(http.StatusOK, list)
}

// List handles GET /ws/getAll
func (h *WorkspaceHandler) List(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to list workspaces")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Tasks handles GET /ws/getTasks?workspaceId=
func (h *WorkspaceHandler) Tasks(c *gin.Context) {
	id, ok := queryID(c, "workspaceId")
	if !ok {
		return
	}
	out, err := h.svc.Tasks(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to fetch workspace tasks")
		return
	}
	c.JSON(http.StatusOK, out)
}

// AccessUsers handles GET /ws/getAccessUsers?workspaceId=
func (h *WorkspaceHandler) AccessUsers(c *gin.Context) {
	id, ok := queryID(c, "workspaceId")
	if !ok {
		return
	}
	members, err := h.svc.AccessUsers(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to list workspace users")
		return
	}
	c.JSON(http.StatusOK, members)
}
