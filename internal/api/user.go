package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/middleware"
	"github.com/lalith-99/taskdeck/internal/service"
)

type UserHandler struct {
	svc    *service.UserService
	logger *zap.Logger
}

func NewUserHandler(svc *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// List handles GET /user/get
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.ListAll(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

type getManyRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// GetMany handles POST /user/getMany
func (h *UserHandler) GetMany(c *gin.Context) {
	var req getManyRequest
	if !bindJSON(c, &req) {
		return
	}
	users, err := h.svc.GetMany(c.Request.Context(), middleware.CurrentUser(c), req.IDs)
	if err != nil {
		respondError(c, h.logger, err, "failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// ForWorkspace handles GET /user/getForWS?workspaceId=
func (h *UserHandler) ForWorkspace(c *gin.Context) {
	id, ok := queryID(c, "workspaceId")
	if !ok {
		return
	}
	members, err := h.svc.ForWorkspace(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to list workspace users")
		return
	}
	c.JSON(http.StatusOK, members)
}

type roleRow struct {
	Role int `json:"role"`
}

// RoleForWorkspace handles GET /user/getRoleforWS?workspaceId=
func (h *UserHandler) RoleForWorkspace(c *gin.Context) {
	id, ok := queryID(c, "workspaceId")
	if !ok {
		return
	}
	roles, err := h.svc.RoleForWorkspace(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to fetch role")
		return
	}
	out := make([]roleRow, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleRow{Role: int(r)})
	}
	c.JSON(http.StatusOK, out)
}

// CheckSuperAdmin handles GET /user/checkSA
//
// Why a dedicated endpoint when the role is on the user row?
//   - The frontend only needs a yes/no to show admin screens. It shouldn't
//     have to know which role string means super admin.
func (h *UserHandler) CheckSuperAdmin(c *gin.Context) {
	ok, err := h.svc.IsSuperAdmin(middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to check user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": ok})
}
