package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/middleware"
	"github.com/lalith-99/taskdeck/internal/service"
)

type MediaHandler struct {
	svc    *service.MediaService
	logger *zap.Logger
}

func NewMediaHandler(svc *service.MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, logger: logger}
}

type registerMediaRequest struct {
	FileURL      string `json:"fileUrl" binding:"required"`
	OriginalName string `json:"originalName" binding:"required"`
	ContentType  string `json:"contentType" binding:"required"`
}

// Register handles POST /fileupload
func (h *MediaHandler) Register(c *gin.Context) {
	var req registerMediaRequest
	if !bindJSON(c, &req) {
		return
	}
	media, err := h.svc.Register(c.Request.Context(), middleware.CurrentUser(c), req.FileURL, req.OriginalName, req.ContentType)
	if err != nil {
		respondError(c, h.logger, err, "failed to register file")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "media": media})
}

// Presign handles GET /presigned?fileName=&contentType=
//
// Why presign instead of streaming the file through this server?
//   - Media can be large videos. A presigned PUT lets the browser send the
//     bytes straight to the bucket, so the API never buffers them.
//   - The signature binds the content type, so the browser can't upload
//     something other than what it asked for.
//
// The browser then calls POST /fileupload with the returned fileUrl.
func (h *MediaHandler) Presign(c *gin.Context) {
	out, err := h.svc.Presign(c.Request.Context(), middleware.CurrentUser(c), c.Query("fileName"), c.Query("contentType"))
	if err != nil {
		respondError(c, h.logger, err, "failed to create upload url")
		return
	}
	c.JSON(http.StatusOK, out)
}
