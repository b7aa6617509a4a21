package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/auth"
	"github.com/lalith-99/taskdeck/internal/middleware"
	"github.com/lalith-99/taskdeck/internal/observ"
	"github.com/lalith-99/taskdeck/internal/service"
)

type Services struct {
	Tasks      *service.TaskService
	Workspaces *service.WorkspaceService
	Users      *service.UserService
	Media      *service.MediaService
}

type RouterOptions struct {
	Resolver    auth.Resolver
	Logger      *zap.Logger
	CORSOrigins []string
	// Health reports whether dependencies are reachable. nil means always
	// healthy.
	Health func(ctx context.Context) error
	// MaxMultipartMemory caps in-memory buffering for /tasks/createFull.
	MaxMultipartMemory int64
}

func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	logger := opts.Logger

	r := gin.New()
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	r.Use(observ.RequestLogger(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			middleware.HeaderSessionToken,
			observ.HeaderRequestID,
		},
		ExposeHeaders:    []string{observ.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedExtensions(
			[]string{".png", ".gif", ".jpeg", ".jpg", ".ico", ".svg", ".pdf", ".mp4"},
		),
	))

	r.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(c.Request.Context()); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := r.Group("/")
	authed.Use(middleware.Auth(opts.Resolver, logger))

	tasks := NewTaskHandler(svc.Tasks, logger)
	authed.POST("/tasks/create", tasks.Create)
	authed.POST("/tasks/createFull", tasks.CreateFull)
	authed.GET("/tasks/get", tasks.List)
	authed.GET("/tasks/getTask", tasks.Get)
	authed.PUT("/tasks/updateTask", tasks.Update)
	authed.POST("/tasks/addComment", tasks.AddComment)
	authed.POST("/tasks/changeClientStatus", tasks.ChangeClientStatus)

	media := NewMediaHandler(svc.Media, logger)
	authed.POST("/fileupload", media.Register)
	authed.GET("/presigned", media.Presign)

	workspaces := NewWorkspaceHandler(svc.Workspaces, logger)
	authed.POST("/ws/create", workspaces.Create)
	authed.GET("/ws/get", workspaces.Get)
	authed.GET("/ws/getAll", workspaces.List)
	authed.GET("/ws/getTasks", workspaces.Tasks)
	authed.GET("/ws/getAccessUsers", workspaces.AccessUsers)

	users := NewUserHandler(svc.Users, logger)
	authed.GET("/user/get", users.List)
	authed.POST("/user/getMany", users.GetMany)
	authed.GET("/user/getForWS", users.ForWorkspace)
	authed.GET("/user/getRoleforWS", users.RoleForWorkspace)
	authed.GET("/user/checkSA", users.CheckSuperAdmin)

	return r
}
