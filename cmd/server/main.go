package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/access"
	"github.com/lalith-99/taskdeck/internal/api"
	"github.com/lalith-99/taskdeck/internal/auth"
	"github.com/lalith-99/taskdeck/internal/config"
	"github.com/lalith-99/taskdeck/internal/db"
	"github.com/lalith-99/taskdeck/internal/observ"
	"github.com/lalith-99/taskdeck/internal/repository/postgres"
	"github.com/lalith-99/taskdeck/internal/service"
	"github.com/lalith-99/taskdeck/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 1. Config and logger
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ---------------------------------------------------------------
	// 2. Postgres and migrations
	// ---------------------------------------------------------------
	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	store := postgres.NewStore(database.Pool())
	repos := store.Repos()

	// ---------------------------------------------------------------
	// 3. Session resolution
	// ---------------------------------------------------------------
	var resolver auth.Resolver
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		resolver = auth.NewJWTResolver(cfg.JWTSecret, repos.Users, logger)
	default:
		resolver = auth.NewSessionResolver(repos.Sessions)
	}

	// ---------------------------------------------------------------
	// 4. Object storage
	// ---------------------------------------------------------------
	objects, err := storage.NewS3(ctx, storage.Options{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		BaseEndpoint:    cfg.S3BaseEndpoint,
		PublicBaseURL:   cfg.S3PublicBaseURL,
		PresignTTL:      cfg.PresignTTL,
	})
	if err != nil {
		return fmt.Errorf("create s3 client: %w", err)
	}

	// ---------------------------------------------------------------
	// 5. Services and routes
	// ---------------------------------------------------------------
	policy := access.Policy{AllowAssigneeCreate: cfg.AllowAssigneeCreate}

	workspaces := service.NewWorkspaceService(repos, store, policy, logger)
	services := api.Services{
		Tasks:      service.NewTaskService(repos, store, policy, objects, logger),
		Workspaces: workspaces,
		Users:      service.NewUserService(repos, workspaces, policy),
		Media:      service.NewMediaService(repos.Media, objects, logger),
	}

	router := api.NewRouter(services, api.RouterOptions{
		Resolver:           resolver,
		Logger:             logger,
		CORSOrigins:        cfg.CORSOrigins,
		Health:             database.Health,
		MaxMultipartMemory: cfg.MaxUploadBytes,
	})

	// ---------------------------------------------------------------
	// 6. Serve until SIGINT/SIGTERM
	// ---------------------------------------------------------------
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting taskdeck",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("auth_mode", cfg.AuthMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
