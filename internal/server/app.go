// Package server wires configuration, storage and services into the HTTP
// server and runs it until the process is told to stop.
package server

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
	"github.com/vrdaw-dev/vrdaw/db"
	"github.com/vrdaw-dev/vrdaw/internal/auth"
	"github.com/vrdaw-dev/vrdaw/internal/config"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/audiofiles"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/collaborations"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/projects"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/users"
	"github.com/vrdaw-dev/vrdaw/internal/router"
	"github.com/vrdaw-dev/vrdaw/internal/services"
	"github.com/vrdaw-dev/vrdaw/internal/storage"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *gorm.DB
	engine   *gin.Engine
	notifier *services.WebhookNotifier
}

// NewApp opens and migrates the database, builds the blob store and the
// services, and mounts the router.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	gdb, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := db.Migrate(gdb); err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	notifier := newNotifier(cfg, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       gdb,
		engine:   NewEngine(cfg, logger, gdb, blobs, notifier),
		notifier: notifier,
	}, nil
}

// newNotifier returns nil when no webhook is configured.
func newNotifier(cfg *config.Config, logger logging.Logger) *services.WebhookNotifier {
	if cfg.DiscordWebhookURL == "" && cfg.SlackWebhookURL == "" {
		return nil
	}
	return services.NewWebhookNotifier(cfg.DiscordWebhookURL, cfg.SlackWebhookURL, nil, logger)
}

// NewEngine builds the HTTP handler over an already opened database.
// notifier may be nil.
func NewEngine(cfg *config.Config, logger logging.Logger, gdb *gorm.DB, blobs storage.BlobStore, notifier *services.WebhookNotifier) *gin.Engine {
	issuer := auth.NewIssuer(cfg.JWTSecret, auth.AccessTokenTTL)
	hub := realtime.NewHub()

	var events services.EventPublisher = hub
	if notifier != nil {
		events = services.Publishers{hub, notifier}
	}

	userRepo := users.NewGormRepository(gdb)

	userService := services.NewUserService(userRepo, auth.NewPasswordHasher(cfg.BcryptCost), issuer, logger)
	projectService := services.NewProjectService(projects.NewGormRepository(gdb))
	fileService := services.NewFileService(projectService, audiofiles.NewGormRepository(gdb), blobs, events, logger)
	collabService := services.NewCollaborationService(projectService, userRepo, collaborations.NewGormRepository(gdb), events, logger)

	return router.NewRouter(router.Deps{
		Config:         cfg,
		Logger:         logger,
		Issuer:         issuer,
		Hub:            hub,
		Users:          userService,
		Projects:       projectService,
		Files:          fileService,
		Collaborations: collabService,
	})
}

func newBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return storage.NewLocalStore(cfg.UploadDir)
	}
}

// Run serves HTTP until ctx is canceled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              app.config.Addr(),
		Handler:           app.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		app.logger.Info(ctx, "starting server", "addr", srv.Addr,
			"db_driver", app.config.DatabaseDriver, "blob_backend", app.config.BlobBackend)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if app.notifier != nil {
		app.notifier.Wait()
	}

	if sqlDB, err := app.db.DB(); err == nil {
		sqlDB.Close()
	}

	return nil
}
