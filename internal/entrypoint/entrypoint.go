package entrypoint

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
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/lightbox/internal/config"
	http_controllers "github.com/mrlokans/lightbox/internal/http"
	"github.com/mrlokans/lightbox/internal/scheduler"
	"github.com/mrlokans/lightbox/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var listenFailure error
	select {
	case listenFailure = <-listenErr:
	case <-quit:
		log.Info().Dur("timeout", timeout).Msg("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so no new scan starts mid-shutdown
	if onShutdown != nil {
		onShutdown(ctx)
	}
	if listenFailure != nil {
		return fmt.Errorf("listen: %w", listenFailure)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("Server exiting")
	return nil
}

// Run starts the server with the task queue and the rescan scheduler.
func Run(cfg *config.Config, version string) error {
	log.Info().Str("version", version).Msg("Starting lightbox")

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	routerCfg := http_controllers.RouterConfig{
		Database:    app.DB,
		Version:     version,
		Photos:      app.Photos,
		Tags:        app.Tags,
		ScanStatus:  app.Scans,
		Progress:    app.Progress,
		LibraryRoot: cfg.Library.Root,
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var rescans *scheduler.RescanScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewScanLibraryQueue(app.Scans),
			tasks.NewCleanupOrphanTagsQueue(app.Tags),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		routerCfg.TaskQueue = taskClient

		if cfg.Rescan.Enabled {
			if cfg.Library.Root == "" {
				log.Warn().Msg("Rescan scheduler disabled: no library root configured")
			} else {
				rescans = scheduler.NewRescanScheduler(taskClient, cfg.Library.Root, cfg.Rescan.Schedule)
				if err := rescans.Start(); err != nil {
					return err
				}
			}
		}
	} else {
		log.Warn().Msg("Task queue disabled: scans can only be started from the CLI")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if rescans != nil {
			rescans.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, onShutdown)
}
