package entrypoint

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/lightbox/internal/config"
	"github.com/mrlokans/lightbox/internal/database"
	"github.com/mrlokans/lightbox/internal/database/photos"
	syncrepo "github.com/mrlokans/lightbox/internal/database/sync"
	"github.com/mrlokans/lightbox/internal/database/tags"
	"github.com/mrlokans/lightbox/internal/importer"
	"github.com/mrlokans/lightbox/internal/photometa"
	"github.com/mrlokans/lightbox/internal/progress"
	"github.com/mrlokans/lightbox/internal/render"
	"github.com/mrlokans/lightbox/internal/scanlock"
	"github.com/mrlokans/lightbox/internal/services"
	"github.com/mrlokans/lightbox/internal/walker"
)

// App holds the components shared by the server and the CLI commands.
type App struct {
	Config   *config.Config
	DB       *database.Database
	Photos   *photos.Repository
	Tags     *tags.Repository
	Progress *syncrepo.Repository
	Scans    *services.ScanService
}

// NewApp validates cfg, opens the catalog and builds the scan service.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	for _, dir := range []string{cfg.TempDir, cfg.ThumbsDir, cfg.Thumbs250Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	engine := render.NewEngine()
	scanner := importer.NewScanner(cfg.ImporterConfig(), importer.Deps{
		Walker:   walker.New(),
		Renderer: engine,
		Metadata: photometa.NewReader(),
		Catalog:  database.NewCatalog(db.DB),
	})

	progressRepo := syncrepo.NewRepository(db.DB)
	scans := services.NewScanService(
		scanner,
		scanlock.New(cfg.LockPath),
		progress.NewTracker(),
		progress.NewRecorder(progressRepo),
		cfg.Library.Root,
	)

	log.Info().
		Str("database", cfg.Database.Path).
		Str("library", cfg.Library.Root).
		Int("concurrency", cfg.Concurrency).
		Msg("Catalog opened")

	return &App{
		Config:   cfg,
		DB:       db,
		Photos:   photos.NewRepository(db.DB),
		Tags:     tags.NewRepository(db.DB),
		Progress: progressRepo,
		Scans:    scans,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.DB == nil {
		return errors.New("app is not initialized")
	}
	return a.DB.Close()
}
