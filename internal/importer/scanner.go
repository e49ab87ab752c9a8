package importer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// Config holds the import settings.
type Config struct {
	RawExtensions   []string
	ImageExtensions []string
	// TempDir receives previews extracted from RAW files.
	TempDir      string
	ThumbsDir    string
	Thumbs250Dir string
	// WorkExt is the extension of derivative files, without the dot.
	WorkExt     string
	Concurrency int
	// VersionsPath is excluded from every walk.
	VersionsPath string
}

// Validate checks that the configuration can drive a scan.
func (c Config) Validate() error {
	var errs []error
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if len(c.RawExtensions) == 0 && len(c.ImageExtensions) == 0 {
		errs = append(errs, errors.New("no accepted extensions configured"))
	}
	if c.ThumbsDir == "" || c.Thumbs250Dir == "" {
		errs = append(errs, errors.New("thumbnail directories must be set"))
	}
	if c.TempDir == "" {
		errs = append(errs, errors.New("temp directory must be set"))
	}
	if c.WorkExt == "" {
		errs = append(errs, errors.New("derivative extension must be set"))
	}
	return errors.Join(errs...)
}

// Result summarizes a finished scan.
type Result struct {
	ScanID     string        `json:"scan_id"`
	RootPath   string        `json:"root_path"`
	Discovered int           `json:"discovered"`
	Units      int           `json:"units"`
	Skipped    int           `json:"skipped"`
	Imported   int           `json:"imported"`
	Existing   int           `json:"existing"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

// Scanner runs library scans.
type Scanner struct {
	cfg        Config
	walker     Walker
	catalog    Catalog
	classifier *Classifier
	pipeline   *Pipeline

	newID func() string
}

// NewScanner creates a scanner. cfg must pass Validate.
func NewScanner(cfg Config, deps Deps) *Scanner {
	return &Scanner{
		cfg:        cfg,
		walker:     deps.Walker,
		catalog:    deps.Catalog,
		classifier: NewClassifier(cfg.RawExtensions, cfg.ImageExtensions),
		pipeline:   NewPipeline(cfg, deps.Renderer, deps.Metadata, deps.Catalog),
		newID:      uuid.NewString,
	}
}

// Scan imports every new photo under root. Per-unit failures are counted in
// the result; the returned error is reserved for walk and catalog lookup
// failures, which abort the scan before any unit is scheduled.
func (s *Scanner) Scan(ctx context.Context, root string, sink ProgressSink) (*Result, error) {
	start := time.Now()
	result := &Result{ScanID: s.newID(), RootPath: root}
	logger := log.With().Str("scan_id", result.ScanID).Str("root", root).Logger()

	var exclude []string
	if s.cfg.VersionsPath != "" {
		exclude = append(exclude, s.cfg.VersionsPath)
	}
	paths, err := s.walker.Walk(ctx, root, exclude)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	result.Discovered = len(paths)

	raws, images := s.classifier.Classify(paths)
	units := Pair(raws, images)

	units, skipped, err := FilterStored(ctx, s.catalog, units)
	if err != nil {
		return nil, err
	}
	result.Units = len(units)
	result.Skipped = skipped

	logger.Info().
		Int("discovered", result.Discovered).
		Int("raw", len(raws)).
		Int("images", len(images)).
		Int("new", result.Units).
		Int("already_cataloged", skipped).
		Msg("Starting import")

	acc := NewAccounter(result.ScanID, root, sink)
	acc.SetTotal(len(units))

	var imported, existing, failed atomic.Int64
	Schedule(ctx, units, s.cfg.Concurrency, func(ctx context.Context, u Unit) {
		switch s.pipeline.Run(ctx, u, acc) {
		case OutcomeImported:
			imported.Add(1)
		case OutcomeExisting:
			existing.Add(1)
		default:
			failed.Add(1)
		}
	})

	result.Imported = int(imported.Load())
	result.Existing = int(existing.Load())
	result.Failed = int(failed.Load())
	result.Duration = time.Since(start)

	logger.Info().
		Int("imported", result.Imported).
		Int("existing", result.Existing).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("Import complete")

	return result, nil
}

// Schedule runs fn for every unit with at most concurrency calls in flight
// and returns once all have finished. Dispatch follows input order. fn must
// not panic; Pipeline.Run recovers its own panics.
func Schedule(ctx context.Context, units []Unit, concurrency int, fn func(context.Context, Unit)) {
	p := pool.New().WithMaxGoroutines(max(concurrency, 1))
	for _, u := range units {
		p.Go(func() {
			fn(ctx, u)
		})
	}
	p.Wait()
}
