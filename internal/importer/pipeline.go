package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/photometa"
	"github.com/mrlokans/lightbox/internal/render"
)

const (
	// BoundedThumbSize is the bounding box of the small thumbnail.
	BoundedThumbSize = 250
	// BoundedThumbQuality is the encoder quality of the small thumbnail.
	BoundedThumbQuality = 100

	dateLayout = "2006-01-02"
)

// Outcome is the result of importing one unit.
type Outcome int

const (
	OutcomeImported Outcome = iota
	// OutcomeExisting means a photo with the same title was already cataloged.
	OutcomeExisting
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeImported:
		return "imported"
	case OutcomeExisting:
		return "existing"
	default:
		return "failed"
	}
}

// Pipeline imports single units. It is safe for concurrent use.
type Pipeline struct {
	cfg      Config
	renderer Renderer
	metadata MetadataReader
	catalog  Catalog

	birthTime func(path string) (time.Time, error)
}

// NewPipeline creates a pipeline writing derivatives to the directories in cfg.
func NewPipeline(cfg Config, renderer Renderer, metadata MetadataReader, catalog Catalog) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		renderer:  renderer,
		metadata:  metadata,
		catalog:   catalog,
		birthTime: photometa.BirthTime,
	}
}

// Run imports u and records the result on acc. Errors and panics are
// contained: they are logged with the unit's identity and counted as a
// failed, processed unit.
func (p *Pipeline) Run(ctx context.Context, u Unit, acc *Accounter) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("path", u.Path).
				Interface("panic", r).
				Msg("Import panicked")
			outcome = OutcomeFailed
		}
		acc.Increment(outcome == OutcomeFailed)
	}()

	var err error
	if u.IsRaw {
		outcome, err = p.importRaw(ctx, u)
	} else {
		outcome, err = p.importImage(ctx, u)
	}
	if err != nil {
		log.Warn().
			Err(err).
			Str("path", u.Path).
			Str("name", u.Name).
			Bool("raw", u.IsRaw).
			Msg("Failed to import photo")
		return OutcomeFailed
	}

	log.Debug().
		Str("path", u.Path).
		Str("outcome", outcome.String()).
		Msg("Photo processed")
	return outcome
}

// FullThumbPath is where the full-size thumbnail of a RAW unit is written.
func (p *Pipeline) FullThumbPath(name string) string {
	return filepath.Join(p.cfg.ThumbsDir, name+".thumb."+p.cfg.WorkExt)
}

// BoundedThumbPath is where the 250px thumbnail of any unit is written.
func (p *Pipeline) BoundedThumbPath(name string) string {
	return filepath.Join(p.cfg.Thumbs250Dir, name+"."+p.cfg.WorkExt)
}

func (p *Pipeline) importRaw(ctx context.Context, u Unit) (Outcome, error) {
	if done, err := p.alreadyCataloged(ctx, u); done || err != nil {
		return OutcomeExisting, err
	}

	source := u.CompanionPath
	if !u.HasCompanion() {
		preview, cleanup, err := p.extractPreview(ctx, u)
		if err != nil {
			return OutcomeFailed, err
		}
		defer cleanup()
		source = preview
	}

	staged := newDerivatives()
	defer staged.discard()

	thumb := p.FullThumbPath(u.Name)
	stagedThumb, err := staged.stage(u, thumb)
	if err != nil {
		return OutcomeFailed, stageErr(u, StageThumbnail, ErrStorage, err)
	}
	err = p.renderer.RenderThumbnail(ctx, render.Source{Path: source}, stagedThumb, render.Options{
		Quality:    render.DefaultQuality,
		AutoOrient: true,
	})
	if err != nil {
		return OutcomeFailed, stageErr(u, StageThumbnail, ErrDecode, err)
	}

	thumb250 := p.BoundedThumbPath(u.Name)
	stagedThumb250, err := staged.stage(u, thumb250)
	if err != nil {
		return OutcomeFailed, stageErr(u, StageResize, ErrStorage, err)
	}
	if err := p.renderBounded(ctx, stagedThumb, stagedThumb250); err != nil {
		return OutcomeFailed, stageErr(u, StageResize, ErrDecode, err)
	}

	md, err := p.metadata.ReadTags(ctx, u.Path)
	if err != nil {
		return OutcomeFailed, stageErr(u, StageMetadata, ErrMetadata, err)
	}

	return p.persist(ctx, u, md, thumb, thumb250, staged)
}

func (p *Pipeline) importImage(ctx context.Context, u Unit) (Outcome, error) {
	if done, err := p.alreadyCataloged(ctx, u); done || err != nil {
		return OutcomeExisting, err
	}

	staged := newDerivatives()
	defer staged.discard()

	thumb250 := p.BoundedThumbPath(u.Name)
	stagedThumb250, err := staged.stage(u, thumb250)
	if err != nil {
		return OutcomeFailed, stageErr(u, StageResize, ErrStorage, err)
	}

	var md *photometa.Metadata
	g, gctx := errgroup.WithContext(ctx)
	g.Go(contain(u, StageResize, ErrDecode, func() error {
		if err := p.renderBounded(gctx, u.Path, stagedThumb250); err != nil {
			return stageErr(u, StageResize, ErrDecode, err)
		}
		return nil
	}))
	g.Go(contain(u, StageMetadata, ErrMetadata, func() error {
		var err error
		md, err = p.metadata.ReadTags(gctx, u.Path)
		if err != nil {
			return stageErr(u, StageMetadata, ErrMetadata, err)
		}
		return nil
	}))
	if err := g.Wait(); err != nil {
		return OutcomeFailed, err
	}

	return p.persist(ctx, u, md, u.Path, thumb250, staged)
}

// contain runs fn on an errgroup goroutine, where Run's recover cannot reach,
// and reports a panic as a failure of the given stage.
func contain(u Unit, stage Stage, kind error, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = stageErr(u, stage, kind, fmt.Errorf("panic: %v", r))
			}
		}()
		return fn()
	}
}

// alreadyCataloged reports whether a photo with u's title exists, before any
// derivative is rendered over that photo's thumbnails.
func (p *Pipeline) alreadyCataloged(ctx context.Context, u Unit) (bool, error) {
	existing, err := p.catalog.FindPhotoByTitle(ctx, u.Name)
	if err != nil {
		return false, stageErr(u, StagePersist, ErrStorage, err)
	}
	if existing == nil {
		return false, nil
	}
	log.Debug().
		Str("path", u.Path).
		Str("title", u.Name).
		Str("existing_master", existing.Master).
		Msg("Photo with this title already cataloged, skipping")
	return true, nil
}

func (p *Pipeline) extractPreview(ctx context.Context, u Unit) (string, func(), error) {
	if err := os.MkdirAll(p.cfg.TempDir, 0o755); err != nil {
		return "", nil, stageErr(u, StagePreview, ErrDecode, err)
	}
	tmp, err := os.CreateTemp(p.cfg.TempDir, u.Name+"-*.jpg")
	if err != nil {
		return "", nil, stageErr(u, StagePreview, ErrDecode, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	cleanup := func() { os.Remove(tmpPath) }
	written, err := p.renderer.ExtractPreview(ctx, u.Path, tmpPath)
	if err != nil {
		cleanup()
		return "", nil, stageErr(u, StagePreview, ErrDecode, err)
	}
	if written != tmpPath {
		cleanup = func() {
			os.Remove(tmpPath)
			os.Remove(written)
		}
	}
	return written, cleanup, nil
}

func (p *Pipeline) renderBounded(ctx context.Context, src, dest string) error {
	return p.renderer.RenderThumbnail(ctx, render.Source{Path: src}, dest, render.Options{
		MaxWidth:   BoundedThumbSize,
		MaxHeight:  BoundedThumbSize,
		Quality:    BoundedThumbQuality,
		AutoOrient: true,
	})
}

func (p *Pipeline) persist(ctx context.Context, u Unit, md *photometa.Metadata, thumb, thumb250 string, staged *derivatives) (Outcome, error) {
	if md == nil {
		md = &photometa.Metadata{}
	}

	createdAt, err := p.captureTime(u, md)
	if err != nil {
		return OutcomeFailed, stageErr(u, StageMetadata, ErrMetadata, err)
	}

	photo := &entities.Photo{
		Title:        u.Name,
		Extension:    extension(u.Path),
		Orientation:  md.Orientation,
		Date:         createdAt.Format(dateLayout),
		CreatedAt:    createdAt,
		ExposureTime: md.ExposureTime,
		ISO:          md.ISO,
		Aperture:     md.FNumber,
		FocalLength:  md.FocalLength,
		Master:       u.Path,
		Thumb:        thumb,
		Thumb250:     thumb250,
	}

	stored, created, err := p.catalog.InsertPhoto(ctx, photo)
	if err != nil {
		return OutcomeFailed, stageErr(u, StagePersist, ErrStorage, err)
	}
	if !created {
		// Lost the title to a concurrent import; its thumbnails stay.
		return OutcomeExisting, nil
	}
	if err := staged.promote(); err != nil {
		return OutcomeFailed, stageErr(u, StagePersist, ErrStorage, err)
	}

	if err := p.attachTags(ctx, stored, md.Keywords); err != nil {
		return OutcomeFailed, stageErr(u, StageTags, ErrStorage, err)
	}
	return OutcomeImported, nil
}

func (p *Pipeline) attachTags(ctx context.Context, photo *entities.Photo, keywords []string) error {
	for _, keyword := range keywords {
		tag, err := p.catalog.FindOrCreateTag(ctx, keyword)
		if err != nil {
			return fmt.Errorf("tag %q: %w", keyword, err)
		}
		if err := p.catalog.LinkTagToPhoto(ctx, photo.ID, tag.ID); err != nil {
			return fmt.Errorf("link tag %q: %w", keyword, err)
		}
	}
	return nil
}

// captureTime prefers the metadata timestamp and falls back to the file's
// creation time.
func (p *Pipeline) captureTime(u Unit, md *photometa.Metadata) (time.Time, error) {
	if md.CreatedAt != nil && !md.CreatedAt.IsZero() {
		return *md.CreatedAt, nil
	}
	t, err := p.birthTime(u.Path)
	if err != nil {
		return time.Time{}, errors.Join(errors.New("no capture time"), err)
	}
	return t, nil
}

func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
