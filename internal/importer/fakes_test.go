package importer

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/photometa"
	"github.com/mrlokans/lightbox/internal/render"
)

type fakeWalker struct {
	paths []string
	err   error
	calls []string
}

func (w *fakeWalker) Walk(_ context.Context, root string, exclude []string) ([]string, error) {
	w.calls = append(w.calls, root)
	if w.err != nil {
		return nil, w.err
	}
	return w.paths, nil
}

type renderCall struct {
	Source render.Source
	Dest   string
	Opts   render.Options
}

type fakeRenderer struct {
	mu          sync.Mutex
	renders     []renderCall
	previews    []string
	failPreview map[string]bool
	failRender  map[string]bool
	panicOn     map[string]bool
	delay       time.Duration

	inflight    atomic.Int64
	maxInflight atomic.Int64
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		failPreview: map[string]bool{},
		failRender:  map[string]bool{},
		panicOn:     map[string]bool{},
	}
}

func (r *fakeRenderer) ExtractPreview(_ context.Context, rawPath, destPath string) (string, error) {
	r.mu.Lock()
	r.previews = append(r.previews, destPath)
	fail := r.failPreview[rawPath]
	r.mu.Unlock()

	if fail {
		return "", render.ErrNoPreview
	}
	if err := os.WriteFile(destPath, []byte("preview"), 0o644); err != nil {
		return "", err
	}
	return destPath, nil
}

func (r *fakeRenderer) RenderThumbnail(_ context.Context, src render.Source, destPath string, opts render.Options) error {
	n := r.inflight.Add(1)
	defer r.inflight.Add(-1)
	for {
		m := r.maxInflight.Load()
		if n <= m || r.maxInflight.CompareAndSwap(m, n) {
			break
		}
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}

	r.mu.Lock()
	r.renders = append(r.renders, renderCall{Source: src, Dest: destPath, Opts: opts})
	fail := r.failRender[src.Path]
	panics := r.panicOn[src.Path]
	r.mu.Unlock()

	if panics {
		panic("decoder exploded")
	}
	if fail {
		return errors.New("corrupt image")
	}
	return os.WriteFile(destPath, []byte("thumb of "+src.Path), 0o644)
}

func (r *fakeRenderer) calls() []renderCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]renderCall(nil), r.renders...)
}

type fakeMetadata struct {
	mu      sync.Mutex
	byKey   map[string]*photometa.Metadata
	fail    map[string]bool
	panicOn map[string]bool
	reads   []string
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		byKey:   map[string]*photometa.Metadata{},
		fail:    map[string]bool{},
		panicOn: map[string]bool{},
	}
}

func (m *fakeMetadata) ReadTags(_ context.Context, path string) (*photometa.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, path)
	if m.panicOn[path] {
		panic("exif parser exploded")
	}
	if m.fail[path] {
		return nil, errors.New("unreadable exif")
	}
	if md, ok := m.byKey[path]; ok {
		return md, nil
	}
	return &photometa.Metadata{}, nil
}

// memCatalog is an in-memory Catalog.
type memCatalog struct {
	mu      sync.Mutex
	nextID  uint
	photos  map[string]*entities.Photo // by title
	tags    map[string]*entities.Tag
	links   map[[2]uint]bool
	lookErr error
	insErr  error
	// loseRace makes InsertPhoto behave as if another worker inserted the
	// same title between lookup and insert.
	loseRace bool
	inserts  int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		photos: map[string]*entities.Photo{},
		tags:   map[string]*entities.Tag{},
		links:  map[[2]uint]bool{},
	}
}

func (c *memCatalog) FindPhotoByTitle(_ context.Context, title string) (*entities.Photo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lookErr != nil {
		return nil, c.lookErr
	}
	return c.photos[title], nil
}

func (c *memCatalog) FindPhotoByMasterPath(_ context.Context, path string) (*entities.Photo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lookErr != nil {
		return nil, c.lookErr
	}
	for _, p := range c.photos {
		if p.Master == path {
			return p, nil
		}
	}
	return nil, nil
}

func (c *memCatalog) InsertPhoto(_ context.Context, photo *entities.Photo) (*entities.Photo, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.insErr != nil {
		return nil, false, c.insErr
	}
	if c.loseRace {
		winner := *photo
		winner.Master = "/elsewhere/" + photo.Title
		c.nextID++
		winner.ID = c.nextID
		c.photos[photo.Title] = &winner
		return &winner, false, nil
	}
	if existing, ok := c.photos[photo.Title]; ok {
		return existing, false, nil
	}
	c.nextID++
	photo.ID = c.nextID
	c.photos[photo.Title] = photo
	c.inserts++
	return photo, true, nil
}

func (c *memCatalog) FindOrCreateTag(_ context.Context, title string) (*entities.Tag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tag, ok := c.tags[title]; ok {
		return tag, nil
	}
	c.nextID++
	tag := &entities.Tag{ID: c.nextID, Title: title}
	c.tags[title] = tag
	return tag, nil
}

func (c *memCatalog) LinkTagToPhoto(_ context.Context, photoID, tagID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[[2]uint{photoID, tagID}] = true
	return nil
}

func (c *memCatalog) photo(title string) *entities.Photo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.photos[title]
}

func (c *memCatalog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.photos)
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (s *recordingSink) Notify(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
}

func (s *recordingSink) all() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Snapshot(nil), s.snapshots...)
}

func (s *recordingSink) last() Snapshot {
	all := s.all()
	if len(all) == 0 {
		return Snapshot{}
	}
	best := all[0]
	for _, snap := range all {
		if snap.Processed > best.Processed {
			best = snap
		}
	}
	return best
}
