package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/lightbox/internal/database/photos"
	"github.com/mrlokans/lightbox/internal/database/tags"
	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/importer"
)

var _ importer.Catalog = (*Catalog)(nil)

// Catalog adapts the photo and tag repositories to importer.Catalog.
type Catalog struct {
	photos *photos.Repository
	tags   *tags.Repository
}

// NewCatalog creates a catalog over db.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{
		photos: photos.NewRepository(db),
		tags:   tags.NewRepository(db),
	}
}

func (c *Catalog) FindPhotoByTitle(ctx context.Context, title string) (*entities.Photo, error) {
	return notFoundIsNil(c.photos.FindByTitle(ctx, title))
}

func (c *Catalog) FindPhotoByMasterPath(ctx context.Context, path string) (*entities.Photo, error) {
	return notFoundIsNil(c.photos.FindByMasterPath(ctx, path))
}

// InsertPhoto writes photo unless the title is taken, then returns the row
// that holds the title.
func (c *Catalog) InsertPhoto(ctx context.Context, photo *entities.Photo) (*entities.Photo, bool, error) {
	created, err := c.photos.Insert(ctx, photo)
	if err != nil {
		return nil, false, err
	}
	if created {
		return photo, true, nil
	}
	stored, err := c.photos.FindByTitle(ctx, photo.Title)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func (c *Catalog) FindOrCreateTag(ctx context.Context, title string) (*entities.Tag, error) {
	return c.tags.FindOrCreate(ctx, title)
}

func (c *Catalog) LinkTagToPhoto(ctx context.Context, photoID, tagID uint) error {
	return c.tags.LinkToPhoto(ctx, photoID, tagID)
}

func notFoundIsNil(photo *entities.Photo, err error) (*entities.Photo, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return photo, err
}
