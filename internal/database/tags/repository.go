// Package tags provides database operations for tag management.
//
// Tags are created lazily the first time an imported photo carries them
// and are shared across photos. Links live in the photo_tags join table.
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.FindOrCreate(ctx, "holiday")
//	err = repo.LinkToPhoto(ctx, photoID, tag.ID)
package tags

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/lightbox/internal/entities"
)

const linkTable = "photo_tags"

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByTitle retrieves a tag by exact title.
func (r *Repository) FindByTitle(ctx context.Context, title string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindOrCreate returns the tag with the given title, creating it when absent.
// Concurrent callers with the same title get the same row.
func (r *Repository) FindOrCreate(ctx context.Context, title string) (*entities.Tag, error) {
	tag := &entities.Tag{Title: title}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoNothing: true,
		}).
		Create(tag).Error
	if err != nil {
		return nil, err
	}
	return r.FindByTitle(ctx, title)
}

// LinkToPhoto associates a tag with a photo. Linking twice is a no-op.
func (r *Repository) LinkToPhoto(ctx context.Context, photoID, tagID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Table(linkTable).
		Create(map[string]any{"photo_id": photoID, "tag_id": tagID}).Error
}

// CountLinks returns how many photos carry the tag.
func (r *Repository) CountLinks(ctx context.Context, tagID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(linkTable).Where("tag_id = ?", tagID).Count(&count).Error
	return count, err
}

// ListTags returns all tags ordered by title.
func (r *Repository) ListTags(ctx context.Context) ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.WithContext(ctx).Order("title ASC").Find(&tags).Error
	return tags, err
}

// SearchTags searches tags by title (case-insensitive partial match).
func (r *Repository) SearchTags(ctx context.Context, query string) ([]entities.Tag, error) {
	var tags []entities.Tag
	searchPattern := "%" + query + "%"
	err := r.db.WithContext(ctx).Where("LOWER(title) LIKE LOWER(?)", searchPattern).Order("title ASC").Find(&tags).Error
	return tags, err
}

// DeleteOrphanTags removes all tags no photo refers to.
func (r *Repository) DeleteOrphanTags(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM photo_tags)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
