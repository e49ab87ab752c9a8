// Package photos provides database operations for photo records.
//
// # Usage
//
//	repo := photos.NewRepository(db)
//	photo, err := repo.FindByTitle(ctx, "IMG_0001")
package photos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/lightbox/internal/entities"
)

// Repository handles all photo database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new photos repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByTitle retrieves a photo by its title.
// Returns gorm.ErrRecordNotFound when no photo has that title.
func (r *Repository) FindByTitle(ctx context.Context, title string) (*entities.Photo, error) {
	var photo entities.Photo
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// FindByMasterPath retrieves a photo by its source file path.
func (r *Repository) FindByMasterPath(ctx context.Context, path string) (*entities.Photo, error) {
	var photo entities.Photo
	err := r.db.WithContext(ctx).Where("master = ?", path).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Insert creates the photo unless another row already holds its title.
// Reports whether a row was written.
func (r *Repository) Insert(ctx context.Context, photo *entities.Photo) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(photo)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByID retrieves a photo with its tags.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Photo, error) {
	var photo entities.Photo
	err := r.db.WithContext(ctx).Preload("Tags").First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// List returns photos ordered by capture time, newest first.
// A non-empty query filters by title (case-insensitive partial match).
func (r *Repository) List(ctx context.Context, query string, limit, offset int) ([]entities.Photo, error) {
	var photos []entities.Photo
	q := r.db.WithContext(ctx).Preload("Tags").Order("created_at DESC, id DESC")
	if query != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+query+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Find(&photos).Error
	return photos, err
}

// ListByTag returns photos linked to the tag with the given title.
func (r *Repository) ListByTag(ctx context.Context, tagTitle string) ([]entities.Photo, error) {
	var photos []entities.Photo
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Joins("JOIN photo_tags ON photo_tags.photo_id = photos.id").
		Joins("JOIN tags ON tags.id = photo_tags.tag_id").
		Where("tags.title = ?", tagTitle).
		Order("photos.created_at DESC").
		Find(&photos).Error
	return photos, err
}

// Count returns the number of cataloged photos matching query, as in List.
func (r *Repository) Count(ctx context.Context, query string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entities.Photo{})
	if query != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+query+"%")
	}
	err := q.Count(&count).Error
	return count, err
}
