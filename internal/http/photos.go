package http

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PhotosController serves the photo catalog.
type PhotosController struct {
	store PhotoStore
}

func NewPhotosController(store PhotoStore) *PhotosController {
	return &PhotosController{store: store}
}

// ListPhotos returns photos, newest first.
// GET /api/photos?q=&tag=&limit=&offset=
func (pc *PhotosController) ListPhotos(c *gin.Context) {
	ctx := c.Request.Context()

	if tag := c.Query("tag"); tag != "" {
		photos, err := pc.store.ListByTag(ctx, tag)
		if err != nil {
			respondInternalError(c, err, "list photos by tag")
			return
		}
		c.JSON(http.StatusOK, PaginatedResponse{
			Data:  photos,
			Total: int64(len(photos)),
			Limit: len(photos),
		})
		return
	}

	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}
	query := c.Query("q")

	photos, err := pc.store.List(ctx, query, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list photos")
		return
	}
	total, err := pc.store.Count(ctx, query)
	if err != nil {
		respondInternalError(c, err, "count photos")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    photos,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(photos)) < total,
	})
}

// GetPhoto returns one photo with its tags.
// GET /api/photos/:id
func (pc *PhotosController) GetPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	photo, err := pc.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "photo")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get photo")
		return
	}
	c.JSON(http.StatusOK, photo)
}

// GetThumbnail serves the bounded thumbnail, or the full-size one with
// ?size=full.
// GET /api/photos/:id/thumbnail
func (pc *PhotosController) GetThumbnail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	photo, err := pc.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "photo")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get photo")
		return
	}

	path := photo.Thumb250
	if c.Query("size") == "full" {
		path = photo.Thumb
	}
	if _, err := os.Stat(path); err != nil {
		respondNotFound(c, "thumbnail")
		return
	}
	c.File(path)
}
