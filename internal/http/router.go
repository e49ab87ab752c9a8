package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.ScanStatus, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	scans := NewScansController(cfg.ScanStatus, cfg.Progress, cfg.TaskQueue, cfg.LibraryRoot)
	api.GET("/progress", scans.GetProgress)
	api.POST("/scans", scans.StartScan)

	if cfg.Photos != nil {
		photos := NewPhotosController(cfg.Photos)
		api.GET("/photos", photos.ListPhotos)
		api.GET("/photos/:id", photos.GetPhoto)
		api.GET("/photos/:id/thumbnail", photos.GetThumbnail)
	}

	if cfg.Tags != nil {
		tags := NewTagsController(cfg.Tags, cfg.TaskQueue)
		api.GET("/tags", tags.GetAllTags)
		api.POST("/tags/cleanup", tags.CleanupOrphanTags)
	}

	if cfg.TaskQueue != nil {
		taskCtrl := NewTasksController(cfg.TaskQueue)
		api.GET("/tasks/:id", taskCtrl.GetTaskStatus)
	}

	return router
}
