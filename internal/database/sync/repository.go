// Package sync provides database operations for scan progress tracking.
//
// A single row per sync type mirrors the most recent run, so the HTTP API
// and the CLI can report progress after the process that ran the scan is gone.
//
// # Usage
//
//	repo := sync.NewRepository(db)
//	err := repo.StartScan(scanID, "/photos")
//	err = repo.UpdateProgress(10, 1, 120)
//	err = repo.CompleteScan(true, "")
package sync

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/lightbox/internal/entities"
)

// StaleAfter is how long a running scan may go without an update before it
// is treated as interrupted.
const StaleAfter = 10 * time.Minute

// Repository handles all sync progress database operations.
type Repository struct {
	db       *gorm.DB
	syncType entities.SyncType
}

// NewRepository creates a new sync repository for library scans.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, syncType: entities.SyncTypeScan}
}

// NewRepositoryWithType creates a sync repository for a specific sync type.
func NewRepositoryWithType(db *gorm.DB, syncType entities.SyncType) *Repository {
	return &Repository{db: db, syncType: syncType}
}

// GetProgress retrieves the progress row for the configured sync type.
func (r *Repository) GetProgress() (*entities.SyncProgress, error) {
	var progress entities.SyncProgress
	err := r.db.Where("sync_type = ?", r.syncType).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// StartScan creates or resets the progress row for a new scan.
func (r *Repository) StartScan(scanID, rootPath string) error {
	var progress entities.SyncProgress
	result := r.db.Where("sync_type = ?", r.syncType).First(&progress)

	now := time.Now()
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		progress = entities.SyncProgress{
			SyncType:  r.syncType,
			ScanID:    scanID,
			RootPath:  rootPath,
			Status:    entities.SyncStatusRunning,
			StartedAt: now,
			UpdatedAt: now,
		}
		return r.db.Create(&progress).Error
	} else if result.Error != nil {
		return result.Error
	}

	// Reset existing record
	progress.ScanID = scanID
	progress.RootPath = rootPath
	progress.Status = entities.SyncStatusRunning
	progress.TotalItems = 0
	progress.Processed = 0
	progress.Failed = 0
	progress.Error = ""
	progress.StartedAt = now
	progress.UpdatedAt = now
	progress.CompletedAt = nil

	return r.db.Save(&progress).Error
}

// UpdateProgress records the latest counters of the running scan.
func (r *Repository) UpdateProgress(processed, failed, total int) error {
	return r.db.Model(&entities.SyncProgress{}).
		Where("sync_type = ?", r.syncType).
		Updates(map[string]any{
			"processed":   processed,
			"failed":      failed,
			"total_items": total,
			"updated_at":  time.Now(),
		}).Error
}

// CompleteScan marks the scan as completed or failed.
func (r *Repository) CompleteScan(succeeded bool, errorMsg string) error {
	now := time.Now()
	status := entities.SyncStatusCompleted
	if !succeeded {
		status = entities.SyncStatusFailed
	}

	updates := map[string]any{
		"status":       status,
		"updated_at":   now,
		"completed_at": now,
	}
	if errorMsg != "" {
		updates["error"] = errorMsg
	}
	return r.db.Model(&entities.SyncProgress{}).
		Where("sync_type = ?", r.syncType).
		Updates(updates).Error
}

// IsScanRunning checks if a scan is currently in progress.
// A running row not updated within StaleAfter is marked failed.
func (r *Repository) IsScanRunning() (bool, error) {
	var progress entities.SyncProgress
	err := r.db.Where("sync_type = ? AND status = ?", r.syncType, entities.SyncStatusRunning).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if progress.UpdatedAt.Before(time.Now().Add(-StaleAfter)) {
		_ = r.CompleteScan(false, "scan was interrupted")
		return false, nil
	}

	return true, nil
}
