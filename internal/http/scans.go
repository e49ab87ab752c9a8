package http

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/progress"
)

// ScansController starts scans and reports their progress.
type ScansController struct {
	status      ScanStatusProvider
	store       ProgressStore
	queue       TaskQueue
	defaultRoot string
}

func NewScansController(status ScanStatusProvider, store ProgressStore, queue TaskQueue, defaultRoot string) *ScansController {
	return &ScansController{
		status:      status,
		store:       store,
		queue:       queue,
		defaultRoot: defaultRoot,
	}
}

// ProgressResponse combines the in-process view of a scan with the
// persisted one, which survives restarts and scans run from the CLI.
type ProgressResponse struct {
	Current  *progress.Status       `json:"current,omitempty"`
	Recorded *entities.SyncProgress `json:"recorded,omitempty"`
}

// GetProgress handles GET /api/progress
func (sc *ScansController) GetProgress(c *gin.Context) {
	var resp ProgressResponse
	if sc.status != nil {
		status := sc.status.Status()
		if status.Progress.ScanID != "" || status.Running || status.FinishedAt != nil {
			resp.Current = &status
		}
	}
	if sc.store != nil {
		row, err := sc.store.GetProgress()
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			respondInternalError(c, err, "get scan progress")
			return
		default:
			resp.Recorded = row
		}
	}
	c.JSON(http.StatusOK, resp)
}

// StartScanRequest is the request body for POST /api/scans.
type StartScanRequest struct {
	// Root defaults to the configured library root.
	Root string `json:"root" form:"root"`
}

// StartScan handles POST /api/scans
// The scan runs on the task queue; poll /api/progress or /api/tasks/:id.
func (sc *ScansController) StartScan(c *gin.Context) {
	if sc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled", "tasks_disabled")
		return
	}

	var req StartScanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	root := req.Root
	if root == "" {
		root = sc.defaultRoot
	}
	if root == "" {
		respondBadRequest(c, "root is required when no library root is configured")
		return
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		respondBadRequest(c, "root is not a readable directory")
		return
	}

	id, err := sc.queue.EnqueueScan(root)
	if err != nil {
		respondInternalError(c, err, "enqueue scan")
		return
	}
	respondAccepted(c, gin.H{"task_id": id, "root": root})
}
