package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lightbox/internal/database"
)

// HealthResponse is served by GET /health. Catalog is omitted when the
// database is unavailable.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Catalog *CatalogStats     `json:"catalog,omitempty"`
}

type CatalogStats struct {
	Photos int64 `json:"photos"`
	Tags   int64 `json:"tags"`
}

type HealthController struct {
	db      *database.Database
	scans   ScanStatusProvider
	version string
}

func NewHealthController(db *database.Database, scans ScanStatusProvider, version string) *HealthController {
	return &HealthController{
		db:      db,
		scans:   scans,
		version: version,
	}
}

// Status reports database reachability, catalog size and whether a scan is
// in progress. Only a database failure makes the service unhealthy.
func (h *HealthController) Status(c *gin.Context) {
	health := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{"database": "not configured"},
	}

	if h.db != nil {
		if err := h.pingDatabase(c); err != nil {
			health.Checks["database"] = "error: " + err.Error()
			health.Status = "unhealthy"
		} else {
			health.Checks["database"] = "ok"
			if photos, tags, err := h.db.GetStats(); err == nil {
				health.Catalog = &CatalogStats{Photos: photos, Tags: tags}
			}
		}
	}

	if h.scans != nil {
		if h.scans.Status().Running {
			health.Checks["scanner"] = "running"
		} else {
			health.Checks["scanner"] = "idle"
		}
	}

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) pingDatabase(c *gin.Context) error {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request.Context())
}
