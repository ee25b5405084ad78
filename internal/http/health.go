package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/music-library/internal/catalog"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string                  `json:"status"`
	Time    string                  `json:"time"`
	Version string                  `json:"version,omitempty"`
	Checks  map[string]string       `json:"checks"`
	Catalog catalog.MetricsSnapshot `json:"catalog"`
}

type HealthController struct {
	db      Pinger
	metrics MetricsProvider
	version string
}

func NewHealthController(db Pinger, metrics MetricsProvider, version string) *HealthController {
	return &HealthController{
		db:      db,
		metrics: metrics,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
		status = "unhealthy"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}
	if h.metrics != nil {
		health.Catalog = h.metrics.Metrics().Snapshot()
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

// Ping handles GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
