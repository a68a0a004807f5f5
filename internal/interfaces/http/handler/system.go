package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taponce/backend/internal/infrastructure/logger"
	"github.com/taponce/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// healthCheckTimeout bounds each dependency check
const healthCheckTimeout = 3 * time.Second

// HealthCheck checks one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler serves the health check and build info
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startedAt time.Time
	checks    map[string]HealthCheck
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(name, version string) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startedAt: time.Now(),
		checks:    make(map[string]HealthCheck),
	}
}

// AddCheck registers a dependency check under name
func (h *SystemHandler) AddCheck(name string, check HealthCheck) *SystemHandler {
	h.checks[name] = check
	return h
}

// Health handles GET /health. Any failing check answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "healthy"
	code := http.StatusOK
	body := gin.H{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed",
				zap.String("dependency", name),
				zap.Error(err),
			)
			body[name] = "error"
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		body[name] = "ok"
	}
	body["status"] = status
	body["time"] = time.Now().Format(time.RFC3339)
	c.JSON(code, body)
}

// Info handles GET /api/system/info
// @Summary      Service information
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"name":       h.name,
		"version":    h.version,
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
	}))
}
