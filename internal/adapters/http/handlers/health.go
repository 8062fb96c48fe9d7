// Package handlers provides HTTP request handlers for the service.
package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// BuildInfo contains build-time information about the service.
// These values are typically injected at build time using ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo creates a BuildInfo with the Go version automatically set.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// HealthHandler serves the operational /-/ endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	gatherer  prometheus.Gatherer
}

// NewHealthHandler creates a new health handler. Metrics are served from
// gatherer, or from the prometheus default registry when it is nil.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, gatherer prometheus.Gatherer) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		gatherer:  gatherer,
	}
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness handles GET /-/live. It never checks dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness handles GET /-/ready: 503 when the slot store fails its check.
// Unreachable remote sources only degrade the report.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	})
}

// BuildInfoHandler handles GET /-/build.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler returns the Prometheus scrape handler for gatherer.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RegisterHealthRoutes registers the operational routes on rg:
//   - GET live, ready, build and metrics
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(MetricsHandler(h.gatherer)))
}

// RegisterHealthRoutesOnEngine registers the operational routes under /-/.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	h.RegisterHealthRoutes(engine.Group("/-"))
}
