package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the base request logger.
	Logger *slog.Logger

	// ServiceName names the server spans.
	ServiceName string

	// HealthHandler serves /-/ endpoints. Optional.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves the quote and category API. Optional.
	QuoteHandler *handlers.QuoteHandler

	// SyncHandler serves the manual sync trigger. Optional.
	SyncHandler *handlers.SyncHandler

	// Timeout is the per-request deadline on /api/v1. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware order, first to last:
//  1. Context logger
//  2. Recovery
//  3. Request ID, then correlation ID
//  4. OpenTelemetry tracing, then HTTP metrics
//  5. Request logging (skips /-/)
//
// Route groups:
//   - /-/ operational endpoints, no timeout
//   - /api/v1/ quote, category and sync endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.ContextLogger(cfg.Logger),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}

	if cfg.SyncHandler != nil {
		cfg.SyncHandler.RegisterSyncRoutes(apiV1)
	}
}
