package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// ContextLogger seeds the request context with logger. Apply it before the
// ID middleware so request_id and correlation_id are added on top of it.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger != nil {
			c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		}

		c.Next()
	}
}

// Logging returns middleware that logs request start and completion through
// the context logger. Operational paths under /-/ and any exact skipPaths
// are not logged.
func Logging(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if _, ok := skip[path]; ok || strings.HasPrefix(path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()

		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		ctxLogger := logging.FromContext(c.Request.Context())

		ctxLogger.Info("request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		ctxLogger.Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}
