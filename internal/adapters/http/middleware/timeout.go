package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// Timeout sets a deadline on the request context. Handlers run on the
// request goroutine and must honor ctx; when one returns after the deadline
// without writing a response, a 503 TIMEOUT envelope is written for it.
// Exact skipPaths run without a deadline.
func Timeout(timeout time.Duration, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok || timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			logging.FromContext(ctx).Warn("request timeout",
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.Duration("timeout", timeout),
			)

			dto.AbortWithErrorCode(c, dto.ErrorCodeTimeout, "request timeout exceeded")
		}
	}
}
