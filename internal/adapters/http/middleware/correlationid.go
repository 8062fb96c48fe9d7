package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

const (
	// HeaderCorrelationID is the header name for correlation ID.
	// A caller that triggers a sync passes one so the outbound fetches to
	// every remote source share it.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin.Context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that handles correlation ID propagation.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		ginKey:     ContextKeyCorrelationID,
		enrichers:  []enricher{ContextWithCorrelationID, logging.WithCorrelationID},
	})
}

// GetCorrelationID extracts the correlation ID from the gin.Context.
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}
