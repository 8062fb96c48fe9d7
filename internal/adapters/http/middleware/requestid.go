package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin.Context key for the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestID returns middleware that extracts or generates a request ID.
func RequestID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderRequestID,
		ginKey:     ContextKeyRequestID,
		enrichers:  []enricher{ContextWithRequestID, logging.WithRequestID},
	})
}

// GetRequestID extracts the request ID from the gin.Context.
func GetRequestID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyRequestID)
}
