// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import "context"

// idKey keys the inbound request identifiers carried into sync cycles.
type idKey struct{ name string }

var (
	requestIDKey     = idKey{"request_id"}
	correlationIDKey = idKey{"correlation_id"}
)

// RequestIDFromContext returns the inbound request ID, or "" when none was
// stamped. A manual sync passes it to every remote source fetch as
// X-Request-ID so the upstream log lines up with ours.
func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation ID that remote source
// fetches forward as X-Correlation-ID.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationIDKey)
}

// ContextWithRequestID stamps id for outbound remote requests.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stamps id for outbound remote requests.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// idFrom tolerates a nil ctx: scheduled sync cycles build theirs without a request.
func idFrom(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
