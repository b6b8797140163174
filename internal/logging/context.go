package logging

import (
	"context"
)

// requestCtxKey is the context key for the request ID.
type requestCtxKey struct{}

// WithRequestID adds a request ID to the context for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestCtxKey{}, requestID)
}

// RequestIDFrom extracts the request ID from context, or "" if absent.
func RequestIDFrom(ctx context.Context) string {
	if r, ok := ctx.Value(requestCtxKey{}).(string); ok {
		return r
	}
	return ""
}
