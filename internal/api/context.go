package api

import "context"

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDFromContext extracts the request ID from the context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if requestID, ok := v.(string); ok {
			return requestID
		}
	}

	return ""
}

// withRequestID returns a new context with the request ID set.
func withRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
