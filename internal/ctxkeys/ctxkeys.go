// Package ctxkeys carries per-turn identifiers through context so transport
// and orchestration logs correlate without widening every signature.
package ctxkeys

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	messageIDKey contextKey = "message_id"
)

// WithRequestID attaches the HTTP request identifier.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request identifier, if set.
func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// WithMessageID attaches the client-supplied WebSocket message identifier.
func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, messageIDKey, messageID)
}

// MessageID returns the message identifier, if set.
func MessageID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(messageIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
