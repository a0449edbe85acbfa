// Package ctxutil carries request and study session correlation ids through a
// context.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Log attribute keys for the correlation ids.
const (
	RequestIDKey = "request_id"
	SessionIDKey = "session_id"
)

type ctxKey int

const (
	sessionIDCtx ctxKey = iota
	requestIDCtx
)

// WithSessionID returns a context carrying the study session id.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDCtx, id)
}

// SessionIDFromCtx returns the study session id, if a non-nil one is set.
func SessionIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionIDCtx).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtx, id)
}

// RequestIDFromCtx returns the request id or "".
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtx).(string)
	return id
}

// LogAttrs returns the correlation ids present in ctx as log attributes,
// request id first.
func LogAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if id := RequestIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String(RequestIDKey, id))
	}
	if id, ok := SessionIDFromCtx(ctx); ok {
		attrs = append(attrs, slog.String(SessionIDKey, id.String()))
	}
	return attrs
}
