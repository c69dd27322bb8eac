package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// traceIDKey is the context key for the per-run or per-request trace ID.
type traceIDKey struct{}

// WithTraceID stores a trace ID in the context. Records logged through a
// NewLogger instance with this context carry it as trace_id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// GetTraceID returns the trace ID stored in the context, or "".
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GenerateTraceID returns a fresh UUID v4 trace ID.
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID returns ctx unchanged when it already carries a trace ID,
// otherwise a child context with a generated one. The entry point seeds
// every CLI run this way so one-shot logs correlate the same way dashboard
// requests do.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, GenerateTraceID())
}
