// Package correlation carries the id that ties together the logs, spans and
// journal entries of one tax operation.
package correlation

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
)

// Field is the log and span attribute name of the correlation id.
const Field = "correlation_id"

type contextKey struct{}

// ID returns the correlation id on ctx, or "" when none was seeded.
func ID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

func WithID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, id)
}

// Ensure seeds ctx with a correlation id unless one is present. A new id reuses
// the active trace id so logs can be joined to the trace; otherwise it is a ULID.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := ID(ctx); id != "" {
		return ctx, id
	}
	id := ulid.Make().String()
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		id = sc.TraceID().String()
	}
	return WithID(ctx, id), id
}
