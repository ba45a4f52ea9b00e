// Package requestid carries the per-request ID through contexts so scrape
// logs can be joined with access logs.
package requestid

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// NewContext returns a context that carries the given request ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or an empty string.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Logger returns base annotated with the request ID from ctx. Outside a
// request, such as a CLI run, base is returned unchanged.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id := FromContext(ctx); id != "" {
		return base.With("request_id", id)
	}
	return base
}
