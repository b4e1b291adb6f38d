package logger

import (
	"context"

	"go.uber.org/zap"
)

// Request-scoped loggers ride the context so handlers and the usecases
// they call share one set of correlation fields.
type ctxKey struct{}

// ContextWithLogger returns a child context carrying l.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx. Contexts without one
// get a no-op logger, so callers never need a nil check.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
