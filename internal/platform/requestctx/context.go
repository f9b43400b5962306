package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerContextKey  contextKey = "github.com/rishi-store/storefront/internal/platform/requestctx/logger"
	sessionContextKey contextKey = "github.com/rishi-store/storefront/internal/platform/requestctx/session"
)

var noopLogger = zap.NewNop()

// SessionInfo carries the per-request session identity resolved by middleware.
type SessionInfo struct {
	SessionID string
	Token     string
	UserID    int64
}

// Authenticated reports whether the request carries a bearer token.
func (s SessionInfo) Authenticated() bool { return s.Token != "" }

// WithLogger stores the logger in context for downstream consumers.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// Logger retrieves the zap logger from context or returns a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return noopLogger
	}
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return noopLogger
}

// NoopLogger exposes the shared noop logger instance used across the package.
func NoopLogger() *zap.Logger { return noopLogger }

// WithSession stores session metadata on the context.
func WithSession(ctx context.Context, info SessionInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey, info)
}

// Session retrieves the session metadata from context when available.
func Session(ctx context.Context) (SessionInfo, bool) {
	if ctx == nil {
		return SessionInfo{}, false
	}
	info, ok := ctx.Value(sessionContextKey).(SessionInfo)
	return info, ok
}
