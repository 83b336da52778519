// Package logctx переносит логгер запроса через context.
package logctx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладет логгер в контекст.
func Into(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From достает логгер из контекста, иначе slog.Default().
func From(ctx context.Context) *slog.Logger {
	if value := ctx.Value(ctxKey{}); value != nil {
		if logger, ok := value.(*slog.Logger); ok && logger != nil {
			return logger
		}
	}

	return slog.Default()
}

type requestIDKey struct{}

// WithRequestID кладет идентификатор запроса в контекст.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID возвращает идентификатор запроса или пустую строку.
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}
