package logger

import (
	"context"
	"log/slog"
	"time"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	OperationKey ContextKey = "operation"
)

type ContextLogger struct {
	logger *slog.Logger
}

func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext adds context values to log entries
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	args := make([]any, 0)

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		args = append(args, "request_id", requestID)
	}

	if operation, ok := ctx.Value(OperationKey).(string); ok {
		args = append(args, "operation", operation)
	}

	return cl.logger.With(args...)
}

// WithOperation tags ctx so later log lines carry the operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, duration time.Duration) {
	cl.WithContext(ctx).Info("operation completed",
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	)
}

func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).Error("operation failed",
		"operation", operation,
		"error", err,
	)
}
