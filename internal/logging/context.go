package logging

import (
	"context"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	refreshIDKey contextKey = "refresh_id"
	metricKey    contextKey = "metric"
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, falls back to global
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger
	}
	return global
}

// WithRefreshID tags the context with the refresh cycle it belongs to
func WithRefreshID(ctx context.Context, refreshID string) context.Context {
	return context.WithValue(ctx, refreshIDKey, refreshID)
}

// RefreshIDFromContext returns the refresh cycle ID carried by ctx, if any
func RefreshIDFromContext(ctx context.Context) string {
	refreshID, _ := ctx.Value(refreshIDKey).(string)
	return refreshID
}

// WithMetric tags the context with the metric being computed
func WithMetric(ctx context.Context, metric string) context.Context {
	return context.WithValue(ctx, metricKey, metric)
}

// extractContextFields extracts logging fields from context
func extractContextFields(ctx context.Context) []interface{} {
	var fields []interface{}

	if refreshID, ok := ctx.Value(refreshIDKey).(string); ok && refreshID != "" {
		k, v := String("refresh_id", refreshID)
		fields = append(fields, k, v)
	}

	if metric, ok := ctx.Value(metricKey).(string); ok && metric != "" {
		k, v := String("metric", metric)
		fields = append(fields, k, v)
	}

	return fields
}

// DebugCtx logs a debug message with context
func DebugCtx(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).WithContext(ctx).Debug(msg, fields...)
}

// InfoCtx logs an info message with context
func InfoCtx(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).WithContext(ctx).Info(msg, fields...)
}

// WarnCtx logs a warning message with context
func WarnCtx(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).WithContext(ctx).Warn(msg, fields...)
}

// ErrorCtx logs an error message with context
func ErrorCtx(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).WithContext(ctx).Error(msg, fields...)
}
