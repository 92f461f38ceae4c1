package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger tags every line with the service and component it came from
type ServiceLogger struct {
	logger *slog.Logger
}

type LogConfig struct {
	Service   string
	Component string
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
	}
}

// ===== OPERATION LOGGING =====

// LogOperation records the outcome of one authoring operation. Expected failures
// (bad input, missing drafts) are logged below error level.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, actor string, resourceID uint, resourceType string, duration time.Duration, err error) {
	level, status := outcome(err)

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("actor", actor),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErrs ValidationErrors
		if errors.As(err, &validationErrs) {
			attrs = append(attrs,
				slog.Int("validation_errors_count", len(validationErrs)),
				slog.Any("modules", validationErrs.ModuleIndexes()))
		}
		if stepErr, ok := IsSyncStopped(err); ok {
			attrs = append(attrs,
				slog.String("stage", string(stepErr.Stage)),
				slog.String("path", stepErr.Path),
				slog.Uint64("parent_id", uint64(stepErr.ParentID)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// outcome classifies an operation result. Expected failures such as bad input or
// a missing draft stay below error level.
func outcome(err error) (slog.Level, string) {
	if err == nil {
		return slog.LevelInfo, "success"
	}
	if _, ok := IsSyncStopped(err); ok {
		return slog.LevelWarn, "sync_stopped"
	}
	switch {
	case IsValidation(err):
		return slog.LevelWarn, "validation_error"
	case IsUnauthorized(err):
		return slog.LevelWarn, "unauthorized"
	case IsNotFound(err):
		return slog.LevelInfo, "not_found"
	case IsConflict(err):
		return slog.LevelWarn, "conflict"
	}
	return slog.LevelError, "error"
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation string, actor string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("actor", actor),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i >= 5 {
			break
		}
		group := []any{
			slog.String("field", err.Field),
			slog.String("kind", string(err.Kind)),
			slog.String("message", err.Message),
		}
		if err.Module != nil {
			group = append(group, slog.Int("module", *err.Module))
		}
		attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1), group...))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

// Warn logs a non-fatal side effect failure, such as an event that could not be
// published.
func (l *ServiceLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

// ===== CONTEXTUAL LOGGER =====

// ContextualLogger wraps operations with automatic logging
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	actor     string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string, actor string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		actor:     actor,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceID uint, resourceType string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.actor, resourceID, resourceType, time.Since(cl.startTime), err)

	var validationErrs ValidationErrors
	if err != nil && errors.As(err, &validationErrs) {
		cl.logger.LogValidationError(cl.ctx, cl.operation, cl.actor, validationErrs)
	}
}
