package petrel

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with petrel-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithIndexID adds an index_id field to the logger.
func (l *Logger) WithIndexID(indexID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index_id", indexID),
	}
}

// WithTemplateID adds a template_id field to the logger.
func (l *Logger) WithTemplateID(templateID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("template_id", templateID),
	}
}

// WithStore adds the store location to the logger.
func (l *Logger) WithStore(uri string) *Logger {
	return &Logger{
		Logger: l.Logger.With("store", uri),
	}
}

// LogIndexCreate logs an index creation.
func (l *Logger) LogIndexCreate(ctx context.Context, indexID string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index creation failed",
			"index_id", indexID,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index created",
			"index_id", indexID,
		)
	}
}

// LogIndexDelete logs an index deletion.
func (l *Logger) LogIndexDelete(ctx context.Context, indexID string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index deletion failed",
			"index_id", indexID,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index deleted",
			"index_id", indexID,
		)
	}
}

// LogTemplateChange logs a template create, overwrite, or delete.
func (l *Logger) LogTemplateChange(ctx context.Context, op, templateID string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "template operation failed",
			"op", op,
			"template_id", templateID,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "template operation completed",
			"op", op,
			"template_id", templateID,
		)
	}
}

// LogMigration logs a legacy manifest migration.
func (l *Logger) LogMigration(ctx context.Context, indexCount int) {
	l.InfoContext(ctx, "legacy manifest migrated",
		"indexes", indexCount,
	)
}
