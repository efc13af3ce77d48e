// Package logger records user activity as structured JSON lines: who did
// what, with free-form details.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Activity actions.
const (
	ActionFileLoaded         = "FILE_LOADED"
	ActionValidationSuccess  = "VALIDATION_SUCCESS"
	ActionValidationFailed   = "VALIDATION_FAILED"
	ActionExportWritten      = "EXPORT_WRITTEN"
	ActionExportUploaded     = "EXPORT_UPLOADED"
	ActionDuplicateReference = "SAVE_BLOCKED_DUPLICATE_REFERENCE"
	ActionDataSaved          = "DATA_SAVED"
	ActionWebValidate        = "WEB_VALIDATE"
)

// AnonymousUser is logged when no user name is configured.
const AnonymousUser = "anonymous"

type contextKey struct{}

// New creates a JSON logger writing to w.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// NewConsole creates a human-readable logger writing to w.
func NewConsole(w io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// Open creates a JSON logger appending to filename.
func Open(filename string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return New(f), f, nil
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext retrieves the logger from the context. Without one, activity is
// discarded.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// Activity logs one user action. details may be nil.
func Activity(ctx context.Context, user, action string, details map[string]any) {
	if user == "" {
		user = AnonymousUser
	}
	logger := FromContext(ctx)
	event := logger.Info().
		Str("user", user).
		Str("action", action)
	if len(details) > 0 {
		event = event.Fields(map[string]any{"details": details})
	}
	event.Msg("activity")
}
