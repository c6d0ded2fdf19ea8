package logging

import (
	"maps"

	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// Logger aliases the shared logging contract so callers inside internal
// packages can avoid importing pkg/interfaces for a single type.
type Logger = interfaces.Logger

// WithFields attaches structured fields when the logger supports the
// FieldsLogger extension. Nil loggers and empty maps are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// Ensure returns logger, or a no-op logger when logger is nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}
