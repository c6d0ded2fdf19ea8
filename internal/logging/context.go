package logging

import "context"

type contextKey string

const contextFieldsKey contextKey = "pacer.logging.fields"

// ContextWithFields returns a context carrying structured logging fields.
// Fields already on the context are kept; new values win on key collisions.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	existing := ContextFields(ctx)
	merged := make(map[string]any, len(existing)+len(fields))
	for key, value := range existing {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts the logging fields annotated on ctx. The returned map
// is a copy.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}

	copied := make(map[string]any, len(fields))
	for key, val := range fields {
		copied[key] = val
	}
	return copied
}

// FromContext decorates logger with the fields stored on ctx.
func FromContext(ctx context.Context, logger Logger) Logger {
	return WithFields(logger, ContextFields(ctx))
}
