package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

type fieldsKey struct{}

// WithFields attaches fields when logger implements interfaces.FieldsLogger
// and returns logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(interfaces.FieldsLogger); ok {
		return fl.WithFields(maps.Clone(fields))
	}
	return logger
}

// ContextWithFields layers fields over any already carried by ctx. Loggers
// bound with WithContext merge them into every entry.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextFields returns a copy of the fields carried by ctx, or nil.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
