package common

import (
	"context"

	"statesapi/domain/core/entities"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyState ContextKey = "state"
)

// WithState attaches the resolved state record to the context
func WithState(ctx context.Context, record entities.StateRecord) context.Context {
	return context.WithValue(ctx, ContextKeyState, record)
}

// GetState extracts the resolved state record from the context
func GetState(ctx context.Context) (entities.StateRecord, bool) {
	record, ok := ctx.Value(ContextKeyState).(entities.StateRecord)
	return record, ok
}
