package utils

import (
	"context"
)

type key int

const (
	// CtxRunID context key for the pipeline run id
	CtxRunID key = iota
)

// WithRunID attaches run id to the context
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxRunID, id)
}

// RunID returns run id from the context or empty string
func RunID(ctx context.Context) string {
	res, _ := ctx.Value(CtxRunID).(string)
	return res
}
