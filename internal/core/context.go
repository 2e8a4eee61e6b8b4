package core

import "context"

type contextKey string

const (
	ctxKeyRunID   contextKey = "run_id"
	ctxKeyDataset contextKey = "dataset"
)

// ContextWithRunID adds the pipeline run ID to context for logging.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRunID, id)
}

// ContextWithDataset adds the dataset key to context for logging.
func ContextWithDataset(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKeyDataset, key)
}

// RunIDFromContext extracts the pipeline run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRunID).(string); ok {
		return v
	}
	return ""
}

// DatasetFromContext extracts the dataset key from context.
func DatasetFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyDataset).(string); ok {
		return v
	}
	return ""
}
