package core

import (
	"context"

	"github.com/seamosgenios/panel/internal/contract"
)

// Context keys for run options
type contextKey string

const (
	runIDKey        contextKey = "runID"
	storeManagerKey contextKey = "storeManager"
)

// withRunID stores the history run ID in the context.
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the history run ID from the context, if present.
func getRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(runIDKey).(string)
	return runID, ok && runID != ""
}

// contextWithStoreManager stores the store manager in the context.
func contextWithStoreManager(ctx context.Context, mgr contract.StoreManager) context.Context {
	return context.WithValue(ctx, storeManagerKey, mgr)
}

// storeManagerFromContext returns the store manager from the context, or nil.
func storeManagerFromContext(ctx context.Context) contract.StoreManager {
	mgr, _ := ctx.Value(storeManagerKey).(contract.StoreManager)
	return mgr
}
