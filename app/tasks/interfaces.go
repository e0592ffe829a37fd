package tasks

import (
	"context"
)

// SyncRunnerInterface is what the HTTP API needs to trigger a sync.
// Example usage:
//
//	runner := NewRunner(profile, httpClient, intel.NewStore(path), runRepo, userAgent)
//	result, err := runner.Sync(ctx)
type SyncRunnerInterface interface {
	Sync(ctx context.Context) (Result, error)
}
