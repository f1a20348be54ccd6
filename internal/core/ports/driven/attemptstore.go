package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// AttemptStore tracks per-file failure counts across runs. The
// orchestrator uses it to dead-letter files that keep failing instead
// of retrying them forever.
type AttemptStore interface {
	// Record increments the failure count for a file.
	Record(ctx context.Context, folder, path string, cause error) error

	// Attempts returns the recorded failure count, zero when unseen.
	Attempts(ctx context.Context, folder, path string) (int, error)

	// Clear removes a file's record after successful processing.
	Clear(ctx context.Context, folder, path string) error

	// DeadLettered lists files at or above the given attempt count.
	DeadLettered(ctx context.Context, minAttempts int) ([]domain.FileAttempt, error)
}

// QueryLogStore records retrieval invocations for audit.
type QueryLogStore interface {
	// Record appends one entry.
	Record(ctx context.Context, entry domain.QueryLogEntry) error

	// Recent returns the newest entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error)
}
