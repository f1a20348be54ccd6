package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// SyncStatus reports the progress of a running sync pass.
type SyncStatus struct {
	// Running is true while a pass is in flight.
	Running bool

	// FilesProcessed counts files that completed their pipeline.
	FilesProcessed int

	// ErrorCount counts per-file failures so far.
	ErrorCount int
}

// SyncRunner triggers delta-sync passes over the configured source
// folders. A pass either completes and advances the watermark, or
// leaves it untouched so the next pass re-lists the same window.
type SyncRunner interface {
	// Run executes one full pass over all source folders. The report is
	// returned even when the pass recorded failures; the error is
	// non-nil only for run-fatal conditions (watermark persistence).
	Run(ctx context.Context) (*domain.RunReport, error)

	// RunFolder executes one pass restricted to a single folder by
	// name. The watermark is never advanced by a restricted pass.
	RunFolder(ctx context.Context, name string) (*domain.RunReport, error)

	// Status returns progress for the in-flight pass, if any.
	Status(ctx context.Context) (*SyncStatus, error)
}
