package driven

import (
	"context"
	"time"
)

// WatermarkStore persists the single "last successful sync" timestamp.
// It is read once at run start and written exactly once, only after a
// fully successful pass. Writes are all-or-nothing: either the new
// value lands or the prior value remains intact.
type WatermarkStore interface {
	// Load returns the persisted watermark, or domain.ErrNotFound when
	// no sync has ever completed.
	Load(ctx context.Context) (time.Time, error)

	// Save atomically replaces the watermark.
	Save(ctx context.Context, t time.Time) error
}
