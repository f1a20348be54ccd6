package driven

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// RemoteEntry is one listing result from a remote folder. It is the
// explicit shape constructed immediately after listing, decoupling the
// pipeline from the remote client's native object model.
type RemoteEntry struct {
	// Name is the entry's display name.
	Name string

	// Path is the server-relative path (or backend-native ID) used for
	// further listing or download.
	Path string

	// IsDir marks folders.
	IsDir bool

	// Created is the remote creation timestamp, unadjusted.
	Created time.Time
}

// RemoteStore exposes an authenticated remote file store: recursive
// listing by the walker and full-file download by the stager.
type RemoteStore interface {
	// Type returns the backend identifier (e.g. "sharepoint").
	Type() string

	// Validate performs a lightweight connectivity and auth check.
	Validate(ctx context.Context) error

	// List returns the immediate children of the given folder path.
	// It returns either the complete listing or an error, never both.
	List(ctx context.Context, path string) ([]RemoteEntry, error)

	// Download streams the file at the given path into w.
	Download(ctx context.Context, path string, w io.Writer) error

	// Close releases resources.
	Close() error
}

// RemoteStoreFactory creates the RemoteStore for a source folder based
// on its configured backend type.
type RemoteStoreFactory interface {
	Create(ctx context.Context, folder domain.SourceFolder) (RemoteStore, error)
}
