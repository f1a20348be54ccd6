package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// TreeWalker discovers remote files newer than the watermark. It
// recurses depth-first over the remote folder tree, skipping reserved
// system folders. Traversal order is not stable across runs and nothing
// downstream may rely on it.
type TreeWalker struct {
	tzOffset time.Duration
}

// NewTreeWalker creates a walker. The timezone offset is added to
// remote creation timestamps before comparing against the watermark,
// matching how the remote store reports time versus local expectations.
func NewTreeWalker(tzOffset time.Duration) *TreeWalker {
	return &TreeWalker{tzOffset: tzOffset}
}

// ListNewFiles returns every file under the folder's remote root whose
// extension is allowed and whose adjusted creation time is strictly
// after the watermark. On any listing error the folder yields no
// partial results: the error is returned and the caller treats the
// whole folder as failed.
func (w *TreeWalker) ListNewFiles(
	ctx context.Context,
	store driven.RemoteStore,
	folder domain.SourceFolder,
	watermark time.Time,
) ([]domain.RemoteFileRef, error) {
	var refs []domain.RemoteFileRef
	if err := w.walk(ctx, store, folder, folder.RemotePath, watermark, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (w *TreeWalker) walk(
	ctx context.Context,
	store driven.RemoteStore,
	folder domain.SourceFolder,
	path string,
	watermark time.Time,
	refs *[]domain.RemoteFileRef,
) error {
	if err := ctx.Err(); err != nil {
		return &domain.RemoteAccessError{Path: path, Err: err}
	}

	entries, err := store.List(ctx, path)
	if err != nil {
		return &domain.RemoteAccessError{Path: path, Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir {
			// System folders are skipped entirely, not recursed into
			if strings.HasPrefix(entry.Name, domain.ReservedFolderPrefix) {
				logger.Debug("Skipping system folder: %s", entry.Path)
				continue
			}
			if err := w.walk(ctx, store, folder, entry.Path, watermark, refs); err != nil {
				return err
			}
			continue
		}

		if !folder.AllowsFile(entry.Name) {
			continue
		}
		created := entry.Created.Add(w.tzOffset)
		if !created.After(watermark) {
			continue
		}

		*refs = append(*refs, domain.RemoteFileRef{
			Path:    entry.Path,
			Name:    entry.Name,
			Created: created,
		})
	}

	return nil
}
