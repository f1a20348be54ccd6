package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Stager downloads remote files into a folder's local processing
// directory. The processing directory is a staging area, not a source
// of truth: a file left behind by a failed run is overwritten on
// re-stage, and repeated staging of the same ref yields the same bytes.
type Stager struct{}

// NewStager creates a stager.
func NewStager() *Stager {
	return &Stager{}
}

// Stage downloads ref into the folder's processing directory and
// returns the local path. The directory is created if absent.
func (s *Stager) Stage(
	ctx context.Context,
	store driven.RemoteStore,
	ref domain.RemoteFileRef,
	folder domain.SourceFolder,
) (string, error) {
	if err := os.MkdirAll(folder.ProcessingDir, 0o750); err != nil {
		return "", fmt.Errorf("%w: create processing dir: %v", domain.ErrStaging, err)
	}

	localPath := filepath.Join(folder.ProcessingDir, ref.Name)

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", domain.ErrStaging, localPath, err)
	}

	if err := store.Download(ctx, ref.Path, f); err != nil {
		f.Close()
		// A torn download must not masquerade as a staged file
		os.Remove(localPath)
		return "", fmt.Errorf("%w: download %s: %v", domain.ErrStaging, ref.Path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("%w: close %s: %v", domain.ErrStaging, localPath, err)
	}

	logger.Debug("Staged %s -> %s", ref.Path, localPath)
	return localPath, nil
}
