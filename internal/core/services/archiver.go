package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Archiver moves fully ingested files from the processing directory to
// the archive directory. It must only be called after every chunk of
// the file was acknowledged by the vector store.
//
// Collision policy: a same-named file already in the archive is
// overwritten. Source file names are unique per folder within a sync
// window, so a collision means the same document was re-delivered; the
// newest ingested copy wins.
type Archiver struct{}

// NewArchiver creates an archiver.
func NewArchiver() *Archiver {
	return &Archiver{}
}

// Archive moves (not copies) the staged file into the folder's archive
// directory, creating it if absent.
func (a *Archiver) Archive(localPath string, folder domain.SourceFolder) error {
	if err := os.MkdirAll(folder.ArchiveDir, 0o750); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	dest := filepath.Join(folder.ArchiveDir, filepath.Base(localPath))
	if err := os.Rename(localPath, dest); err != nil {
		// Rename fails across filesystems; fall back to copy+remove
		if copyErr := copyFile(localPath, dest); copyErr != nil {
			return fmt.Errorf("archive %s: %w", localPath, err)
		}
		if err := os.Remove(localPath); err != nil {
			return fmt.Errorf("remove staged %s: %w", localPath, err)
		}
	}

	logger.Debug("Archived %s -> %s", localPath, dest)
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
