package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure WatermarkStore implements the interface.
var _ driven.WatermarkStore = (*WatermarkStore)(nil)

// watermarkDoc is the on-disk shape of the watermark file.
type watermarkDoc struct {
	// LastSync is the watermark in YYYYMMDDHHMMSS form.
	LastSync string `toml:"last_sync"`
}

// WatermarkStore persists the sync watermark in a single TOML file.
// Saves are atomic: the document is written to a temp file in the same
// directory and renamed over the target, so readers see either the old
// watermark or the new one, never a torn write.
type WatermarkStore struct {
	path string
}

// NewWatermarkStore creates a store at the given file path. The parent
// directory is created on first save.
func NewWatermarkStore(path string) *WatermarkStore {
	return &WatermarkStore{path: path}
}

// Load returns the persisted watermark. domain.ErrNotFound means no
// watermark was ever saved: every remote file is considered new.
func (s *WatermarkStore) Load(_ context.Context) (time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, domain.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("read watermark: %w", err)
	}

	var doc watermarkDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return time.Time{}, fmt.Errorf("parse watermark: %w", err)
	}
	if doc.LastSync == "" {
		return time.Time{}, domain.ErrNotFound
	}

	t, err := domain.ParseWatermark(doc.LastSync)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse watermark %q: %w", doc.LastSync, err)
	}
	return t, nil
}

// Save persists t as the new watermark.
func (s *WatermarkStore) Save(_ context.Context, t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := toml.Marshal(watermarkDoc{LastSync: domain.FormatWatermark(t)})
	if err != nil {
		return fmt.Errorf("encode watermark: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "watermark-*.toml")
	if err != nil {
		return fmt.Errorf("create temp watermark: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write watermark: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close watermark: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace watermark: %w", err)
	}
	return nil
}
