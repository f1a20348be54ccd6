// Package loaders provides per-format document text extraction.
// Extraction is deliberately lossy: only the text that matters for
// retrieval survives. An unreadable document is a skip, not an error,
// at the pipeline level; loaders themselves report what went wrong.
package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry selects a DocumentLoader by file extension.
type Registry struct {
	byExt map[string]driven.DocumentLoader
}

// NewRegistry creates a registry over the given loaders. Later loaders
// win extension conflicts.
func NewRegistry(loaders ...driven.DocumentLoader) *Registry {
	r := &Registry{byExt: make(map[string]driven.DocumentLoader)}
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			r.byExt[ext] = l
		}
	}
	return r
}

// DefaultRegistry returns a registry with all built-in loaders.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPlaintext(), NewDOCX(), NewPDF())
}

// Load extracts text from the file at path.
func (r *Registry) Load(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: no loader for %q", domain.ErrUnsupportedType, ext)
	}
	return loader.Load(ctx, path)
}

// Supported returns the registered extensions.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
