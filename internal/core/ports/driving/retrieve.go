package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// AssembleOptions selects the context sources for one query.
type AssembleOptions struct {
	// Collection is the vector store collection to search. Empty skips
	// vector retrieval.
	Collection string

	// UseWebSearch enables the live web-search source.
	UseWebSearch bool
}

// ContextAssembler merges vector store hits with optional live web
// results into one bounded context string with numbered source
// references. It never ranks or deduplicates across the two sources:
// vector context always precedes web results.
type ContextAssembler interface {
	Assemble(ctx context.Context, query string, opts AssembleOptions) (*domain.AssembledContext, error)
}
