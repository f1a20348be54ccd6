package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// VectorStore is the vector database collaborator. Ranking and index
// internals are entirely the store's concern; the core only partitions
// writes and consumes ranked passages.
type VectorStore interface {
	// EnsureCollection creates the named collection if absent
	// (get-or-create semantics). The embedding binding is fixed at
	// creation and ignored for an existing collection.
	EnsureCollection(ctx context.Context, name string, embedding domain.EmbeddingConfig, metadata map[string]string) error

	// AddChunks writes one batch of chunks to the collection. Callers
	// bound the batch size; the store is not required to preserve or
	// expose insertion order.
	AddChunks(ctx context.Context, collection string, chunks []domain.Chunk) error

	// Query performs a similarity search and returns ranked passages.
	Query(ctx context.Context, collection, query string, limit int) ([]domain.Passage, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context, collection string) (int, error)

	// ListCollections returns all collection names.
	ListCollections(ctx context.Context) ([]string, error)

	// DeleteCollection removes the collection and its records.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}
