package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// DefaultMaxBatchSize bounds one vector store write.
const DefaultMaxBatchSize = 250

// BatchIngestor partitions chunk sequences into bounded batches and
// submits them to the vector store. Collections are created lazily with
// a fixed embedding binding on first ingestion. Batch submission to a
// single collection is serialised.
type BatchIngestor struct {
	vector       driven.VectorStore
	embedding    domain.EmbeddingConfig
	maxBatchSize int

	mu      sync.Mutex
	ensured map[string]bool
}

// NewBatchIngestor creates an ingestor writing through the given store.
func NewBatchIngestor(vector driven.VectorStore, embedding domain.EmbeddingConfig, maxBatchSize int) *BatchIngestor {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &BatchIngestor{
		vector:       vector,
		embedding:    embedding,
		maxBatchSize: maxBatchSize,
		ensured:      make(map[string]bool),
	}
}

// Ingest writes all chunks of one file to the collection in order, in
// batches of at most the configured size. All-or-nothing per file: if
// any batch fails, the whole call fails and the caller must not archive
// the file. Earlier batches may already have landed; the store can hold
// a partial superset for a failed file until retry.
func (b *BatchIngestor) Ingest(ctx context.Context, collection string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	if err := b.ensureCollection(ctx, collection); err != nil {
		return fmt.Errorf("%w: ensure collection %s: %v", domain.ErrIngestion, collection, err)
	}

	batches := partition(chunks, b.maxBatchSize)
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrIngestion, err)
		}
		if err := b.vector.AddChunks(ctx, collection, batch); err != nil {
			return fmt.Errorf("%w: batch %d/%d of %s: %v",
				domain.ErrIngestion, i+1, len(batches), collection, err)
		}
		logger.Debug("Ingested batch %d/%d (%d chunks) into %s", i+1, len(batches), len(batch), collection)
	}

	return nil
}

// ensureCollection performs get-or-create once per collection per
// ingestor lifetime.
func (b *BatchIngestor) ensureCollection(ctx context.Context, collection string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ensured[collection] {
		return nil
	}

	metadata := map[string]string{"managed_by": "docsync"}
	if err := b.vector.EnsureCollection(ctx, collection, b.embedding, metadata); err != nil {
		return err
	}
	b.ensured[collection] = true
	return nil
}

// partition splits chunks into consecutive groups of at most size,
// preserving order. For N chunks it produces ceil(N/size) groups, the
// last possibly smaller.
func partition(chunks []domain.Chunk, size int) [][]domain.Chunk {
	batches := make([][]domain.Chunk, 0, (len(chunks)+size-1)/size)
	for start := 0; start < len(chunks); start += size {
		end := start + size
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, chunks[start:end])
	}
	return batches
}
