// Package chroma is a minimal REST client to a Chroma server,
// implementing the VectorStore port. Embedding happens server side; the
// collection's embedding binding is fixed in its metadata at creation
// and never changed afterwards.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const apiBase = "/api/v1"

// Store talks to one Chroma server.
type Store struct {
	baseURL string
	client  *http.Client

	mu  sync.Mutex
	ids map[string]string // collection name -> server-assigned ID
}

// Config holds the connection settings.
type Config struct {
	// URL is the server base, e.g. http://localhost:8000.
	URL string

	// Timeout bounds one HTTP call. Defaults to 30s; batch adds on a
	// slow embedding model are the long pole.
	Timeout time.Duration
}

// NewStore creates a client. No connection is attempted until the first
// call; use Heartbeat to verify reachability up front.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Store{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: timeout},
		ids:     make(map[string]string),
	}
}

// Heartbeat verifies the server is reachable.
func (s *Store) Heartbeat(ctx context.Context) error {
	var resp struct {
		Heartbeat int64 `json:"nanosecond heartbeat"`
	}
	return s.getJSON(ctx, apiBase+"/heartbeat", &resp)
}

// collection is the server's collection representation.
type collection struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}

// EnsureCollection performs get-or-create. The embedding binding and
// metadata only take effect when the collection is created; an existing
// collection keeps its original binding.
func (s *Store) EnsureCollection(
	ctx context.Context, name string, embedding domain.EmbeddingConfig, metadata map[string]string,
) error {
	meta := make(map[string]string, len(metadata)+2)
	for k, v := range metadata {
		meta[k] = v
	}
	if !embedding.IsDefault() {
		meta["embedding_url"] = embedding.URL()
		meta["embedding_model"] = embedding.Model()
	}

	body := map[string]any{
		"name":          name,
		"get_or_create": true,
	}
	if len(meta) > 0 {
		body["metadata"] = meta
	}

	var created collection
	if err := s.postJSON(ctx, apiBase+"/collections", body, &created); err != nil {
		return fmt.Errorf("ensure collection %s: %w", name, err)
	}

	s.mu.Lock()
	s.ids[name] = created.ID
	s.mu.Unlock()
	return nil
}

// AddChunks uploads one batch. Chunk identity is FileID plus position,
// so re-ingesting a file after a failed run upserts rather than
// duplicates.
func (s *Store) AddChunks(ctx context.Context, collectionName string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	id, err := s.collectionID(ctx, collectionName)
	if err != nil {
		return err
	}

	ids := make([]string, len(chunks))
	documents := make([]string, len(chunks))
	metadatas := make([]map[string]string, len(chunks))
	for i, c := range chunks {
		ids[i] = fmt.Sprintf("%s:%d", c.FileID, c.Position)
		documents[i] = c.Content
		meta := make(map[string]string, len(c.Metadata)+1)
		for k, v := range c.Metadata {
			meta[k] = v
		}
		meta["position"] = fmt.Sprintf("%d", c.Position)
		metadatas[i] = meta
	}

	body := map[string]any{
		"ids":       ids,
		"documents": documents,
		"metadatas": metadatas,
	}
	if err := s.postJSON(ctx, apiBase+"/collections/"+id+"/upsert", body, nil); err != nil {
		return fmt.Errorf("add %d chunks to %s: %w", len(chunks), collectionName, err)
	}
	return nil
}

// Query runs a similarity search and returns passages in the server's
// relevance order.
func (s *Store) Query(ctx context.Context, collectionName, query string, maxResults int) ([]domain.Passage, error) {
	id, err := s.collectionID(ctx, collectionName)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query_texts": []string{query},
		"n_results":   maxResults,
		"include":     []string{"documents", "metadatas", "distances"},
	}

	// Chroma returns one result list per query text
	var resp struct {
		Documents [][]string            `json:"documents"`
		Metadatas [][]map[string]string `json:"metadatas"`
		Distances [][]float64           `json:"distances"`
	}
	if err := s.postJSON(ctx, apiBase+"/collections/"+id+"/query", body, &resp); err != nil {
		return nil, fmt.Errorf("query %s: %w", collectionName, err)
	}
	if len(resp.Documents) == 0 {
		return nil, nil
	}

	docs := resp.Documents[0]
	passages := make([]domain.Passage, 0, len(docs))
	for i, doc := range docs {
		p := domain.Passage{Content: doc}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			p.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			// Distance is lower-is-better; flip it for the port
			p.Score = 1 - resp.Distances[0][i]
		}
		passages = append(passages, p)
	}
	return passages, nil
}

// Count returns the number of records in a collection.
func (s *Store) Count(ctx context.Context, collectionName string) (int, error) {
	id, err := s.collectionID(ctx, collectionName)
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.getJSON(ctx, apiBase+"/collections/"+id+"/count", &count); err != nil {
		return 0, fmt.Errorf("count %s: %w", collectionName, err)
	}
	return count, nil
}

// ListCollections returns all collection names on the server.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	var cols []collection
	if err := s.getJSON(ctx, apiBase+"/collections", &cols); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	names := make([]string, 0, len(cols))
	s.mu.Lock()
	for _, c := range cols {
		names = append(names, c.Name)
		s.ids[c.Name] = c.ID
	}
	s.mu.Unlock()
	return names, nil
}

// DeleteCollection removes a collection and everything in it.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		s.baseURL+apiBase+"/collections/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}
	if err := s.do(req, nil); err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}

	s.mu.Lock()
	delete(s.ids, name)
	s.mu.Unlock()
	return nil
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// collectionID resolves a collection name to its server ID, looking it
// up once and caching the result.
func (s *Store) collectionID(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	id, ok := s.ids[name]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	var col collection
	err := s.getJSON(ctx, apiBase+"/collections/"+url.PathEscape(name), &col)
	if err != nil {
		return "", fmt.Errorf("%w: collection %s: %v", domain.ErrNotFound, name, err)
	}

	s.mu.Lock()
	s.ids[name] = col.ID
	s.mu.Unlock()
	return col.ID, nil
}

func (s *Store) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *Store) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *Store) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chroma %s %s: %s: %s", req.Method, req.URL.Path, resp.Status, snippet)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
