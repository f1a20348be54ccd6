package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/keywords"
	"github.com/custodia-labs/docsync/internal/logger"
)

// DefaultMaxContextChars bounds the assembled context string.
const DefaultMaxContextChars = 8000

// DefaultMaxPassages bounds vector store hits per query.
const DefaultMaxPassages = 4

// DefaultMaxArticles bounds web search results per query.
const DefaultMaxArticles = 3

// Ensure RetrievalService implements the interface.
var _ driving.ContextAssembler = (*RetrievalService)(nil)

// RetrievalOptions holds the assembler's scalar knobs.
type RetrievalOptions struct {
	MaxContextChars int
	MaxPassages     int
	MaxArticles     int
}

// RetrievalService assembles the bounded prompt context for one query:
// vector store passages first, then optional live web results with a
// numbered reference list. The two sources are only ordered, never
// scored against each other, and never deduplicated.
type RetrievalService struct {
	vector   driven.VectorStore
	web      driven.WebSearcher
	queryLog driven.QueryLogStore
	opts     RetrievalOptions
}

// NewRetrievalService creates a retrieval service. The web searcher and
// query log are optional (can be nil).
func NewRetrievalService(
	vector driven.VectorStore,
	web driven.WebSearcher,
	queryLog driven.QueryLogStore,
	opts RetrievalOptions,
) *RetrievalService {
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = DefaultMaxContextChars
	}
	if opts.MaxPassages <= 0 {
		opts.MaxPassages = DefaultMaxPassages
	}
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = DefaultMaxArticles
	}
	return &RetrievalService{
		vector:   vector,
		web:      web,
		queryLog: queryLog,
		opts:     opts,
	}
}

// Assemble builds the context for a query. A retrieval failure on
// either source degrades to "no context from that source" rather than
// failing the call: the QA flow must keep working when the stores are
// unhappy.
func (s *RetrievalService) Assemble(
	ctx context.Context, query string, opts driving.AssembleOptions,
) (*domain.AssembledContext, error) {
	start := time.Now()
	logger.Section("Context Assembly")
	logger.Debug("Query: %q", query)

	var parts []string
	var sources []domain.SourceRef

	if opts.Collection != "" {
		if text := s.collectionContext(ctx, opts.Collection, query); text != "" {
			parts = append(parts, text)
		}
	}

	if opts.UseWebSearch && s.web != nil {
		text, refs := s.webContext(ctx, query)
		if text != "" {
			parts = append(parts, text)
		}
		sources = refs
	}

	assembled := strings.Join(parts, "\n")
	if len(assembled) > s.opts.MaxContextChars {
		assembled = assembled[:s.opts.MaxContextChars]
	}

	result := &domain.AssembledContext{Context: assembled, Sources: sources}
	s.logQuery(ctx, query, opts.Collection, result, time.Since(start))
	return result, nil
}

// collectionContext concatenates similarity search hits with newline
// separators. Ranking is entirely the vector store's concern.
func (s *RetrievalService) collectionContext(ctx context.Context, collection, query string) string {
	passages, err := s.vector.Query(ctx, collection, query, s.opts.MaxPassages)
	if err != nil {
		logger.Warn("%v: collection %s: %v", domain.ErrSearch, collection, err)
		return ""
	}

	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Content)
	}
	logger.Debug("Collection %s: %d passages", collection, len(passages))
	return strings.Join(texts, "\n")
}

// webContext runs keyword extraction, searches, and renders the
// articles with a numbered reference list.
func (s *RetrievalService) webContext(ctx context.Context, query string) (string, []domain.SourceRef) {
	keyword := keywords.Extract(query)
	if keyword == "" {
		keyword = query
	}
	logger.Debug("Web search keywords: %q", keyword)

	articles, err := s.web.Search(ctx, keyword, s.opts.MaxArticles)
	if err != nil {
		logger.Warn("%v: web: %v", domain.ErrSearch, err)
		return "", nil
	}

	var b strings.Builder
	refs := make([]domain.SourceRef, 0, len(articles))
	for i, article := range articles {
		n := i + 1
		if article.Abstract != "" {
			fmt.Fprintf(&b, "[%d] %s\n%s\n", n, article.Title, article.Abstract)
		} else {
			fmt.Fprintf(&b, "[%d] %s\n", n, article.Title)
		}
		refs = append(refs, domain.SourceRef{Index: n, Title: article.Title, URL: article.URL})
	}

	if len(refs) > 0 {
		b.WriteString("References:\n")
		for _, ref := range refs {
			fmt.Fprintf(&b, "[%d] %s - %s\n", ref.Index, ref.Title, ref.URL)
		}
	}

	return strings.TrimRight(b.String(), "\n"), refs
}

func (s *RetrievalService) logQuery(
	ctx context.Context, query, collection string, result *domain.AssembledContext, elapsed time.Duration,
) {
	if s.queryLog == nil {
		return
	}
	entry := domain.QueryLogEntry{
		ID:           uuid.New().String(),
		Query:        query,
		Collection:   collection,
		ContextChars: len(result.Context),
		SourceCount:  len(result.Sources),
		Elapsed:      elapsed,
		CreatedAt:    time.Now(),
	}
	if err := s.queryLog.Record(ctx, entry); err != nil {
		logger.Debug("Query log write failed: %v", err)
	}
}
