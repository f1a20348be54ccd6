package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// WebSearcher queries a live literature or web search backend. The
// query is already reduced to content keywords; HTML parsing and API
// access live entirely behind this port.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.WebArticle, error)
}
