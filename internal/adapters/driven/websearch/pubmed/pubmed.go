// Package pubmed implements the WebSearcher port over the NCBI
// E-utilities API: esearch finds PMIDs for a keyword query, esummary
// resolves titles, and efetch pulls the plain-text abstracts. Requests
// are throttled to NCBI's published unauthenticated limit.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Searcher implements the interface.
var _ driven.WebSearcher = (*Searcher)(nil)

const (
	// DefaultBaseURL is the E-utilities endpoint.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// articleURLPrefix builds the canonical article link from a PMID.
	articleURLPrefix = "https://pubmed.ncbi.nlm.nih.gov/"

	// requestsPerSecond is NCBI's unauthenticated limit.
	requestsPerSecond = 3
)

// Searcher queries PubMed.
type Searcher struct {
	baseURL string
	tool    string
	email   string
	client  *http.Client
	limiter *rate.Limiter
}

// Config holds the connection settings. Tool and Email identify the
// caller to NCBI as their usage policy asks.
type Config struct {
	// BaseURL overrides the E-utilities endpoint, mainly for tests.
	BaseURL string

	Tool  string
	Email string

	// Timeout bounds one HTTP call. Defaults to 15s.
	Timeout time.Duration
}

// NewSearcher creates a PubMed searcher.
func NewSearcher(cfg Config) *Searcher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Searcher{
		baseURL: baseURL,
		tool:    cfg.Tool,
		email:   cfg.Email,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Search returns up to maxResults articles for the keyword query,
// newest first (PubMed's default sort).
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]domain.WebArticle, error) {
	if maxResults <= 0 {
		maxResults = 3
	}

	pmids, err := s.search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: pubmed search: %v", domain.ErrSearch, err)
	}
	if len(pmids) == 0 {
		return nil, nil
	}

	titles, err := s.summaries(ctx, pmids)
	if err != nil {
		return nil, fmt.Errorf("%w: pubmed summaries: %v", domain.ErrSearch, err)
	}

	articles := make([]domain.WebArticle, 0, len(pmids))
	for _, pmid := range pmids {
		title, ok := titles[pmid]
		if !ok {
			continue
		}
		// Abstract failures degrade to a title-only article
		abstract, err := s.abstract(ctx, pmid)
		if err != nil {
			abstract = ""
		}
		articles = append(articles, domain.WebArticle{
			Title:    title,
			Abstract: abstract,
			URL:      articleURLPrefix + pmid + "/",
		})
	}
	return articles, nil
}

// search runs esearch and returns the matching PMIDs.
func (s *Searcher) search(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := s.baseParams()
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmax", fmt.Sprintf("%d", maxResults))
	params.Set("retmode", "json")

	var resp struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := s.getJSON(ctx, "/esearch.fcgi", params, &resp); err != nil {
		return nil, err
	}
	return resp.ESearchResult.IDList, nil
}

// summaries runs esummary and returns PMID -> title.
func (s *Searcher) summaries(ctx context.Context, pmids []string) (map[string]string, error) {
	params := s.baseParams()
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "json")

	var resp struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := s.getJSON(ctx, "/esummary.fcgi", params, &resp); err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(pmids))
	for _, pmid := range pmids {
		raw, ok := resp.Result[pmid]
		if !ok {
			continue
		}
		var doc struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil || doc.Title == "" {
			continue
		}
		titles[pmid] = doc.Title
	}
	return titles, nil
}

// abstract runs efetch for one article's plain-text abstract.
func (s *Searcher) abstract(ctx context.Context, pmid string) (string, error) {
	params := s.baseParams()
	params.Set("db", "pubmed")
	params.Set("id", pmid)
	params.Set("rettype", "abstract")
	params.Set("retmode", "text")

	body, err := s.get(ctx, "/efetch.fcgi", params)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (s *Searcher) baseParams() url.Values {
	params := url.Values{}
	if s.tool != "" {
		params.Set("tool", s.tool)
	}
	if s.email != "" {
		params.Set("email", s.email)
	}
	return params
}

func (s *Searcher) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := s.get(ctx, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (s *Searcher) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", path, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
