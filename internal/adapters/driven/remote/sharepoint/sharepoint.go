// Package sharepoint implements the RemoteStore port over the
// SharePoint REST API with Azure AD app-only (client credentials)
// authentication. Folder listings come from GetFolderByServerRelativePath
// with Files and Folders expanded; downloads stream the file's $value.
package sharepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RemoteStore = (*Store)(nil)

// requestsPerSecond keeps us under SharePoint's throttling thresholds.
const requestsPerSecond = 10

// createdLayout is SharePoint's TimeCreated format.
const createdLayout = time.RFC3339

// Store talks to one SharePoint site.
type Store struct {
	siteURL string
	client  *http.Client
	limiter *rate.Limiter
}

// Config holds the site and app registration settings.
type Config struct {
	// SiteURL is the full site URL, e.g.
	// https://contoso.sharepoint.com/sites/docs.
	SiteURL string

	// TenantID, ClientID and ClientSecret identify the Azure AD app
	// registration. They come from the environment, never from the
	// config file.
	TenantID     string
	ClientID     string
	ClientSecret string
}

// NewStore creates a store authenticating with client credentials.
// Tokens are fetched lazily and refreshed by the oauth2 transport.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.SiteURL == "" {
		return nil, fmt.Errorf("sharepoint: site URL is required")
	}
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("sharepoint: tenant, client ID and secret are required")
	}

	host, err := url.Parse(cfg.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("sharepoint: parse site URL: %w", err)
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL: fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token",
			cfg.TenantID),
		Scopes: []string{fmt.Sprintf("https://%s/.default", host.Host)},
	}

	return &Store{
		siteURL: strings.TrimRight(cfg.SiteURL, "/"),
		client:  cc.Client(ctx),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// NewStoreWithClient creates a store over a pre-authenticated HTTP
// client. Used by tests.
func NewStoreWithClient(siteURL string, client *http.Client) *Store {
	return &Store{
		siteURL: strings.TrimRight(siteURL, "/"),
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Type returns the backend identifier.
func (s *Store) Type() string {
	return "sharepoint"
}

// Validate confirms the site is reachable with the current credentials.
func (s *Store) Validate(ctx context.Context) error {
	var web struct {
		Title string `json:"Title"`
	}
	if err := s.getJSON(ctx, s.siteURL+"/_api/web", &web); err != nil {
		return fmt.Errorf("sharepoint: validate site: %w", err)
	}
	return nil
}

// spFile is a file entry in a folder listing.
type spFile struct {
	Name              string `json:"Name"`
	ServerRelativeURL string `json:"ServerRelativeUrl"`
	TimeCreated       string `json:"TimeCreated"`
}

// spFolder is a subfolder entry in a folder listing.
type spFolder struct {
	Name              string `json:"Name"`
	ServerRelativeURL string `json:"ServerRelativeUrl"`
}

// List returns the files and subfolders directly under the
// server-relative path. Creation timestamps are site-local; the walker
// applies the configured offset.
func (s *Store) List(ctx context.Context, path string) ([]driven.RemoteEntry, error) {
	endpoint := fmt.Sprintf(
		"%s/_api/web/GetFolderByServerRelativePath(decodedurl='%s')?$expand=Files,Folders",
		s.siteURL, escapePath(path))

	var listing struct {
		Files   []spFile   `json:"Files"`
		Folders []spFolder `json:"Folders"`
	}
	if err := s.getJSON(ctx, endpoint, &listing); err != nil {
		return nil, fmt.Errorf("sharepoint: list %s: %w", path, err)
	}

	entries := make([]driven.RemoteEntry, 0, len(listing.Files)+len(listing.Folders))
	for _, f := range listing.Files {
		created, err := time.Parse(createdLayout, f.TimeCreated)
		if err != nil {
			return nil, fmt.Errorf("sharepoint: parse TimeCreated %q for %s: %w",
				f.TimeCreated, f.ServerRelativeURL, err)
		}
		entries = append(entries, driven.RemoteEntry{
			Name:    f.Name,
			Path:    f.ServerRelativeURL,
			Created: created,
		})
	}
	for _, f := range listing.Folders {
		entries = append(entries, driven.RemoteEntry{
			Name:  f.Name,
			Path:  f.ServerRelativeURL,
			IsDir: true,
		})
	}
	return entries, nil
}

// Download streams the file at the server-relative path into w.
func (s *Store) Download(ctx context.Context, path string, w io.Writer) error {
	endpoint := fmt.Sprintf(
		"%s/_api/web/GetFileByServerRelativePath(decodedurl='%s')/$value",
		s.siteURL, escapePath(path))

	resp, err := s.get(ctx, endpoint, "")
	if err != nil {
		return fmt.Errorf("sharepoint: download %s: %w", path, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("sharepoint: download %s: %w", path, err)
	}
	return nil
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := s.get(ctx, endpoint, "application/json;odata=nometadata")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *Store) get(ctx context.Context, endpoint, accept string) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %s", resp.Status, snippet)
	}
	return resp, nil
}

// escapePath encodes a server-relative path for the decodedurl='...'
// literal: single quotes double, segments percent-encode, slashes stay.
func escapePath(path string) string {
	u := url.URL{Path: strings.ReplaceAll(path, "'", "''")}
	return u.EscapedPath()
}
