package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// Config is the full docsync configuration, decoded from one TOML file.
// Secrets (tenant IDs, client secrets, API keys) never live here; they
// come from the environment.
type Config struct {
	// StateDir holds the watermark file, the sqlite database, and the
	// per-folder processing and archive directories. Defaults to
	// ~/.docsync.
	StateDir string `toml:"state_dir"`

	Sync       SyncSection       `toml:"sync"`
	Chunker    ChunkerSection    `toml:"chunker"`
	Ingest     IngestSection     `toml:"ingest"`
	Chroma     ChromaSection     `toml:"chroma"`
	Retrieval  RetrievalSection  `toml:"retrieval"`
	PubMed     PubMedSection     `toml:"pubmed"`
	SharePoint SharePointSection `toml:"sharepoint"`
	GDrive     GDriveSection     `toml:"gdrive"`

	Folders []FolderSection `toml:"folders"`
}

// SyncSection configures the sync orchestrator.
type SyncSection struct {
	// Workers bounds per-file concurrency within one folder.
	Workers int `toml:"workers"`

	// MaxAttempts dead-letters a file after this many failed runs.
	MaxAttempts int `toml:"max_attempts"`

	// TZOffsetHours is added to remote creation timestamps before the
	// watermark comparison, for stores that report site-local time.
	TZOffsetHours int `toml:"tz_offset_hours"`
}

// ChunkerSection configures the text splitter.
type ChunkerSection struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// IngestSection configures batch submission to the vector store.
type IngestSection struct {
	MaxBatchSize int `toml:"max_batch_size"`
}

// ChromaSection configures the vector store connection. When
// EmbeddingURL and EmbeddingModel are both set, collections are created
// with that custom embedding endpoint; otherwise the server default
// embedding function is used.
type ChromaSection struct {
	URL            string `toml:"url"`
	EmbeddingURL   string `toml:"embedding_url"`
	EmbeddingModel string `toml:"embedding_model"`
}

// RetrievalSection configures context assembly.
type RetrievalSection struct {
	MaxContextChars int `toml:"max_context_chars"`
	MaxPassages     int `toml:"max_passages"`
	MaxArticles     int `toml:"max_articles"`
}

// PubMedSection configures the live literature search source.
type PubMedSection struct {
	// BaseURL overrides the E-utilities endpoint, mainly for tests.
	BaseURL string `toml:"base_url"`
}

// SharePointSection holds the non-secret SharePoint settings. Tenant
// ID, client ID and client secret come from the environment.
type SharePointSection struct {
	SiteURL string `toml:"site_url"`
}

// GDriveSection holds the Google Drive settings.
type GDriveSection struct {
	// CredentialsFile is the path to a service account JSON key.
	CredentialsFile string `toml:"credentials_file"`
}

// FolderSection is one watched source folder. ProcessingDir and
// ArchiveDir are optional; when empty they derive from the state dir.
type FolderSection struct {
	Name          string   `toml:"name"`
	Type          string   `toml:"type"`
	RemotePath    string   `toml:"remote_path"`
	Collection    string   `toml:"collection"`
	Extensions    []string `toml:"extensions"`
	ProcessingDir string   `toml:"processing_dir"`
	ArchiveDir    string   `toml:"archive_dir"`
}

// Load reads and validates the configuration at path. A missing file is
// an error: sync without source folders is meaningless.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.StateDir = filepath.Join(home, ".docsync")
		} else {
			c.StateDir = ".docsync"
		}
	}
	if c.Sync.Workers <= 0 {
		c.Sync.Workers = 4
	}
	if c.Sync.MaxAttempts <= 0 {
		c.Sync.MaxAttempts = 5
	}
	if c.Chunker.ChunkSize <= 0 {
		c.Chunker.ChunkSize = 1000
	}
	if c.Chunker.ChunkOverlap <= 0 {
		c.Chunker.ChunkOverlap = 200
	}
	if c.Ingest.MaxBatchSize <= 0 {
		c.Ingest.MaxBatchSize = 250
	}
	if c.Chroma.URL == "" {
		c.Chroma.URL = "http://localhost:8000"
	}
}

func (c *Config) validate() error {
	if len(c.Folders) == 0 {
		return fmt.Errorf("%w: no source folders configured", domain.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(c.Folders))
	for i, f := range c.Folders {
		if f.Name == "" {
			return fmt.Errorf("%w: folders[%d]: name is required", domain.ErrInvalidInput, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate folder name %q", domain.ErrInvalidInput, f.Name)
		}
		seen[f.Name] = true

		switch f.Type {
		case "sharepoint", "gdrive":
		default:
			return fmt.Errorf("%w: folder %q: unknown type %q", domain.ErrInvalidInput, f.Name, f.Type)
		}
		if f.RemotePath == "" {
			return fmt.Errorf("%w: folder %q: remote_path is required", domain.ErrInvalidInput, f.Name)
		}
		if f.Collection == "" {
			return fmt.Errorf("%w: folder %q: collection is required", domain.ErrInvalidInput, f.Name)
		}
		if len(f.Extensions) == 0 {
			return fmt.Errorf("%w: folder %q: extensions is required", domain.ErrInvalidInput, f.Name)
		}
		for _, ext := range f.Extensions {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("%w: folder %q: extension %q must start with a dot",
					domain.ErrInvalidInput, f.Name, ext)
			}
		}
	}
	return nil
}

// SourceFolders converts the folder sections into domain folders,
// filling the derived local directories.
func (c *Config) SourceFolders() []domain.SourceFolder {
	folders := make([]domain.SourceFolder, 0, len(c.Folders))
	for _, f := range c.Folders {
		processing := f.ProcessingDir
		if processing == "" {
			processing = filepath.Join(c.StateDir, "processing", f.Name)
		}
		archive := f.ArchiveDir
		if archive == "" {
			archive = filepath.Join(c.StateDir, "archived", f.Name)
		}
		folders = append(folders, domain.SourceFolder{
			Name:          f.Name,
			Type:          f.Type,
			RemotePath:    f.RemotePath,
			Collection:    f.Collection,
			Extensions:    f.Extensions,
			ProcessingDir: processing,
			ArchiveDir:    archive,
		})
	}
	return folders
}

// Embedding resolves the embedding binding used at collection creation.
func (c *Config) Embedding() domain.EmbeddingConfig {
	if c.Chroma.EmbeddingURL != "" && c.Chroma.EmbeddingModel != "" {
		return domain.CustomEmbedding(c.Chroma.EmbeddingURL, c.Chroma.EmbeddingModel)
	}
	return domain.DefaultEmbedding()
}

// WatermarkPath returns the watermark file location under the state dir.
func (c *Config) WatermarkPath() string {
	return filepath.Join(c.StateDir, "watermark.toml")
}

// DatabasePath returns the sqlite database location under the state dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.StateDir, "docsync.db")
}
