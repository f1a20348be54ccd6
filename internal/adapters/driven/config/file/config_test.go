package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsync.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

const validConfig = `
state_dir = "/var/lib/docsync"

[sync]
workers = 2
max_attempts = 3
tz_offset_hours = 1

[chroma]
url = "http://chroma:8000"

[[folders]]
name = "research"
type = "sharepoint"
remote_path = "/sites/docs/Shared Documents/research"
collection = "research_docs"
extensions = [".pdf", ".docx"]

[[folders]]
name = "reports"
type = "gdrive"
remote_path = "1AbCdEfG"
collection = "reports"
extensions = [".txt"]
processing_dir = "/data/reports/processing"
archive_dir = "/data/reports/archived"
`

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/docsync", cfg.StateDir)
	assert.Equal(t, 2, cfg.Sync.Workers)
	assert.Equal(t, 3, cfg.Sync.MaxAttempts)
	assert.Equal(t, 1, cfg.Sync.TZOffsetHours)
	assert.Equal(t, "http://chroma:8000", cfg.Chroma.URL)
	require.Len(t, cfg.Folders, 2)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
state_dir = "/var/lib/docsync"

[[folders]]
name = "docs"
type = "sharepoint"
remote_path = "/sites/docs"
collection = "docs"
extensions = [".pdf"]
`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Sync.Workers)
	assert.Equal(t, 5, cfg.Sync.MaxAttempts)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 250, cfg.Ingest.MaxBatchSize)
	assert.Equal(t, "http://localhost:8000", cfg.Chroma.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"no folders", `state_dir = "/tmp/x"`},
		{
			"unknown type",
			`[[folders]]
name = "x"
type = "ftp"
remote_path = "/x"
collection = "x"
extensions = [".pdf"]`,
		},
		{
			"duplicate names",
			`[[folders]]
name = "x"
type = "sharepoint"
remote_path = "/x"
collection = "x"
extensions = [".pdf"]

[[folders]]
name = "x"
type = "sharepoint"
remote_path = "/y"
collection = "y"
extensions = [".pdf"]`,
		},
		{
			"extension without dot",
			`[[folders]]
name = "x"
type = "sharepoint"
remote_path = "/x"
collection = "x"
extensions = ["pdf"]`,
		},
		{
			"missing collection",
			`[[folders]]
name = "x"
type = "sharepoint"
remote_path = "/x"
extensions = [".pdf"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.config))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSourceFolders_DerivesLocalDirs(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	folders := cfg.SourceFolders()
	require.Len(t, folders, 2)

	assert.Equal(t, filepath.Join("/var/lib/docsync", "processing", "research"),
		folders[0].ProcessingDir)
	assert.Equal(t, filepath.Join("/var/lib/docsync", "archived", "research"),
		folders[0].ArchiveDir)

	// Explicit directories are kept as given.
	assert.Equal(t, "/data/reports/processing", folders[1].ProcessingDir)
	assert.Equal(t, "/data/reports/archived", folders[1].ArchiveDir)
}

func TestEmbedding_DefaultUnlessBothFieldsSet(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.Embedding().IsDefault())

	cfg.Chroma.EmbeddingURL = "http://ollama:11434"
	assert.True(t, cfg.Embedding().IsDefault(), "model missing, stay on default")

	cfg.Chroma.EmbeddingModel = "nomic-embed-text"
	emb := cfg.Embedding()
	assert.False(t, emb.IsDefault())
	assert.Equal(t, "http://ollama:11434", emb.URL())
	assert.Equal(t, "nomic-embed-text", emb.Model())
}

func TestStatePaths(t *testing.T) {
	cfg := &Config{StateDir: "/var/lib/docsync"}
	assert.Equal(t, filepath.Join("/var/lib/docsync", "watermark.toml"), cfg.WatermarkPath())
	assert.Equal(t, filepath.Join("/var/lib/docsync", "docsync.db"), cfg.DatabasePath())
}
