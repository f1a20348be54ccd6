// Package cli wires the cobra command tree. Services are injected via
// Configure; the root command builds the real adapter stack lazily from
// the config file on first use.
package cli

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/docsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docsync/internal/adapters/driven/remote"
	"github.com/custodia-labs/docsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docsync/internal/adapters/driven/vector/chroma"
	"github.com/custodia-labs/docsync/internal/adapters/driven/websearch/pubmed"
	"github.com/custodia-labs/docsync/internal/chunker"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/core/services"
	"github.com/custodia-labs/docsync/internal/loaders"
	"github.com/custodia-labs/docsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Tests replace these with mocks via Configure.
var (
	syncRunner  driving.SyncRunner
	assembler   driving.ContextAssembler
	vectorStore driven.VectorStore
	attempts    driven.AttemptStore
	queryLog    driven.QueryLogStore

	configured bool
	maxAttempts int
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Delta-sync document ingestion and retrieval context assembly",
	Long: `docsync keeps vector store collections in sync with remote document
folders (SharePoint, Google Drive) and assembles bounded retrieval
context for question answering.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "docsync.toml", "config file path")
}

// Deps carries the injected service set.
type Deps struct {
	SyncRunner  driving.SyncRunner
	Assembler   driving.ContextAssembler
	VectorStore driven.VectorStore
	Attempts    driven.AttemptStore
	QueryLog    driven.QueryLogStore
	MaxAttempts int
}

// Configure injects pre-built services, bypassing config-file wiring.
// Used by tests and by embedders.
func Configure(deps Deps) {
	syncRunner = deps.SyncRunner
	assembler = deps.Assembler
	vectorStore = deps.VectorStore
	attempts = deps.Attempts
	queryLog = deps.QueryLog
	maxAttempts = deps.MaxAttempts
	configured = true
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices builds the full adapter stack from the config file
// unless services were already injected.
func ensureServices() error {
	if configured {
		return nil
	}

	// Secrets come from the environment; a local .env is a convenience
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env")
	}

	cfg, err := configfile.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config %s: %w", flagConfig, err)
	}

	store, err := sqlite.NewStore(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}

	vectorStore = chroma.NewStore(chroma.Config{URL: cfg.Chroma.URL})
	attempts = store.AttemptStore()
	queryLog = store.QueryLogStore()
	maxAttempts = cfg.Sync.MaxAttempts

	factory := &remote.Factory{
		SharePointSiteURL:     cfg.SharePoint.SiteURL,
		GDriveCredentialsFile: cfg.GDrive.CredentialsFile,
	}

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunker.ChunkSize),
		chunker.WithOverlap(cfg.Chunker.ChunkOverlap),
	)
	ingestor := services.NewBatchIngestor(vectorStore, cfg.Embedding(), cfg.Ingest.MaxBatchSize)
	walker := services.NewTreeWalker(time.Duration(cfg.Sync.TZOffsetHours) * time.Hour)

	syncRunner = services.NewSyncOrchestrator(
		cfg.SourceFolders(),
		factory,
		configfile.NewWatermarkStore(cfg.WatermarkPath()),
		attempts,
		loaders.DefaultRegistry(),
		splitter,
		ingestor,
		walker,
		services.SyncConfig{
			Workers:     cfg.Sync.Workers,
			MaxAttempts: cfg.Sync.MaxAttempts,
		},
	)

	assembler = services.NewRetrievalService(
		vectorStore,
		pubmed.NewSearcher(pubmed.Config{BaseURL: cfg.PubMed.BaseURL, Tool: "docsync", Email: ""}),
		queryLog,
		services.RetrievalOptions{
			MaxContextChars: cfg.Retrieval.MaxContextChars,
			MaxPassages:     cfg.Retrieval.MaxPassages,
			MaxArticles:     cfg.Retrieval.MaxArticles,
		},
	)

	configured = true
	return nil
}
