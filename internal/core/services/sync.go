package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docsync/internal/chunker"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncRunner = (*SyncOrchestrator)(nil)

// SyncConfig holds the orchestrator's scalar knobs.
type SyncConfig struct {
	// Workers bounds per-file concurrency within one folder. Values
	// below one mean sequential processing.
	Workers int

	// MaxAttempts dead-letters a file after this many failed runs.
	// Zero disables dead-lettering.
	MaxAttempts int
}

// SyncOrchestrator drives one delta-sync pass: list new remote files,
// stage them locally, chunk, ingest in bounded batches, archive, and
// finally advance the watermark when and only when every folder
// finished without error. A failed file stays in its processing
// directory and is retried on the next run.
type SyncOrchestrator struct {
	folders    []domain.SourceFolder
	factory    driven.RemoteStoreFactory
	watermarks driven.WatermarkStore
	attempts   driven.AttemptStore
	loaders    driven.LoaderRegistry
	splitter   *chunker.Splitter
	ingestor   *BatchIngestor
	walker     *TreeWalker
	stager     *Stager
	archiver   *Archiver
	cfg        SyncConfig

	// Status tracking
	mu      sync.RWMutex
	current *driving.SyncStatus
}

// NewSyncOrchestrator creates a sync orchestrator. The attempts store
// is optional; when nil, failed files are retried indefinitely.
func NewSyncOrchestrator(
	folders []domain.SourceFolder,
	factory driven.RemoteStoreFactory,
	watermarks driven.WatermarkStore,
	attempts driven.AttemptStore,
	loaders driven.LoaderRegistry,
	splitter *chunker.Splitter,
	ingestor *BatchIngestor,
	walker *TreeWalker,
	cfg SyncConfig,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		folders:    folders,
		factory:    factory,
		watermarks: watermarks,
		attempts:   attempts,
		loaders:    loaders,
		splitter:   splitter,
		ingestor:   ingestor,
		walker:     walker,
		stager:     NewStager(),
		archiver:   NewArchiver(),
		cfg:        cfg,
	}
}

// Run executes one pass over all configured source folders.
func (o *SyncOrchestrator) Run(ctx context.Context) (*domain.RunReport, error) {
	return o.run(ctx, o.folders, true)
}

// RunFolder executes one pass restricted to a single folder. The
// watermark is never advanced: a restricted pass cannot prove the other
// folders' windows are clean.
func (o *SyncOrchestrator) RunFolder(ctx context.Context, name string) (*domain.RunReport, error) {
	for _, folder := range o.folders {
		if folder.Name == name {
			return o.run(ctx, []domain.SourceFolder{folder}, false)
		}
	}
	return nil, fmt.Errorf("%w: source folder %q", domain.ErrNotFound, name)
}

// Status returns progress for the in-flight pass, if any.
func (o *SyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.current == nil {
		return &driving.SyncStatus{}, nil
	}
	// Return a copy to avoid race conditions
	return &driving.SyncStatus{
		Running:        o.current.Running,
		FilesProcessed: o.current.FilesProcessed,
		ErrorCount:     o.current.ErrorCount,
	}, nil
}

func (o *SyncOrchestrator) run(
	ctx context.Context, folders []domain.SourceFolder, mayAdvance bool,
) (*domain.RunReport, error) {
	start := time.Now()

	watermark, err := o.watermarks.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: load: %v", domain.ErrWatermarkPersist, err)
		}
		// First ever run: everything is new
		watermark = time.Time{}
	}

	o.setStatus(&driving.SyncStatus{Running: true})
	defer o.clearStatus()

	logger.Section("Sync Pass")
	logger.Info("Watermark: %s, folders: %d", domain.FormatWatermark(watermark), len(folders))

	report := &domain.RunReport{
		RunID:     uuid.New().String(),
		StartedAt: start,
		Folders:   make([]domain.FolderOutcome, len(folders)),
	}

	// Folders share no mutable state; the watermark write is the join
	// barrier after dispatch.
	var wg sync.WaitGroup
	for i := range folders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report.Folders[i] = o.syncFolder(ctx, folders[i], watermark)
		}(i)
	}
	wg.Wait()

	report.FinishedAt = time.Now()

	if mayAdvance && !report.Failed() {
		// The new watermark is the run START time: files created while
		// the pass ran are re-listed next time rather than lost.
		if err := o.watermarks.Save(ctx, start); err != nil {
			return report, fmt.Errorf("%w: save: %v", domain.ErrWatermarkPersist, err)
		}
		report.WatermarkAdvanced = true
		logger.Info("Watermark advanced to %s", domain.FormatWatermark(start))
	} else if report.Failed() {
		logger.Warn("Run recorded failures; watermark unchanged")
	}

	return report, nil
}

// syncFolder processes one source folder. A listing failure aborts the
// folder; a per-file failure stops only that file.
func (o *SyncOrchestrator) syncFolder(
	ctx context.Context, folder domain.SourceFolder, watermark time.Time,
) domain.FolderOutcome {
	outcome := domain.FolderOutcome{Folder: folder.Name}

	store, err := o.factory.Create(ctx, folder)
	if err != nil {
		outcome.ListErr = &domain.RemoteAccessError{Path: folder.RemotePath, Err: err}
		return outcome
	}
	defer store.Close()

	if err := store.Validate(ctx); err != nil {
		outcome.ListErr = &domain.RemoteAccessError{Path: folder.RemotePath, Err: err}
		return outcome
	}

	refs, err := o.walker.ListNewFiles(ctx, store, folder, watermark)
	if err != nil {
		outcome.ListErr = err
		return outcome
	}
	logger.Info("Folder %s: %d new files", folder.Name, len(refs))

	workers := o.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]domain.FileOutcome, len(refs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, ref domain.RemoteFileRef) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = o.processFile(ctx, store, folder, ref)
		}(i, ref)
	}
	wg.Wait()

	outcome.Files = outcomes
	return outcome
}

// processFile runs the strictly sequential per-file pipeline:
// stage, chunk, ingest, archive.
func (o *SyncOrchestrator) processFile(
	ctx context.Context,
	store driven.RemoteStore,
	folder domain.SourceFolder,
	ref domain.RemoteFileRef,
) domain.FileOutcome {
	outcome := domain.FileOutcome{Ref: ref, Folder: folder.Name}

	if o.attempts != nil && o.cfg.MaxAttempts > 0 {
		n, err := o.attempts.Attempts(ctx, folder.Name, ref.Path)
		if err == nil && n >= o.cfg.MaxAttempts {
			logger.Warn("Dead-lettered after %d attempts, skipping: %s", n, ref.Path)
			outcome.Skipped = true
			return outcome
		}
	}

	localPath, err := o.stager.Stage(ctx, store, ref, folder)
	if err != nil {
		return o.fail(ctx, outcome, domain.StageStaging, err)
	}

	text, err := o.loaders.Load(ctx, localPath)
	if err != nil {
		// Unreadable documents are a skip, not a failure: archive
		// without ingestion so the pipeline keeps moving.
		logger.Warn("Unreadable document %s: %v", ref.Name, err)
		text = ""
	}

	chunks := o.splitter.Split(text)
	fileID := folder.Name + "/" + ref.Name
	for i := range chunks {
		chunks[i].FileID = fileID
		chunks[i].Metadata = map[string]string{
			"source": ref.Name,
			"folder": folder.Name,
			"path":   ref.Path,
		}
	}

	if len(chunks) > 0 {
		if err := o.ingestor.Ingest(ctx, folder.Collection, chunks); err != nil {
			return o.fail(ctx, outcome, domain.StageIngest, err)
		}
	} else {
		logger.Info("Empty document %s: archiving without ingestion", ref.Name)
	}

	if err := o.archiver.Archive(localPath, folder); err != nil {
		return o.fail(ctx, outcome, domain.StageArchive, err)
	}

	if o.attempts != nil {
		// Best effort: a stale attempt row only delays dead-lettering
		if err := o.attempts.Clear(ctx, folder.Name, ref.Path); err != nil {
			logger.Debug("Clear attempts for %s: %v", ref.Path, err)
		}
	}

	outcome.Chunks = len(chunks)
	o.addProcessed()
	logger.Debug("Processed %s (%d chunks)", ref.Name, len(chunks))
	return outcome
}

func (o *SyncOrchestrator) fail(
	ctx context.Context, outcome domain.FileOutcome, stage domain.Stage, err error,
) domain.FileOutcome {
	outcome.Stage = stage
	outcome.Err = err
	logger.Warn("File %s failed at %s: %v", outcome.Ref.Path, stage, err)

	if o.attempts != nil {
		if recErr := o.attempts.Record(ctx, outcome.Folder, outcome.Ref.Path, err); recErr != nil {
			logger.Debug("Record attempt for %s: %v", outcome.Ref.Path, recErr)
		}
	}
	o.addError()
	return outcome
}

func (o *SyncOrchestrator) setStatus(status *driving.SyncStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = status
}

func (o *SyncOrchestrator) clearStatus() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = nil
}

func (o *SyncOrchestrator) addProcessed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		o.current.FilesProcessed++
	}
}

func (o *SyncOrchestrator) addError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		o.current.ErrorCount++
	}
}
