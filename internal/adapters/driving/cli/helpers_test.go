package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// fakeRunner implements driving.SyncRunner with canned reports.
type fakeRunner struct {
	report     *domain.RunReport
	err        error
	lastFolder string
	runs       int
}

func (r *fakeRunner) Run(_ context.Context) (*domain.RunReport, error) {
	r.runs++
	return r.report, r.err
}

func (r *fakeRunner) RunFolder(_ context.Context, name string) (*domain.RunReport, error) {
	r.runs++
	r.lastFolder = name
	return r.report, r.err
}

func (r *fakeRunner) Status(_ context.Context) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

// fakeAssembler implements driving.ContextAssembler.
type fakeAssembler struct {
	result   *domain.AssembledContext
	err      error
	lastOpts driving.AssembleOptions
}

func (a *fakeAssembler) Assemble(
	_ context.Context, _ string, opts driving.AssembleOptions,
) (*domain.AssembledContext, error) {
	a.lastOpts = opts
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

// fakeVector implements the collection admin surface of the
// VectorStore port.
type fakeVector struct {
	collections []string
	counts      map[string]int
	deleted     []string
}

func (v *fakeVector) EnsureCollection(_ context.Context, _ string, _ domain.EmbeddingConfig, _ map[string]string) error {
	return nil
}

func (v *fakeVector) AddChunks(_ context.Context, _ string, _ []domain.Chunk) error {
	return nil
}

func (v *fakeVector) Query(_ context.Context, _, _ string, _ int) ([]domain.Passage, error) {
	return nil, nil
}

func (v *fakeVector) Count(_ context.Context, name string) (int, error) {
	return v.counts[name], nil
}

func (v *fakeVector) ListCollections(_ context.Context) ([]string, error) {
	return v.collections, nil
}

func (v *fakeVector) DeleteCollection(_ context.Context, name string) error {
	v.deleted = append(v.deleted, name)
	return nil
}

func (v *fakeVector) Close() error { return nil }

// fakeAttempts implements the dead-letter surface of the AttemptStore
// port.
type fakeAttempts struct {
	dead []domain.FileAttempt
}

func (a *fakeAttempts) Record(_ context.Context, _, _ string, _ error) error  { return nil }
func (a *fakeAttempts) Attempts(_ context.Context, _, _ string) (int, error)  { return 0, nil }
func (a *fakeAttempts) Clear(_ context.Context, _, _ string) error            { return nil }

func (a *fakeAttempts) DeadLettered(_ context.Context, _ int) ([]domain.FileAttempt, error) {
	return a.dead, nil
}

// fakeQueryLog implements driven.QueryLogStore.
type fakeQueryLog struct {
	entries []domain.QueryLogEntry
}

func (l *fakeQueryLog) Record(_ context.Context, entry domain.QueryLogEntry) error {
	l.entries = append(l.entries, entry)
	return nil
}

func (l *fakeQueryLog) Recent(_ context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	return l.entries[:limit], nil
}

// testServices holds the fakes injected by setupTestServices.
type testServices struct {
	runner    *fakeRunner
	assembler *fakeAssembler
	vector    *fakeVector
	attempts  *fakeAttempts
	queryLog  *fakeQueryLog
}

// setupTestServices injects a full fake service set and returns it with
// a cleanup that deconfigures the package.
func setupTestServices() (*testServices, func()) {
	s := &testServices{
		runner: &fakeRunner{report: &domain.RunReport{
			StartedAt:         time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
			WatermarkAdvanced: true,
			Folders: []domain.FolderOutcome{{
				Folder: "research",
				Files: []domain.FileOutcome{
					{Ref: domain.RemoteFileRef{Name: "paper.pdf"}, Chunks: 12},
				},
			}},
		}},
		assembler: &fakeAssembler{result: &domain.AssembledContext{
			Context: "assembled context",
			Sources: []domain.SourceRef{{Index: 1, Title: "T", URL: "https://example.org"}},
		}},
		vector:   &fakeVector{counts: map[string]int{}},
		attempts: &fakeAttempts{},
		queryLog: &fakeQueryLog{},
	}

	Configure(Deps{
		SyncRunner:  s.runner,
		Assembler:   s.assembler,
		VectorStore: s.vector,
		Attempts:    s.attempts,
		QueryLog:    s.queryLog,
		MaxAttempts: 5,
	})

	return s, func() {
		syncRunner = nil
		assembler = nil
		vectorStore = nil
		attempts = nil
		queryLog = nil
		configured = false
	}
}

// execute runs the root command with args and captures output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
