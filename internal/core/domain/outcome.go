package domain

import "time"

// Stage identifies where in the per-file pipeline an outcome occurred.
type Stage int

const (
	// StageStaging is the download into the processing directory.
	StageStaging Stage = iota

	// StageChunking is text extraction and splitting.
	StageChunking

	// StageIngest is batch submission to the vector store.
	StageIngest

	// StageArchive is the processing-to-archive move.
	StageArchive
)

// String returns the stage name for logs and reports.
func (s Stage) String() string {
	switch s {
	case StageStaging:
		return "staging"
	case StageChunking:
		return "chunking"
	case StageIngest:
		return "ingest"
	case StageArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// FileOutcome records the result of one file's pipeline pass.
// A failed file stays in the processing directory for retry.
type FileOutcome struct {
	// Ref is the remote file this outcome describes.
	Ref RemoteFileRef

	// Folder is the owning source folder name.
	Folder string

	// Chunks is the number of chunks ingested. Zero for empty
	// documents, which archive vacuously.
	Chunks int

	// Skipped is true when the file was not attempted (dead-lettered).
	Skipped bool

	// Stage is the stage that failed, meaningful only when Err != nil.
	Stage Stage

	// Err is the failure cause, nil on success.
	Err error
}

// Success reports whether the file completed its pipeline. Skipped
// files are neither successes nor failures.
func (o FileOutcome) Success() bool {
	return o.Err == nil && !o.Skipped
}

// FolderOutcome aggregates one source folder's results for a run.
type FolderOutcome struct {
	// Folder is the source folder name.
	Folder string

	// ListErr is set when remote traversal failed. No files were
	// attempted in that case.
	ListErr error

	// Files holds per-file outcomes in completion order.
	Files []FileOutcome
}

// Failed reports whether this folder blocks watermark advancement.
// Dead-lettered skips do not count: abandoning a file past its retry
// budget is the point of dead-lettering.
func (o FolderOutcome) Failed() bool {
	if o.ListErr != nil {
		return true
	}
	for _, f := range o.Files {
		if f.Err != nil {
			return true
		}
	}
	return false
}

// Processed returns the number of files that completed successfully.
func (o FolderOutcome) Processed() int {
	n := 0
	for _, f := range o.Files {
		if f.Success() {
			n++
		}
	}
	return n
}

// RunReport is the overall result of one sync pass.
type RunReport struct {
	// RunID uniquely identifies the pass.
	RunID string

	// StartedAt is the run start time. On full success it becomes the
	// new watermark.
	StartedAt time.Time

	// FinishedAt is when the pass completed.
	FinishedAt time.Time

	// Folders holds per-folder outcomes in configuration order.
	Folders []FolderOutcome

	// WatermarkAdvanced is true when every folder succeeded and the new
	// watermark was persisted.
	WatermarkAdvanced bool
}

// Failed reports whether any folder recorded a failure.
func (r *RunReport) Failed() bool {
	for _, f := range r.Folders {
		if f.Failed() {
			return true
		}
	}
	return false
}

// QueryLogEntry is one recorded retrieval invocation.
type QueryLogEntry struct {
	ID           string
	Query        string
	Collection   string
	ContextChars int
	SourceCount  int
	Elapsed      time.Duration
	CreatedAt    time.Time
}

// FileAttempt tracks repeated failures for one remote file. Files whose
// attempt count reaches the configured budget are dead-lettered.
type FileAttempt struct {
	Folder      string
	Path        string
	Attempts    int
	LastError   string
	LastAttempt time.Time
}
