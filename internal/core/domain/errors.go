package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown remote store or document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRemoteAccess indicates a remote listing or download failure.
	// Listing failures abort the whole folder's traversal; download
	// failures are scoped to one file.
	ErrRemoteAccess = errors.New("remote access failed")

	// ErrStaging indicates a local I/O failure while writing a staged file.
	ErrStaging = errors.New("staging failed")

	// ErrChunking indicates an unreadable or corrupt document. Files
	// failing with ErrChunking are skipped, not failed: they archive
	// without ingestion.
	ErrChunking = errors.New("chunking failed")

	// ErrIngestion indicates a vector store write failure. The file is
	// left in the processing directory for retry; the store may hold a
	// partial superset of the file's chunks.
	ErrIngestion = errors.New("ingestion failed")

	// ErrSearch indicates a retrieval failure. Callers treat it as
	// "no context available" rather than a hard failure.
	ErrSearch = errors.New("search failed")

	// ErrWatermarkPersist indicates the watermark could not be read or
	// written. This is the only run-fatal error class: silent failure
	// here risks lost updates or unbounded re-processing.
	ErrWatermarkPersist = errors.New("watermark persistence failed")

	// ErrDeadLettered indicates a file exceeded its retry budget and is
	// no longer staged automatically.
	ErrDeadLettered = errors.New("file dead-lettered")
)

// RemoteAccessError carries the remote path that failed. It wraps
// ErrRemoteAccess so callers can match on the class with errors.Is.
type RemoteAccessError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *RemoteAccessError) Error() string {
	return fmt.Sprintf("remote access failed at %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause chain.
func (e *RemoteAccessError) Unwrap() []error {
	return []error{ErrRemoteAccess, e.Err}
}
