package driven

import "context"

// DocumentLoader extracts plain text from one document format.
type DocumentLoader interface {
	// Extensions returns the file extensions this loader handles,
	// lowercased with leading dot.
	Extensions() []string

	// Load reads the file at path and returns its extractable text.
	Load(ctx context.Context, path string) (string, error)
}

// LoaderRegistry selects a DocumentLoader by file extension.
type LoaderRegistry interface {
	// Load extracts text from the file at path using the loader
	// registered for its extension. Returns domain.ErrUnsupportedType
	// when no loader matches.
	Load(ctx context.Context, path string) (string, error)
}

// CommandRunner executes an external command and returns its stdout.
// Abstracted so loaders that shell out (pdftotext) stay testable.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
