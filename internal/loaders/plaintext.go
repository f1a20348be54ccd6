package loaders

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Ensure Plaintext implements the interface.
var _ driven.DocumentLoader = (*Plaintext)(nil)

// Plaintext handles plain text documents.
type Plaintext struct{}

// NewPlaintext creates a new plain text loader.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Extensions returns the file extensions this loader handles.
func (l *Plaintext) Extensions() []string {
	return []string{".txt", ".text", ".md", ".markdown", ".csv", ".log"}
}

// Load reads the file and normalises line endings. Normalisation keeps
// chunk boundaries stable across files authored on different platforms.
func (l *Plaintext) Load(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return text, nil
}
