package loaders

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Ensure PDF implements the interface.
var _ driven.DocumentLoader = (*PDF)(nil)

// PDF extracts text from PDF documents by shelling out to pdftotext
// (poppler). Page breaks arrive as form feeds and are rewritten to
// paragraph breaks so the chunker can snap to them.
type PDF struct {
	runner driven.CommandRunner
}

// NewPDF creates a new PDF loader using the real pdftotext binary.
func NewPDF() *PDF {
	return &PDF{runner: execRunner{}}
}

// NewPDFWithRunner creates a PDF loader with a custom command runner.
// Used in tests.
func NewPDFWithRunner(runner driven.CommandRunner) *PDF {
	return &PDF{runner: runner}
}

// Extensions returns the file extensions this loader handles.
func (l *PDF) Extensions() []string {
	return []string{".pdf"}
}

// Load extracts the PDF's text page by page.
func (l *PDF) Load(ctx context.Context, path string) (string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", ErrPDFToolNotFound
	}

	out, err := l.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", "-nopgbrk", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}

	text := strings.ReplaceAll(string(out), "\f", "\n\n")
	return strings.TrimSpace(text), nil
}

// InstallInstructions returns guidance for installing pdftotext.
func InstallInstructions() string {
	return "PDF extraction requires pdftotext (poppler).\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils"
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
