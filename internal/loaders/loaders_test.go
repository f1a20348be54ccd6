package loaders

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func TestRegistry_UnsupportedExtension(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Load(context.Background(), "/tmp/file.xyz")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "NOTES.TXT")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	text, err := DefaultRegistry().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestPlaintext_NormalisesLineEndings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\r\nline two\r\n"), 0600))

	text, err := NewPlaintext().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", text)
}

func TestPlaintext_MissingFile(t *testing.T) {
	_, err := NewPlaintext().Load(context.Background(), "/nonexistent/doc.txt")
	assert.Error(t, err)
}

// writeDOCX builds a minimal docx archive for testing.
func writeDOCX(t *testing.T, path, documentXML string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func TestDOCX_ExtractsParagraphs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")
	writeDOCX(t, path, `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>First paragraph.</t></r></p>
    <p><r><t>Second </t></r><r><t>paragraph.</t></r></p>
  </body>
</document>`)

	text, err := NewDOCX().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

func TestDOCX_NotAnArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain bytes"), 0600))

	_, err := NewDOCX().Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDOCX_MissingDocumentXML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	text, err := NewDOCX().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, text)
}

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestPDF_RewritesPageBreaks(t *testing.T) {
	if _, err := os.Stat("/usr/bin/pdftotext"); err != nil {
		t.Skip("pdftotext not installed, LookPath would fail before the runner")
	}

	loader := NewPDFWithRunner(&mockRunner{output: []byte("page one\fpage two\n")})
	text, err := loader.Load(context.Background(), "/tmp/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two", text)
}

func TestPDF_RunnerError(t *testing.T) {
	if _, err := os.Stat("/usr/bin/pdftotext"); err != nil {
		t.Skip("pdftotext not installed, LookPath would fail before the runner")
	}

	loader := NewPDFWithRunner(&mockRunner{err: errors.New("exit status 1")})
	_, err := loader.Load(context.Background(), "/tmp/doc.pdf")
	assert.Error(t, err)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}
