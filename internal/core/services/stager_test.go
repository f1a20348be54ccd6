package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func stagerFolder(t *testing.T) domain.SourceFolder {
	t.Helper()
	base := t.TempDir()
	return domain.SourceFolder{
		Name:          "research",
		RemotePath:    "/remote/research",
		ProcessingDir: filepath.Join(base, "processing"),
		ArchiveDir:    filepath.Join(base, "archived"),
	}
}

func TestStage_DownloadsIntoProcessingDir(t *testing.T) {
	store := newMockRemoteStore()
	store.addFile("/remote/research", "paper.txt", time.Now(), []byte("hello"))
	folder := stagerFolder(t)
	ref := domain.RemoteFileRef{Path: "/remote/research/paper.txt", Name: "paper.txt"}

	localPath, err := NewStager().Stage(context.Background(), store, ref, folder)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(folder.ProcessingDir, "paper.txt"), localPath)
	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestStage_OverwritesLeftoverFromFailedRun(t *testing.T) {
	store := newMockRemoteStore()
	store.addFile("/remote/research", "paper.txt", time.Now(), []byte("fresh"))
	folder := stagerFolder(t)
	require.NoError(t, os.MkdirAll(folder.ProcessingDir, 0o750))
	leftover := filepath.Join(folder.ProcessingDir, "paper.txt")
	require.NoError(t, os.WriteFile(leftover, []byte("stale partial bytes"), 0o640))

	ref := domain.RemoteFileRef{Path: "/remote/research/paper.txt", Name: "paper.txt"}
	localPath, err := NewStager().Stage(context.Background(), store, ref, folder)
	require.NoError(t, err)

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestStage_RemovesPartialFileOnDownloadError(t *testing.T) {
	store := newMockRemoteStore()
	store.addFile("/remote/research", "paper.txt", time.Now(), []byte("x"))
	store.failDownload["/remote/research/paper.txt"] = errors.New("connection reset")
	folder := stagerFolder(t)

	ref := domain.RemoteFileRef{Path: "/remote/research/paper.txt", Name: "paper.txt"}
	_, err := NewStager().Stage(context.Background(), store, ref, folder)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStaging)
	assert.Empty(t, listDir(t, folder.ProcessingDir), "no torn file left behind")
}

func TestArchive_MovesFileOutOfProcessing(t *testing.T) {
	folder := stagerFolder(t)
	require.NoError(t, os.MkdirAll(folder.ProcessingDir, 0o750))
	staged := filepath.Join(folder.ProcessingDir, "paper.txt")
	require.NoError(t, os.WriteFile(staged, []byte("content"), 0o640))

	require.NoError(t, NewArchiver().Archive(staged, folder))

	assert.NoFileExists(t, staged)
	data, err := os.ReadFile(filepath.Join(folder.ArchiveDir, "paper.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestArchive_OverwritesExistingArchivedCopy(t *testing.T) {
	folder := stagerFolder(t)
	require.NoError(t, os.MkdirAll(folder.ProcessingDir, 0o750))
	require.NoError(t, os.MkdirAll(folder.ArchiveDir, 0o750))

	old := filepath.Join(folder.ArchiveDir, "paper.txt")
	require.NoError(t, os.WriteFile(old, []byte("old edition"), 0o640))

	staged := filepath.Join(folder.ProcessingDir, "paper.txt")
	require.NoError(t, os.WriteFile(staged, []byte("new edition"), 0o640))

	require.NoError(t, NewArchiver().Archive(staged, folder))

	data, err := os.ReadFile(old)
	require.NoError(t, err)
	assert.Equal(t, "new edition", string(data), "newest ingested copy wins")
}

func TestArchive_MissingStagedFile(t *testing.T) {
	folder := stagerFolder(t)
	err := NewArchiver().Archive(filepath.Join(folder.ProcessingDir, "ghost.txt"), folder)
	assert.Error(t, err)
}
