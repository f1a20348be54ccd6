package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync [folder]", syncCmd.Use)
}

func TestSyncCmd_Short(t *testing.T) {
	assert.Equal(t, "Synchronise remote folders into the vector store", syncCmd.Short)
}

func TestSyncCmd_RunsAllFolders(t *testing.T) {
	s, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("sync")
	require.NoError(t, err)

	assert.Equal(t, 1, s.runner.runs)
	assert.Empty(t, s.runner.lastFolder)
	assert.Contains(t, out, "research: 1 processed (12 chunks)")
	assert.Contains(t, out, "Watermark advanced to 20260901120000.")
}

func TestSyncCmd_RunsSingleFolder(t *testing.T) {
	s, cleanup := setupTestServices()
	defer cleanup()
	s.runner.report.WatermarkAdvanced = false

	out, err := execute("sync", "research")
	require.NoError(t, err)

	assert.Equal(t, "research", s.runner.lastFolder)
	assert.Contains(t, out, "Watermark unchanged.")
}

func TestSyncCmd_ReportsFailures(t *testing.T) {
	s, cleanup := setupTestServices()
	defer cleanup()
	s.runner.report = &domain.RunReport{
		Folders: []domain.FolderOutcome{{
			Folder: "research",
			Files: []domain.FileOutcome{{
				Ref:   domain.RemoteFileRef{Name: "broken.pdf"},
				Stage: domain.StageIngest,
				Err:   errors.New("batch refused"),
			}},
		}},
	}

	out, err := execute("sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failures")
	assert.Contains(t, out, "broken.pdf failed at ingest: batch refused")
}

func TestSyncCmd_RunFatalError(t *testing.T) {
	s, cleanup := setupTestServices()
	defer cleanup()
	s.runner.report = nil
	s.runner.err = domain.ErrWatermarkPersist

	_, err := execute("sync")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWatermarkPersist)
}

func TestSyncCmd_RejectsExtraArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("sync", "a", "b")
	assert.Error(t, err)
}
