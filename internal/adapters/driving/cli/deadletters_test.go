package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func TestDeadlettersCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("deadletters")
	require.NoError(t, err)
	assert.Contains(t, out, "No dead-lettered files.")
}

func TestDeadlettersCmd_ListsFiles(t *testing.T) {
	s, cleanup := setupTestServices()
	defer cleanup()
	s.attempts.dead = []domain.FileAttempt{
		{Folder: "research", Path: "/remote/cursed.pdf", Attempts: 5, LastError: "parse error"},
	}

	out, err := execute("deadletters")
	require.NoError(t, err)
	assert.Contains(t, out, "research /remote/cursed.pdf (5 attempts)")
	assert.Contains(t, out, "last error: parse error")
}
