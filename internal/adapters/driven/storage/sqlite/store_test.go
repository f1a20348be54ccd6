package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "docsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docsync.db")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.AttemptStore().Record(ctx, "research", "/a.pdf", errors.New("boom")))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.AttemptStore().Attempts(ctx, "research", "/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "migrations re-run idempotently, data survives reopen")
}

func TestAttempts_IncrementAndClear(t *testing.T) {
	store := newTestStore(t)
	attempts := store.AttemptStore()
	ctx := context.Background()

	n, err := attempts.Attempts(ctx, "research", "/a.pdf")
	require.NoError(t, err)
	assert.Zero(t, n, "unseen file has zero attempts")

	for i := 1; i <= 3; i++ {
		require.NoError(t, attempts.Record(ctx, "research", "/a.pdf", errors.New("transfer reset")))
		n, err = attempts.Attempts(ctx, "research", "/a.pdf")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	require.NoError(t, attempts.Clear(ctx, "research", "/a.pdf"))
	n, err = attempts.Attempts(ctx, "research", "/a.pdf")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAttempts_KeyedByFolderAndPath(t *testing.T) {
	store := newTestStore(t)
	attempts := store.AttemptStore()
	ctx := context.Background()

	require.NoError(t, attempts.Record(ctx, "alpha", "/doc.pdf", errors.New("x")))
	require.NoError(t, attempts.Record(ctx, "beta", "/doc.pdf", errors.New("x")))
	require.NoError(t, attempts.Record(ctx, "beta", "/doc.pdf", errors.New("x")))

	n, err := attempts.Attempts(ctx, "alpha", "/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = attempts.Attempts(ctx, "beta", "/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAttempts_DeadLettered(t *testing.T) {
	store := newTestStore(t)
	attempts := store.AttemptStore()
	ctx := context.Background()

	for range 5 {
		require.NoError(t, attempts.Record(ctx, "research", "/cursed.pdf", errors.New("parse error")))
	}
	for range 2 {
		require.NoError(t, attempts.Record(ctx, "research", "/flaky.pdf", errors.New("timeout")))
	}

	dead, err := attempts.DeadLettered(ctx, 5)
	require.NoError(t, err)

	require.Len(t, dead, 1)
	assert.Equal(t, "research", dead[0].Folder)
	assert.Equal(t, "/cursed.pdf", dead[0].Path)
	assert.Equal(t, 5, dead[0].Attempts)
	assert.Equal(t, "parse error", dead[0].LastError)
	assert.False(t, dead[0].LastAttempt.IsZero())
}

func TestQueryLog_RecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	queryLog := store.QueryLogStore()
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		require.NoError(t, queryLog.Record(ctx, domain.QueryLogEntry{
			ID:           uuid.New().String(),
			Query:        []string{"first", "second", "third"}[i],
			Collection:   "research_docs",
			ContextChars: 100 * (i + 1),
			SourceCount:  i,
			Elapsed:      time.Duration(i+1) * 250 * time.Millisecond,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := queryLog.Recent(ctx, 2)
	require.NoError(t, err)

	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Query, "newest first")
	assert.Equal(t, "second", recent[1].Query)
	assert.Equal(t, 300, recent[0].ContextChars)
	assert.Equal(t, 750*time.Millisecond, recent[0].Elapsed)
}

func TestQueryLog_RecentOnEmptyLog(t *testing.T) {
	store := newTestStore(t)

	recent, err := store.QueryLogStore().Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
