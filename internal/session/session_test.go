package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammyCodex/DocAI/internal/domain/chatModel"
	"github.com/ammyCodex/DocAI/internal/index"
)

func newTurn(i int) chatModel.Turn {
	at := time.Date(2025, 3, 1, 12, 0, i, 0, time.UTC)
	return chatModel.NewTurn(fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i), at, at.Add(time.Second))
}

func TestFileStore_AppendAndLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), 10)
	require.NoError(t, err)

	sessionID := store.NewSessionID()
	require.NoError(t, store.AppendTurn(sessionID, newTurn(1)))
	require.NoError(t, store.AppendTurn(sessionID, newTurn(2)))

	turns, err := store.LoadRecent(sessionID, 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "question 1", turns[0].Question)
	assert.Equal(t, "question 2", turns[1].Question)
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, 10)
	require.NoError(t, err)

	sessionID := store.NewSessionID()
	require.NoError(t, store.AppendTurn(sessionID, newTurn(1)))

	reopened, err := NewStore(root, 10)
	require.NoError(t, err)
	turns, err := reopened.LoadRecent(sessionID, 0)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "answer 1", turns[0].Answer)
}

func TestFileStore_CapsHistoryAtMaxTurns(t *testing.T) {
	store, err := NewStore(t.TempDir(), 3)
	require.NoError(t, err)

	sessionID := store.NewSessionID()
	for i := 1; i <= 5; i++ {
		require.NoError(t, store.AppendTurn(sessionID, newTurn(i)))
	}

	turns, err := store.LoadRecent(sessionID, 0)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "question 3", turns[0].Question)
	assert.Equal(t, "question 5", turns[2].Question)
}

func TestFileStore_LoadRecentLimitsToNewestN(t *testing.T) {
	store, err := NewStore(t.TempDir(), 10)
	require.NoError(t, err)

	sessionID := store.NewSessionID()
	for i := 1; i <= 4; i++ {
		require.NoError(t, store.AppendTurn(sessionID, newTurn(i)))
	}

	turns, err := store.LoadRecent(sessionID, 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "question 3", turns[0].Question)
	assert.Equal(t, "question 4", turns[1].Question)
}

func TestFileStore_CorruptHistoryTreatedAsEmpty(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, 10)
	require.NoError(t, err)

	sessionID := store.NewSessionID()
	dir := filepath.Join(root, sessionID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("{not json"), 0o644))

	turns, err := store.LoadRecent(sessionID, 0)
	require.NoError(t, err)
	assert.Empty(t, turns)

	require.NoError(t, store.AppendTurn(sessionID, newTurn(1)))
	turns, err = store.LoadRecent(sessionID, 0)
	require.NoError(t, err)
	require.Len(t, turns, 1)
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir(), 10)
	require.NoError(t, err)

	sessionID := store.NewSessionID()
	require.NoError(t, store.AppendTurn(sessionID, newTurn(1)))
	require.NoError(t, store.Clear(sessionID))
	require.NoError(t, store.Clear(sessionID))

	turns, err := store.LoadRecent(sessionID, 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestFileStore_ReapExpiredRemovesOnlyOldSessions(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, 10)
	require.NoError(t, err)

	oldSession := store.NewSessionID()
	freshSession := store.NewSessionID()
	require.NoError(t, store.AppendTurn(oldSession, newTurn(1)))
	require.NoError(t, store.AppendTurn(freshSession, newTurn(1)))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, oldSession), stale, stale))

	removed := store.ReapExpired(24 * time.Hour)
	assert.Equal(t, 1, removed)

	turns, err := store.LoadRecent(oldSession, 0)
	require.NoError(t, err)
	assert.Empty(t, turns)

	turns, err = store.LoadRecent(freshSession, 0)
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestRegistry_PublishGetDrop(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	idx, err := index.NewFlat([][]float32{{1, 0}, {0, 1}})
	require.NoError(t, err)

	_, _, ok := reg.Get("s1")
	assert.False(t, ok)

	reg.Publish(ctx, "s1", idx, []string{"a", "b"})
	got, chunks, ok := reg.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, []string{"a", "b"}, chunks)

	reg.Drop(ctx, "s1")
	_, _, ok = reg.Get("s1")
	assert.False(t, ok)
}

func TestRegistry_PublishReplacesPreviousIndex(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	first, err := index.NewFlat([][]float32{{1}})
	require.NoError(t, err)
	second, err := index.NewFlat([][]float32{{1}, {2}, {3}})
	require.NoError(t, err)

	reg.Publish(ctx, "s1", first, []string{"one"})
	reg.Publish(ctx, "s1", second, []string{"one", "two", "three"})

	got, chunks, ok := reg.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 3, got.Len())
	assert.Len(t, chunks, 3)
}
