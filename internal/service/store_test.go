package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"episode_syncer/internal/domain"
)

func TestEpisodeCountStore_GetPrefersExactMatch(t *testing.T) {
	store := NewEpisodeCountStore(&domain.SyncState{
		Counts: map[domain.ShowID]int{"abc": 1, "ABC": 2},
	})

	n, ok := store.Get("ABC")
	require.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = store.Get("abc")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = store.Get("Abc")
	assert.True(t, ok)

	_, ok = store.Get("xyz")
	assert.False(t, ok)
}

func TestEpisodeCountStore_UpsertOverwritesCaseInsensitively(t *testing.T) {
	store := NewEpisodeCountStore(&domain.SyncState{
		Counts: map[domain.ShowID]int{"tt01": 5},
	})

	store.Upsert("TT01", 6)
	store.Upsert("new", 1)

	snapshot := store.Snapshot()
	assert.Equal(t, map[domain.ShowID]int{"tt01": 6, "new": 1}, snapshot.Counts)
	assert.Equal(t, 2, store.Len())
}

func TestEpisodeCountStore_NilState(t *testing.T) {
	store := NewEpisodeCountStore(nil)

	_, ok := store.Cursor()
	assert.False(t, ok)
	assert.False(t, store.Failed())
	assert.Empty(t, store.KnownIDs())

	store.SetCursor("123")
	store.SetFailed(true)

	cursor, ok := store.Cursor()
	assert.True(t, ok)
	assert.Equal(t, "123", cursor)
	assert.True(t, store.Failed())
}

func TestEpisodeCountStore_Prune(t *testing.T) {
	store := NewEpisodeCountStore(&domain.SyncState{
		Counts: map[domain.ShowID]int{"A": 1, "b": 2, "C": 3},
	})

	removed := store.Prune([]domain.ShowID{"a", "B"})

	assert.Equal(t, 1, removed)
	assert.ElementsMatch(t, []domain.ShowID{"A", "b"}, store.KnownIDs())
	_, ok := store.Get("c")
	assert.False(t, ok)
}

func TestEpisodeCountStore_SnapshotIsDetached(t *testing.T) {
	store := NewEpisodeCountStore(nil)
	store.Upsert("A", 1)
	store.SetCursor("1")

	snapshot := store.Snapshot()
	store.Upsert("A", 2)
	store.SetCursor("2")

	assert.Equal(t, 1, snapshot.Counts["A"])
	assert.Equal(t, "1", *snapshot.LastUpdateTime)
}
