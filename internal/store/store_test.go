package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func sampleItems() []domain.WatchlistItem {
	added := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []domain.WatchlistItem{
		{ID: 550, MediaType: domain.MediaTypeMovie, Title: "Fight Club", Status: domain.StatusWatched, UserRating: 9, DateAdded: added},
		{ID: 1396, MediaType: domain.MediaTypeTV, Title: "Breaking Bad", Status: domain.StatusWantToWatch, DateAdded: added.Add(time.Hour)},
	}
}

func TestMemoryOnlyStore(t *testing.T) {
	s, err := NewWatchlistStore("", "")
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.Persistent())
	assert.Equal(t, DefaultSlot, s.Slot())

	items, err := s.LoadWatchlist()
	require.NoError(t, err)
	assert.Nil(t, items, "empty slot loads as nil")

	require.NoError(t, s.SaveWatchlist(sampleItems()))
	items, err = s.LoadWatchlist()
	require.NoError(t, err)
	assert.Equal(t, sampleItems(), items)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "cinedex.db")

	s, err := NewWatchlistStore(path, "")
	require.NoError(t, err)
	require.NoError(t, s.SaveWatchlist(sampleItems()))
	require.NoError(t, s.Close())

	reopened, err := NewWatchlistStore(path, "")
	require.NoError(t, err)
	defer reopened.Close()

	items, err := reopened.LoadWatchlist()
	require.NoError(t, err)
	assert.Equal(t, sampleItems(), items)
	assert.False(t, reopened.SavedAt().IsZero())
}

func TestSlotsAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cinedex.db")

	a, err := NewWatchlistStore(path, "alice")
	require.NoError(t, err)
	require.NoError(t, a.SaveWatchlist(sampleItems()))
	require.NoError(t, a.Close())

	b, err := NewWatchlistStore(path, "bob")
	require.NoError(t, err)
	defer b.Close()

	items, err := b.LoadWatchlist()
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestSaveEmptyCollection(t *testing.T) {
	s, err := NewWatchlistStore(filepath.Join(t.TempDir(), "cinedex.db"), "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveWatchlist(nil))
	items, err := s.LoadWatchlist()
	require.NoError(t, err)
	assert.NotNil(t, items, "a saved empty list is distinct from a never-written slot")
	assert.Empty(t, items)
}

func TestCorruptSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cinedex.db")

	db, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketWatchlist)
		if err != nil {
			return err
		}
		return b.Put([]byte(DefaultSlot), []byte("{not json"))
	}))
	require.NoError(t, db.Close())

	s, err := NewWatchlistStore(path, "")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.LoadWatchlist()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSaveWritesCollectionAndStampTogether(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cinedex.db")
	s, err := NewWatchlistStore(path, "")
	require.NoError(t, err)

	require.NoError(t, s.SaveWatchlist(sampleItems()))
	require.NoError(t, s.db.View(func(tx *bolt.Tx) error {
		assert.NotNil(t, tx.Bucket(bucketWatchlist).Get([]byte(DefaultSlot)))
		assert.NotNil(t, tx.Bucket(bucketMeta).Get([]byte(keySavedAt+":"+DefaultSlot)))
		return nil
	}))
	savedAt := s.SavedAt()
	require.False(t, savedAt.IsZero())

	// A failed transaction leaves neither key changed
	require.NoError(t, s.db.Close())
	assert.Error(t, s.SaveWatchlist(nil))

	items, err := s.LoadWatchlist()
	require.NoError(t, err)
	assert.Equal(t, sampleItems(), items)
	assert.Equal(t, savedAt, s.SavedAt())
}

func TestOpenFailsOnUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewWatchlistStore(filepath.Join(blocker, "cinedex.db"), "")
	assert.Error(t, err)
}
