package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// DefaultSlot is the key the watchlist collection is stored under
const DefaultSlot = "watchlist"

// Bucket names
var (
	bucketWatchlist = []byte("watchlist")
	bucketMeta      = []byte("meta")
)

// ErrCorrupt is returned when a stored value cannot be decoded
var ErrCorrupt = errors.New("stored data is corrupt")

// meta keys
const keySavedAt = "saved_at"

// WatchlistStore implements domain.WatchlistStorage using BoltDB.
type WatchlistStore struct {
	db   *bolt.DB
	slot string
	mu   sync.RWMutex // Protects memory cache

	// In-memory copy of every slot read or written (promoted on access)
	cache map[string][]byte
}

// NewWatchlistStore opens (or creates) the database at path. An empty path
// gives a memory-only store that forgets everything on exit.
func NewWatchlistStore(path, slot string) (*WatchlistStore, error) {
	if slot == "" {
		slot = DefaultSlot
	}
	if path == "" {
		return &WatchlistStore{slot: slot, cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	// A second process holding the file lock makes this fail after the timeout
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketWatchlist, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &WatchlistStore{db: db, slot: slot, cache: make(map[string][]byte)}, nil
}

// Slot returns the key this store reads and writes
func (s *WatchlistStore) Slot() string {
	return s.slot
}

// Persistent reports whether writes reach disk
func (s *WatchlistStore) Persistent() bool {
	return s.db != nil
}

func (s *WatchlistStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

// get returns the raw value for key, or nil when absent
func (s *WatchlistStore) get(bucket []byte, key string) ([]byte, error) {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, err
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, nil
}

// kv is one write for set
type kv struct {
	bucket []byte
	key    string
	value  []byte
}

// set applies all writes in a single transaction: either every key lands or none does
func (s *WatchlistStore) set(writes ...kv) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			for _, w := range writes {
				if err := tx.Bucket(w.bucket).Put([]byte(w.key), w.value); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	// Memory follows disk so a failed write is not reported back on the next read
	s.mu.Lock()
	for _, w := range writes {
		s.cache[string(w.bucket)+":"+w.key] = w.value
	}
	s.mu.Unlock()
	return nil
}

// === Watchlist ===

// LoadWatchlist returns the stored collection, or nil when nothing was ever saved
func (s *WatchlistStore) LoadWatchlist() ([]domain.WatchlistItem, error) {
	data, err := s.get(bucketWatchlist, s.slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var items []domain.WatchlistItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: watchlist slot %q: %v", ErrCorrupt, s.slot, err)
	}
	if items == nil {
		items = []domain.WatchlistItem{}
	}
	return items, nil
}

// SaveWatchlist replaces the stored collection
func (s *WatchlistStore) SaveWatchlist(items []domain.WatchlistItem) error {
	if items == nil {
		items = []domain.WatchlistItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	stamp, _ := time.Now().UTC().MarshalText()
	err = s.set(
		kv{bucketWatchlist, s.slot, data},
		kv{bucketMeta, keySavedAt + ":" + s.slot, stamp},
	)
	if err != nil {
		return fmt.Errorf("failed to write watchlist: %w", err)
	}
	return nil
}

// SavedAt returns when the slot was last written, zero when never
func (s *WatchlistStore) SavedAt() time.Time {
	data, err := s.get(bucketMeta, keySavedAt+":"+s.slot)
	if err != nil || data == nil {
		return time.Time{}
	}
	var t time.Time
	if err := t.UnmarshalText(data); err != nil {
		return time.Time{}
	}
	return t
}

// Verify interface compliance
var _ domain.WatchlistStorage = (*WatchlistStore)(nil)
