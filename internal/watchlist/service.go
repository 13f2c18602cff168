// Package watchlist keeps the user's tracked titles. Every transition runs under
// one lock and is followed by a full write of the collection to storage.
package watchlist

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
)

// Service owns the in-memory collection and its persistence.
type Service struct {
	mu      sync.RWMutex
	items   []domain.WatchlistItem
	storage domain.WatchlistStorage // nil = memory only
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now for dateAdded stamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the service and hydrates it from storage before returning,
// so no transition can run against an unloaded collection. Unreadable stored
// data is logged and the collection starts empty.
func NewService(storage domain.WatchlistStorage, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		items:   []domain.WatchlistItem{},
		storage: storage,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate()
	return s
}

func (s *Service) hydrate() {
	if s.storage == nil {
		return
	}
	items, err := s.storage.LoadWatchlist()
	if err != nil {
		s.logger.Warn("failed to load watchlist, starting empty", "error", err)
		return
	}
	if items == nil {
		return
	}
	s.items, _ = prepareItems(items, s.now().UTC(), func(i int, item domain.WatchlistItem, reason error) {
		s.logger.Warn("dropped stored watchlist entry",
			"index", i, "key", item.Key().String(), "title", item.Title, "reason", reason)
	})
	s.logger.Debug("loaded watchlist", "count", len(s.items))
}

// persist writes the whole collection. Callers hold s.mu so writes land in
// transition order. The in-memory state is kept even when the write fails.
func (s *Service) persist() error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.SaveWatchlist(cloneItems(s.items)); err != nil {
		s.logger.Error("failed to persist watchlist", "error", err, "count", len(s.items))
		return &PersistError{Err: err}
	}
	return nil
}

// PersistError reports a transition that applied in memory but was not saved
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return "watchlist changed but was not saved: " + e.Err.Error()
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

func cloneItems(items []domain.WatchlistItem) []domain.WatchlistItem {
	out := make([]domain.WatchlistItem, len(items))
	copy(out, items)
	return out
}

func (s *Service) indexOf(key domain.ItemKey) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
