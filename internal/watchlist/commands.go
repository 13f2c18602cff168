package watchlist

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
)

var errDuplicate = errors.New("duplicate entry")

// validateKey accepts only movie and tv entries
func validateKey(key domain.ItemKey) error {
	if key.MediaType != domain.MediaTypeMovie && key.MediaType != domain.MediaTypeTV {
		return fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, key.MediaType)
	}
	return nil
}

// normalize fills the default status and validates a new entry
func normalize(item domain.WatchlistItem) (domain.WatchlistItem, error) {
	if err := validateKey(item.Key()); err != nil {
		return item, err
	}
	if item.Status == "" {
		item.Status = domain.StatusWantToWatch
	}
	if !item.Status.Valid() {
		return item, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, item.Status)
	}
	if err := domain.ValidateUserRating(item.UserRating); err != nil {
		return item, err
	}
	return item, nil
}

// Add appends item stamped with the current time. An entry with the same
// (id, media type) already present is left untouched and added is false.
func (s *Service) Add(item domain.WatchlistItem) (added bool, err error) {
	item, err = normalize(item)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(item.Key()) >= 0 {
		s.logger.Debug("watchlist add ignored, already present", "key", item.Key().String())
		return false, nil
	}

	item.DateAdded = s.now().UTC()
	s.items = append(s.items, item)
	s.logger.Info("added to watchlist", "key", item.Key().String(), "title", item.Title)
	return true, s.persist()
}

// Remove deletes the matching entry. removed is false when nothing matched.
func (s *Service) Remove(id int, mediaType domain.MediaType) (removed bool, err error) {
	key := domain.ItemKey{ID: id, MediaType: mediaType}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.logger.Info("removed from watchlist", "key", key.String())
	return true, s.persist()
}

// Update merges the set fields of upd into the matching entry. Invalid values
// are rejected before any change. updated is false when nothing matched.
func (s *Service) Update(id int, mediaType domain.MediaType, upd domain.WatchlistUpdate) (updated bool, err error) {
	if err := upd.Validate(); err != nil {
		return false, err
	}
	key := domain.ItemKey{ID: id, MediaType: mediaType}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return false, nil
	}
	if upd.Status != nil {
		s.items[i].Status = *upd.Status
	}
	if upd.UserRating != nil {
		s.items[i].UserRating = *upd.UserRating
	}
	s.logger.Info("updated watchlist item", "key", key.String(), "status", s.items[i].Status, "userRating", s.items[i].UserRating)
	return true, s.persist()
}

// Clear empties the collection
func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.WatchlistItem{}
	s.logger.Info("cleared watchlist")
	return s.persist()
}

// Load replaces the collection wholesale. Every entry is validated first and
// the call is rejected as a whole on the first bad entry. Duplicate keys keep
// their first occurrence; entries without a dateAdded are stamped now.
func (s *Service) Load(items []domain.WatchlistItem) error {
	next, err := prepareItems(items, s.now().UTC(), nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = next
	s.logger.Info("loaded watchlist", "count", len(next))
	return s.persist()
}

// prepareItems normalizes and deduplicates a whole collection, keeping the
// first occurrence of each key. With a nil drop the first invalid entry fails
// the call; otherwise invalid and duplicate entries are skipped and reported.
func prepareItems(items []domain.WatchlistItem, now time.Time, drop func(i int, item domain.WatchlistItem, reason error)) ([]domain.WatchlistItem, error) {
	seen := make(map[domain.ItemKey]bool, len(items))
	next := make([]domain.WatchlistItem, 0, len(items))
	for i, item := range items {
		item, err := normalize(item)
		if err != nil {
			if drop == nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			drop(i, item, err)
			continue
		}
		if seen[item.Key()] {
			if drop != nil {
				drop(i, item, errDuplicate)
			}
			continue
		}
		seen[item.Key()] = true
		if item.DateAdded.IsZero() {
			item.DateAdded = now
		}
		next = append(next, item)
	}
	return next, nil
}
