package watchlist

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/sahilm/fuzzy"
)

// SortKey orders a listing
type SortKey string

const (
	SortDateAdded  SortKey = "dateAdded"  // newest first
	SortTitle      SortKey = "title"      // A-Z
	SortRating     SortKey = "rating"     // provider vote average, highest first
	SortUserRating SortKey = "userRating" // personal rating, highest first
)

// ParseSortKey accepts the camelCase names plus snake_case variants
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "")) {
	case "", "dateadded", "added", "date":
		return SortDateAdded, nil
	case "title", "name":
		return SortTitle, nil
	case "rating", "voteaverage":
		return SortRating, nil
	case "userrating", "myrating":
		return SortUserRating, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// All returns a copy of the collection in insertion order
func (s *Service) All() []domain.WatchlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Len returns the number of entries
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Contains reports whether (id, media type) is tracked
func (s *Service) Contains(id int, mediaType domain.MediaType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(domain.ItemKey{ID: id, MediaType: mediaType}) >= 0
}

// Get returns the matching entry
func (s *Service) Get(id int, mediaType domain.MediaType) (domain.WatchlistItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(domain.ItemKey{ID: id, MediaType: mediaType})
	if i < 0 {
		return domain.WatchlistItem{}, false
	}
	return s.items[i], true
}

// ByStatus returns entries with the given status in insertion order
func (s *Service) ByStatus(status domain.WatchStatus) []domain.WatchlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return WithStatus(s.items, status)
}

// WithStatus returns the entries of items with the given status, order kept.
// The result never aliases items.
func WithStatus(items []domain.WatchlistItem, status domain.WatchStatus) []domain.WatchlistItem {
	var out []domain.WatchlistItem
	for _, item := range items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out
}

// Counts returns per-status totals; every known status is present
func (s *Service) Counts() domain.WatchlistCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := domain.WatchlistCounts{
		Total:    len(s.items),
		ByStatus: make(map[domain.WatchStatus]int, len(domain.Statuses)),
	}
	for _, st := range domain.Statuses {
		counts.ByStatus[st] = 0
	}
	for _, item := range s.items {
		counts.ByStatus[item.Status]++
	}
	return counts
}

// Sorted returns a sorted copy of items. Ties keep their input order.
func Sorted(items []domain.WatchlistItem, by SortKey) []domain.WatchlistItem {
	out := cloneItems(items)

	var less func(a, b domain.WatchlistItem) bool
	switch by {
	case SortTitle:
		less = func(a, b domain.WatchlistItem) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortRating:
		less = func(a, b domain.WatchlistItem) bool { return a.VoteAverage > b.VoteAverage }
	case SortUserRating:
		less = func(a, b domain.WatchlistItem) bool { return a.UserRating > b.UserRating }
	default:
		less = func(a, b domain.WatchlistItem) bool { return a.DateAdded.After(b.DateAdded) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// titleIndex implements sahilm/fuzzy.Source over lowercase titles
type titleIndex []string

func (t titleIndex) String(i int) string { return t[i] }
func (t titleIndex) Len() int            { return len(t) }

// Find returns entries whose title fuzzy-matches query, best match first.
// A blank query returns nothing.
func (s *Service) Find(query string) []domain.WatchlistItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	items := s.All()
	idx := make(titleIndex, len(items))
	for i, item := range items {
		idx[i] = strings.ToLower(item.Title)
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)
	out := make([]domain.WatchlistItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}

// Export writes the collection as an indented JSON array
func (s *Service) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.All())
}

// Import reads a JSON array written by Export and replaces the collection with it
func (s *Service) Import(r io.Reader) error {
	var items []domain.WatchlistItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return fmt.Errorf("failed to decode watchlist: %w", err)
	}
	return s.Load(items)
}
