package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WatchStatus is the user's tracking state for a watchlist entry
type WatchStatus string

const (
	StatusWantToWatch WatchStatus = "want_to_watch"
	StatusWatching    WatchStatus = "watching"
	StatusWatched     WatchStatus = "watched"
)

// Statuses lists every status in display order
var Statuses = []WatchStatus{StatusWantToWatch, StatusWatching, StatusWatched}

// ParseWatchStatus accepts the canonical names plus dash/space separated variants
func ParseWatchStatus(s string) (WatchStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	status := WatchStatus(norm)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses
func (s WatchStatus) Valid() bool {
	switch s {
	case StatusWantToWatch, StatusWatching, StatusWatched:
		return true
	}
	return false
}

// Label returns the display label
func (s WatchStatus) Label() string {
	switch s {
	case StatusWantToWatch:
		return "Want to Watch"
	case StatusWatching:
		return "Watching"
	case StatusWatched:
		return "Watched"
	default:
		return string(s)
	}
}

// MaxUserRating is the upper bound of the personal rating scale
const MaxUserRating = 10

// ValidateUserRating checks the 0-10 bound
func ValidateUserRating(r int) error {
	if r < 0 || r > MaxUserRating {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidRating, r, MaxUserRating)
	}
	return nil
}

// ItemKey is the identity of a watchlist entry
type ItemKey struct {
	ID        int
	MediaType MediaType
}

func (k ItemKey) String() string {
	return string(k.MediaType) + ":" + strconv.Itoa(k.ID)
}

// WatchlistItem is one tracked title. Display fields are copied when the item is
// added and are not refreshed afterwards.
type WatchlistItem struct {
	ID          int         `json:"id"`
	MediaType   MediaType   `json:"type"`
	Title       string      `json:"title"`
	PosterPath  string      `json:"poster_path,omitempty"`
	ReleaseDate string      `json:"release_date,omitempty"`
	VoteAverage float64     `json:"vote_average"`
	Status      WatchStatus `json:"status"`
	UserRating  int         `json:"userRating"`
	DateAdded   time.Time   `json:"dateAdded"`
}

// Key returns the (id, media type) identity
func (w WatchlistItem) Key() ItemKey {
	return ItemKey{ID: w.ID, MediaType: w.MediaType}
}

// WatchlistItemFromMedia copies the display fields of a listing entry
func WatchlistItemFromMedia(m Media, status WatchStatus) WatchlistItem {
	return WatchlistItem{
		ID:          m.ID,
		MediaType:   m.MediaType,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
		Status:      status,
	}
}

// WatchlistUpdate is a partial field set merged into an existing entry.
// Nil fields are left untouched.
type WatchlistUpdate struct {
	Status     *WatchStatus `json:"status,omitempty"`
	UserRating *int         `json:"userRating,omitempty"`
}

// Validate checks the fields that are set
func (u WatchlistUpdate) Validate() error {
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *u.Status)
	}
	if u.UserRating != nil {
		return ValidateUserRating(*u.UserRating)
	}
	return nil
}

// Empty reports whether the update sets no fields
func (u WatchlistUpdate) Empty() bool {
	return u.Status == nil && u.UserRating == nil
}

// WatchlistCounts summarizes the collection per status
type WatchlistCounts struct {
	Total    int                 `json:"all"`
	ByStatus map[WatchStatus]int `json:"by_status"`
}
