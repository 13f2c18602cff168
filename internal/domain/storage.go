package domain

// WatchlistStorage persists the whole watchlist collection in a single named slot.
// The collection is always read and written wholesale.
type WatchlistStorage interface {
	// LoadWatchlist returns the stored collection, or nil when the slot is empty
	LoadWatchlist() ([]WatchlistItem, error)

	// SaveWatchlist replaces the stored collection
	SaveWatchlist(items []WatchlistItem) error

	Close() error
}
