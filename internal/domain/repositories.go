package domain

import (
	"context"
)

// MovieCategory selects a curated movie listing
type MovieCategory string

const (
	MoviePopular    MovieCategory = "popular"
	MovieTopRated   MovieCategory = "top_rated"
	MovieNowPlaying MovieCategory = "now_playing"
	MovieUpcoming   MovieCategory = "upcoming"
)

// Valid reports whether c is a known movie listing
func (c MovieCategory) Valid() bool {
	switch c {
	case MoviePopular, MovieTopRated, MovieNowPlaying, MovieUpcoming:
		return true
	}
	return false
}

// TVCategory selects a curated TV listing
type TVCategory string

const (
	TVPopular     TVCategory = "popular"
	TVTopRated    TVCategory = "top_rated"
	TVOnTheAir    TVCategory = "on_the_air"
	TVAiringToday TVCategory = "airing_today"
)

// Valid reports whether c is a known TV listing
func (c TVCategory) Valid() bool {
	switch c {
	case TVPopular, TVTopRated, TVOnTheAir, TVAiringToday:
		return true
	}
	return false
}

// TrendingWindow is the time window for trending listings
type TrendingWindow string

const (
	TrendingDay  TrendingWindow = "day"
	TrendingWeek TrendingWindow = "week"
)

// TrendingAll requests trending titles across every media type
const TrendingAll MediaType = "all"

// DiscoverFilter narrows a discover query. Zero values are omitted from the request.
type DiscoverFilter struct {
	GenreIDs     []int
	Year         int
	SortBy       string // e.g. "popularity.desc", "vote_average.desc"
	MinVoteAvg   float64
	MinVotes     int
	Language     string
	Page         int
	IncludeAdult bool
}

// MetadataRepository provides listings and details from the metadata provider
type MetadataRepository interface {
	// SearchMulti searches movies, shows, and people at once
	SearchMulti(ctx context.Context, query string, page int) (*Page[Media], error)
	SearchMovies(ctx context.Context, query string, page int) (*Page[Media], error)
	SearchTV(ctx context.Context, query string, page int) (*Page[Media], error)

	// Trending returns trending titles; mediaType may be TrendingAll
	Trending(ctx context.Context, mediaType MediaType, window TrendingWindow) (*Page[Media], error)

	MovieList(ctx context.Context, category MovieCategory, page int) (*Page[Media], error)
	TVList(ctx context.Context, category TVCategory, page int) (*Page[Media], error)

	// MovieDetails and TVDetails expand credits, videos, and similar titles
	MovieDetails(ctx context.Context, id int) (*MovieDetails, error)
	TVDetails(ctx context.Context, id int) (*TVDetails, error)

	MovieGenres(ctx context.Context) ([]Genre, error)
	TVGenres(ctx context.Context) ([]Genre, error)

	DiscoverMovies(ctx context.Context, filter DiscoverFilter) (*Page[Media], error)
	DiscoverTV(ctx context.Context, filter DiscoverFilter) (*Page[Media], error)
}

// RatingsRepository provides aggregated ratings for a title
type RatingsRepository interface {
	ByIMDbID(ctx context.Context, imdbID string) (*Ratings, error)
	// ByTitle looks a title up by name; year may be empty
	ByTitle(ctx context.Context, title, year string) (*Ratings, error)
	Search(ctx context.Context, query string, page int) (*Page[RatingsSearchResult], error)
}

// VideoRepository provides video search (trailers)
type VideoRepository interface {
	SearchVideos(ctx context.Context, query string, maxResults int) ([]Trailer, error)
	VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error)
	// SearchTrailers builds a trailer query from the title, year, and media type
	SearchTrailers(ctx context.Context, title, year string, mediaType MediaType, maxResults int) ([]Trailer, error)
}
