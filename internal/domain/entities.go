package domain

import (
	"fmt"
	"strings"
)

// MediaType distinguishes content types
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeTV     MediaType = "tv"
	MediaTypePerson MediaType = "person" // only appears in multi-search and trending results
)

// ParseMediaType accepts "movie" and "tv" (plus the "show" alias used on the command line)
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return MediaTypeMovie, nil
	case "tv", "show", "shows":
		return MediaTypeTV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, s)
	}
}

// Label returns the human-readable name used in trailer queries and output
func (t MediaType) Label() string {
	switch t {
	case MediaTypeMovie:
		return "movie"
	case MediaTypeTV:
		return "TV show"
	case MediaTypePerson:
		return "person"
	default:
		return string(t)
	}
}

// Media is a single entry in a listing, search, or trending page.
// Movies carry Title/ReleaseDate, shows carry Name/FirstAirDate upstream; both are
// normalized into Title and ReleaseDate here.
type Media struct {
	ID               int       `json:"id"`
	MediaType        MediaType `json:"media_type"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"original_title,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	PosterPath       string    `json:"poster_path,omitempty"`
	BackdropPath     string    `json:"backdrop_path,omitempty"`
	ReleaseDate      string    `json:"release_date,omitempty"` // YYYY-MM-DD, release or first air date
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	Popularity       float64   `json:"popularity"`
	GenreIDs         []int     `json:"genre_ids,omitempty"`
	OriginalLanguage string    `json:"original_language,omitempty"`
	Adult            bool      `json:"adult,omitempty"`
}

// Year returns the four-digit year of the release date, or "" when unknown
func (m Media) Year() string {
	return YearOf(m.ReleaseDate)
}

// YearOf extracts the year from a YYYY-MM-DD date string
func YearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// Page is one page of a paginated provider listing
type Page[T any] struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
	Results      []T `json:"results"`
}

// HasNext reports whether another page exists after this one
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// Genre is a provider genre entry
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is one billed performer
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is one credited crew member
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits groups cast and crew
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns crew members credited with the Director job
func (c Credits) Directors() []string {
	var names []string
	for _, m := range c.Crew {
		if m.Job == "Director" {
			names = append(names, m.Name)
		}
	}
	return names
}

// Video is a clip attached to a title by the metadata provider (trailers, teasers)
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// MovieDetails is the expanded record for a single movie
type MovieDetails struct {
	Media
	IMDbID   string  `json:"imdb_id,omitempty"`
	Tagline  string  `json:"tagline,omitempty"`
	Runtime  int     `json:"runtime"` // minutes
	Status   string  `json:"status,omitempty"`
	Budget   int64   `json:"budget,omitempty"`
	Revenue  int64   `json:"revenue,omitempty"`
	Homepage string  `json:"homepage,omitempty"`
	Genres   []Genre `json:"genres"`
	Credits  Credits `json:"credits"`
	Videos   []Video `json:"videos"`
	Similar  []Media `json:"similar"`
}

// TVDetails is the expanded record for a single show
type TVDetails struct {
	Media
	IMDbID           string   `json:"imdb_id,omitempty"`
	Tagline          string   `json:"tagline,omitempty"`
	Status           string   `json:"status,omitempty"`
	LastAirDate      string   `json:"last_air_date,omitempty"`
	NumberOfSeasons  int      `json:"number_of_seasons"`
	NumberOfEpisodes int      `json:"number_of_episodes"`
	EpisodeRunTime   []int    `json:"episode_run_time,omitempty"`
	Networks         []string `json:"networks,omitempty"`
	CreatedBy        []string `json:"created_by,omitempty"`
	Homepage         string   `json:"homepage,omitempty"`
	Genres           []Genre  `json:"genres"`
	Credits          Credits  `json:"credits"`
	Videos           []Video  `json:"videos"`
	Similar          []Media  `json:"similar"`
}

// RatingSource is one aggregated score (e.g. Rotten Tomatoes "91%")
type RatingSource struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// Ratings is the ratings-aggregator record for a title.
// Values the provider reports as "N/A" are normalized to "".
type Ratings struct {
	IMDbID     string         `json:"imdb_id"`
	Title      string         `json:"title"`
	Year       string         `json:"year"`
	Rated      string         `json:"rated,omitempty"`
	Runtime    string         `json:"runtime,omitempty"`
	Director   string         `json:"director,omitempty"`
	Awards     string         `json:"awards,omitempty"`
	BoxOffice  string         `json:"box_office,omitempty"`
	Metascore  string         `json:"metascore,omitempty"`
	IMDbRating string         `json:"imdb_rating,omitempty"`
	IMDbVotes  string         `json:"imdb_votes,omitempty"`
	Sources    []RatingSource `json:"sources,omitempty"`
}

// RatingsSearchResult is one hit from the ratings provider's free-text search
type RatingsSearchResult struct {
	IMDbID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Type   string `json:"type"`
	Poster string `json:"poster,omitempty"`
}

// Trailer is a video-search hit
type Trailer struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ChannelTitle string `json:"channel_title,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// WatchURL returns the public watch page for the video
func (t Trailer) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + t.VideoID
}

// EmbedURL returns the embeddable player URL
func (t Trailer) EmbedURL() string {
	return "https://www.youtube.com/embed/" + t.VideoID + "?autoplay=1&rel=0&modestbranding=1&fs=1"
}

// VideoDetails is the full record for a single video
type VideoDetails struct {
	Trailer
	Duration     string `json:"duration,omitempty"` // ISO-8601, e.g. PT2M31S
	Definition   string `json:"definition,omitempty"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
}
