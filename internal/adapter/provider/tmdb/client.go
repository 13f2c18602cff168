package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/cinedex/internal/adapter/provider/httpclient"
	"github.com/mmcdole/cinedex/internal/domain"
)

const (
	providerName = "TMDB"

	// DefaultBaseURL is the v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// DefaultImageBaseURL is the image CDN root; a size segment follows it
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"

	// PlaceholderImage is returned by ImageURL when a record has no artwork
	PlaceholderImage = "/placeholder.svg?height=750&width=500"

	appendDetails = "credits,videos,similar"
)

// Image sizes accepted by the CDN
const (
	SizePosterSmall = "w185"
	SizePoster      = "w500"
	SizeBackdrop    = "w1280"
	SizeProfile     = "w185"
	SizeOriginal    = "original"
)

// Config holds TMDB credentials and endpoints
type Config struct {
	BaseURL      string
	APIKey       string
	AccessToken  string // v4 read token, sent as a bearer header when set
	ImageBaseURL string
	Language     string
}

// Client implements domain.MetadataRepository for TMDB
type Client struct {
	fetch        *httpclient.Fetcher
	imageBaseURL string
	language     string
}

// NewClient creates a TMDB client. transport carries the settings shared by all
// providers (cache, timeout, rate limit, logger); its provider fields are set here.
func NewClient(cfg Config, transport httpclient.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}

	transport.Provider = providerName
	transport.CacheName = "tmdb"
	transport.BaseURL = cfg.BaseURL
	transport.Authorize = func(req *http.Request, q url.Values) {
		if cfg.APIKey != "" {
			q.Set("api_key", cfg.APIKey)
		}
		if cfg.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)
		}
	}
	transport.ErrorMessage = errorMessage

	return &Client{
		fetch:        httpclient.New(transport),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		language:     cfg.Language,
	}
}

func errorMessage(body []byte) string {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.StatusMessage
}

// ImageURL builds a CDN URL for a poster, backdrop, or profile path
func (c *Client) ImageURL(path, size string) string {
	return ImageURL(c.imageBaseURL, path, size)
}

// ImageURL builds a CDN URL against base. An empty path yields PlaceholderImage.
func ImageURL(base, path, size string) string {
	if path == "" {
		return PlaceholderImage
	}
	if size == "" {
		size = SizePoster
	}
	if base == "" {
		base = DefaultImageBaseURL
	}
	return fmt.Sprintf("%s/%s%s", strings.TrimRight(base, "/"), size, path)
}

// params starts a query with the configured language
func (c *Client) params() url.Values {
	q := url.Values{}
	if c.language != "" {
		q.Set("language", c.language)
	}
	return q
}

func pageParam(q url.Values, page int) {
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
}

func (c *Client) getPage(ctx context.Context, endpoint string, q url.Values, fallback domain.MediaType) (*domain.Page[domain.Media], error) {
	var resp PagedResponse
	if err := c.fetch.GetJSON(ctx, endpoint, q, &resp); err != nil {
		return nil, err
	}
	return MapPage(resp, fallback), nil
}

func (c *Client) search(ctx context.Context, endpoint, query string, page int, fallback domain.MediaType) (*domain.Page[domain.Media], error) {
	q := c.params()
	q.Set("query", query)
	pageParam(q, page)
	return c.getPage(ctx, endpoint, q, fallback)
}

// SearchMulti searches movies, shows, and people
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*domain.Page[domain.Media], error) {
	return c.search(ctx, "/search/multi", query, page, "")
}

// SearchMovies searches movies by title
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*domain.Page[domain.Media], error) {
	return c.search(ctx, "/search/movie", query, page, domain.MediaTypeMovie)
}

// SearchTV searches shows by name
func (c *Client) SearchTV(ctx context.Context, query string, page int) (*domain.Page[domain.Media], error) {
	return c.search(ctx, "/search/tv", query, page, domain.MediaTypeTV)
}

// Trending returns trending titles for the window
func (c *Client) Trending(ctx context.Context, mediaType domain.MediaType, window domain.TrendingWindow) (*domain.Page[domain.Media], error) {
	if mediaType == "" {
		mediaType = domain.TrendingAll
	}
	switch mediaType {
	case domain.TrendingAll, domain.MediaTypeMovie, domain.MediaTypeTV, domain.MediaTypePerson:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, mediaType)
	}
	if window == "" {
		window = domain.TrendingWeek
	}
	if window != domain.TrendingDay && window != domain.TrendingWeek {
		return nil, fmt.Errorf("%w: trending window %q", domain.ErrInvalidCategory, window)
	}

	var fallback domain.MediaType
	if mediaType != domain.TrendingAll {
		fallback = mediaType
	}
	return c.getPage(ctx, fmt.Sprintf("/trending/%s/%s", mediaType, window), c.params(), fallback)
}

// MovieList returns a curated movie listing
func (c *Client) MovieList(ctx context.Context, category domain.MovieCategory, page int) (*domain.Page[domain.Media], error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: movie category %q", domain.ErrInvalidCategory, category)
	}
	q := c.params()
	pageParam(q, page)
	return c.getPage(ctx, "/movie/"+string(category), q, domain.MediaTypeMovie)
}

// TVList returns a curated TV listing
func (c *Client) TVList(ctx context.Context, category domain.TVCategory, page int) (*domain.Page[domain.Media], error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: tv category %q", domain.ErrInvalidCategory, category)
	}
	q := c.params()
	pageParam(q, page)
	return c.getPage(ctx, "/tv/"+string(category), q, domain.MediaTypeTV)
}

// MovieDetails fetches a movie with credits, videos, and similar titles
func (c *Client) MovieDetails(ctx context.Context, id int) (*domain.MovieDetails, error) {
	q := c.params()
	q.Set("append_to_response", appendDetails)

	var resp MovieDetails
	if err := c.fetch.GetJSON(ctx, fmt.Sprintf("/movie/%d", id), q, &resp); err != nil {
		return nil, err
	}
	return MapMovieDetails(resp), nil
}

// TVDetails fetches a show with credits, videos, similar titles, and external ids
func (c *Client) TVDetails(ctx context.Context, id int) (*domain.TVDetails, error) {
	q := c.params()
	q.Set("append_to_response", appendDetails+",external_ids")

	var resp TVDetails
	if err := c.fetch.GetJSON(ctx, fmt.Sprintf("/tv/%d", id), q, &resp); err != nil {
		return nil, err
	}
	return MapTVDetails(resp), nil
}

func (c *Client) genres(ctx context.Context, mediaType domain.MediaType) ([]domain.Genre, error) {
	var resp GenreResponse
	if err := c.fetch.GetJSON(ctx, fmt.Sprintf("/genre/%s/list", mediaType), c.params(), &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// MovieGenres lists movie genres
func (c *Client) MovieGenres(ctx context.Context) ([]domain.Genre, error) {
	return c.genres(ctx, domain.MediaTypeMovie)
}

// TVGenres lists TV genres
func (c *Client) TVGenres(ctx context.Context) ([]domain.Genre, error) {
	return c.genres(ctx, domain.MediaTypeTV)
}

// discoverParams translates a filter. Movie and TV use different date fields.
func (c *Client) discoverParams(f domain.DiscoverFilter, mediaType domain.MediaType) url.Values {
	q := c.params()
	pageParam(q, f.Page)
	if f.Language != "" {
		q.Set("language", f.Language)
	}
	if len(f.GenreIDs) > 0 {
		ids := make([]string, 0, len(f.GenreIDs))
		for _, id := range f.GenreIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		q.Set("with_genres", strings.Join(ids, ","))
	}
	if f.Year > 0 {
		if mediaType == domain.MediaTypeTV {
			q.Set("first_air_date_year", strconv.Itoa(f.Year))
		} else {
			q.Set("primary_release_year", strconv.Itoa(f.Year))
		}
	}
	if f.SortBy != "" {
		q.Set("sort_by", f.SortBy)
	}
	if f.MinVoteAvg > 0 {
		q.Set("vote_average.gte", strconv.FormatFloat(f.MinVoteAvg, 'f', -1, 64))
	}
	if f.MinVotes > 0 {
		q.Set("vote_count.gte", strconv.Itoa(f.MinVotes))
	}
	if f.IncludeAdult {
		q.Set("include_adult", "true")
	}
	return q
}

// DiscoverMovies runs a filtered movie discover query
func (c *Client) DiscoverMovies(ctx context.Context, filter domain.DiscoverFilter) (*domain.Page[domain.Media], error) {
	return c.getPage(ctx, "/discover/movie", c.discoverParams(filter, domain.MediaTypeMovie), domain.MediaTypeMovie)
}

// DiscoverTV runs a filtered TV discover query
func (c *Client) DiscoverTV(ctx context.Context, filter domain.DiscoverFilter) (*domain.Page[domain.Media], error) {
	return c.getPage(ctx, "/discover/tv", c.discoverParams(filter, domain.MediaTypeTV), domain.MediaTypeTV)
}

// Verify interface compliance
var _ domain.MetadataRepository = (*Client)(nil)
