package youtube

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
	providerName = "YouTube"

	// DefaultBaseURL is the Data API v3 root
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// DefaultSearchResults is the result count for free-text video search
	DefaultSearchResults = 5

	// DefaultTrailerResults is the result count for trailer search
	DefaultTrailerResults = 3

	// The API rejects larger pages
	maxResultsLimit = 50
)

// Config holds YouTube credentials
type Config struct {
	BaseURL string
	APIKey  string
}

// Client implements domain.VideoRepository for the YouTube Data API
type Client struct {
	fetch *httpclient.Fetcher
}

// NewClient creates a YouTube client
func NewClient(cfg Config, transport httpclient.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	transport.Provider = providerName
	transport.CacheName = "youtube"
	transport.BaseURL = cfg.BaseURL
	transport.Authorize = func(_ *http.Request, q url.Values) {
		q.Set("key", cfg.APIKey)
	}
	transport.ErrorMessage = func(body []byte) string {
		var e ErrorResponse
		_ = json.Unmarshal(body, &e)
		return e.Error.Message
	}

	return &Client{fetch: httpclient.New(transport)}
}

// TrailerQuery builds the search text used to find a title's trailer
func TrailerQuery(title, year string, mediaType domain.MediaType) string {
	kind := "TV show"
	if mediaType == domain.MediaTypeMovie || mediaType == "" {
		kind = "movie"
	}
	return strings.Join(strings.Fields(fmt.Sprintf("%s %s %s official trailer", title, year, kind)), " ")
}

func clampResults(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	if n > maxResultsLimit {
		return maxResultsLimit
	}
	return n
}

func searchParams(query string, maxResults int) url.Values {
	return url.Values{
		"q":          {query},
		"part":       {"snippet"},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(maxResults)},
		"order":      {"relevance"},
	}
}

func (c *Client) search(ctx context.Context, q url.Values) ([]domain.Trailer, error) {
	var resp SearchResponse
	if err := c.fetch.GetJSON(ctx, "/search", q, &resp); err != nil {
		return nil, err
	}
	return MapSearch(resp), nil
}

// SearchVideos runs a free-text video search
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int) ([]domain.Trailer, error) {
	return c.search(ctx, searchParams(query, clampResults(maxResults, DefaultSearchResults)))
}

// SearchTrailers searches for a title's official trailer, excluding short clips
func (c *Client) SearchTrailers(ctx context.Context, title, year string, mediaType domain.MediaType, maxResults int) ([]domain.Trailer, error) {
	q := searchParams(TrailerQuery(title, year, mediaType), clampResults(maxResults, DefaultTrailerResults))
	q.Set("videoDuration", "medium")
	return c.search(ctx, q)
}

// VideoDetails fetches snippet, statistics, and content details for one video
func (c *Client) VideoDetails(ctx context.Context, videoID string) (*domain.VideoDetails, error) {
	q := url.Values{
		"id":   {videoID},
		"part": {"snippet,statistics,contentDetails"},
	}

	var resp VideosResponse
	if err := c.fetch.GetJSON(ctx, "/videos", q, &resp); err != nil {
		return nil, err
	}
	v := MapVideo(resp)
	if v == nil {
		return nil, domain.NewProviderError(providerName, domain.ErrNotFound,
			fmt.Sprintf("video %s not found", videoID), nil)
	}
	return v, nil
}

// Verify interface compliance
var _ domain.VideoRepository = (*Client)(nil)
