package omdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/cinedex/internal/adapter/provider/httpclient"
	"github.com/mmcdole/cinedex/internal/domain"
)

const (
	providerName = "OMDb"

	// DefaultBaseURL is the OMDb root; every lookup is a query on "/"
	DefaultBaseURL = "https://www.omdbapi.com"

	defaultFailure = "OMDB API Error"
)

// Config holds OMDb credentials
type Config struct {
	BaseURL string
	APIKey  string
}

// Client implements domain.RatingsRepository for OMDb
type Client struct {
	fetch *httpclient.Fetcher
}

// NewClient creates an OMDb client
func NewClient(cfg Config, transport httpclient.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	transport.Provider = providerName
	transport.CacheName = "omdb"
	transport.BaseURL = cfg.BaseURL
	transport.Authorize = func(_ *http.Request, q url.Values) {
		q.Set("apikey", cfg.APIKey)
	}
	transport.ErrorMessage = func(body []byte) string {
		var s statusResponse
		_ = json.Unmarshal(body, &s)
		return s.Error
	}
	transport.Inspect = inspect

	return &Client{fetch: httpclient.New(transport)}
}

// inspect turns a 200 with Response "False" into a failure, so it is never cached
func inspect(body []byte) (string, error) {
	var s statusResponse
	if err := json.Unmarshal(body, &s); err != nil {
		// Let decoding report malformed bodies
		return "", nil
	}
	if s.Response != "False" {
		return "", nil
	}
	msg := s.Error
	if msg == "" {
		msg = defaultFailure
	}
	if strings.Contains(strings.ToLower(msg), "not found") {
		return msg, domain.ErrNotFound
	}
	return msg, domain.ErrProviderRejected
}

func (c *Client) title(ctx context.Context, q url.Values) (*domain.Ratings, error) {
	var resp TitleResponse
	if err := c.fetch.GetJSON(ctx, "", q, &resp); err != nil {
		return nil, err
	}
	return MapRatings(resp), nil
}

// ByIMDbID looks a title up by its IMDb id (tt...)
func (c *Client) ByIMDbID(ctx context.Context, imdbID string) (*domain.Ratings, error) {
	return c.title(ctx, url.Values{"i": {imdbID}})
}

// ByTitle looks a title up by exact name and optional year
func (c *Client) ByTitle(ctx context.Context, title, year string) (*domain.Ratings, error) {
	q := url.Values{"t": {title}}
	if year != "" {
		q.Set("y", year)
	}
	return c.title(ctx, q)
}

// Search runs a free-text search
func (c *Client) Search(ctx context.Context, query string, page int) (*domain.Page[domain.RatingsSearchResult], error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{"s": {query}, "page": {strconv.Itoa(page)}}

	var resp SearchResponse
	if err := c.fetch.GetJSON(ctx, "", q, &resp); err != nil {
		return nil, err
	}
	return MapSearch(resp, page), nil
}

// Verify interface compliance
var _ domain.RatingsRepository = (*Client)(nil)
