// Package provider builds the metadata, ratings, and video clients from the
// application config. All three share one response cache.
package provider

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/cinedex/internal/adapter"
	"github.com/mmcdole/cinedex/internal/adapter/provider/httpclient"
	"github.com/mmcdole/cinedex/internal/adapter/provider/omdb"
	"github.com/mmcdole/cinedex/internal/adapter/provider/tmdb"
	"github.com/mmcdole/cinedex/internal/adapter/provider/youtube"
	"github.com/mmcdole/cinedex/internal/cache"
	"github.com/mmcdole/cinedex/internal/domain"
)

// Set groups the three provider clients
type Set struct {
	Metadata *tmdb.Client
	Ratings  *omdb.Client
	Videos   *youtube.Client

	// Cache is the shared response cache, exposed for `cache clear` style operations
	Cache *cache.TTL[[]byte]
}

// Options overrides pieces of the transport, mainly for tests
type Options struct {
	HTTPClient *http.Client
	Clock      func() time.Time
}

// New creates the provider clients from cfg
func New(cfg *adapter.Config, logger *slog.Logger, opts ...Options) (*Set, error) {
	if cfg == nil {
		return nil, fmt.Errorf("provider config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	cacheOpts := []cache.Option{
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
	}
	if o.Clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(o.Clock))
	}
	shared := cache.New[[]byte](cacheOpts...)

	transport := httpclient.Config{
		Timeout:           cfg.HTTP.Timeout,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		UserAgent:         cfg.HTTP.UserAgent,
		Cache:             shared,
		DiscardStale:      cfg.Cache.DiscardStale,
		HTTPClient:        o.HTTPClient,
		Logger:            logger,
	}

	logger.Debug("provider clients configured",
		"cacheTTL", cfg.Cache.TTL,
		"cacheMaxEntries", cfg.Cache.MaxEntries,
		"discardStale", cfg.Cache.DiscardStale,
		"rps", cfg.HTTP.RequestsPerSecond)

	return &Set{
		Metadata: tmdb.NewClient(tmdb.Config{
			BaseURL:      cfg.TMDB.BaseURL,
			APIKey:       cfg.TMDB.APIKey,
			AccessToken:  cfg.TMDB.AccessToken,
			ImageBaseURL: cfg.TMDB.ImageBaseURL,
			Language:     cfg.TMDB.Language,
		}, transport),
		Ratings: omdb.NewClient(omdb.Config{
			BaseURL: cfg.OMDB.BaseURL,
			APIKey:  cfg.OMDB.APIKey,
		}, transport),
		Videos: youtube.NewClient(youtube.Config{
			BaseURL: cfg.YouTube.BaseURL,
			APIKey:  cfg.YouTube.APIKey,
		}, transport),
		Cache: shared,
	}, nil
}

// Verify interface compliance
var (
	_ domain.MetadataRepository = (*tmdb.Client)(nil)
	_ domain.RatingsRepository  = (*omdb.Client)(nil)
	_ domain.VideoRepository    = (*youtube.Client)(nil)
)
