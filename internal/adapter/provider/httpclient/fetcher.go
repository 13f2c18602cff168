// Package httpclient implements the request path shared by the provider clients:
// cache lookup, a single rate-limited GET, error normalization, cache fill.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/cinedex/internal/cache"
	"github.com/mmcdole/cinedex/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "cinedex/1.0"
	maxBodyBytes     = 8 << 20
)

// Authorizer adds credentials to an outgoing request. Credentials are applied
// after the cache key is computed so they never appear in keys or logs.
type Authorizer func(req *http.Request, query url.Values)

// ErrorMessage extracts the provider's own error text from a response body.
// Returns "" when the body carries none.
type ErrorMessage func(body []byte) string

// Inspector checks a 200 response for a provider-level logical failure.
// Returns a nil kind when the body is a real success.
type Inspector func(body []byte) (message string, kind error)

// Config describes one provider
type Config struct {
	Provider          string // display name used in errors ("TMDB")
	CacheName         string // prefix used in cache keys ("tmdb")
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 = unlimited
	UserAgent         string
	Cache             *cache.TTL[[]byte]
	DiscardStale      bool
	Authorize         Authorizer
	ErrorMessage      ErrorMessage
	Inspect           Inspector
	HTTPClient        *http.Client // optional, overrides Timeout
	Logger            *slog.Logger
}

// Fetcher performs cached GET requests against one provider
type Fetcher struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.TTL[[]byte]
	logger     *slog.Logger
}

// New creates a Fetcher. A nil cache disables caching.
func New(cfg Config) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.CacheName == "" {
		cfg.CacheName = strings.ToLower(cfg.Provider)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Fetcher{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		cache:      cfg.Cache,
		logger:     logger.With("provider", cfg.Provider),
	}
}

// Provider returns the display name
func (f *Fetcher) Provider() string {
	return f.cfg.Provider
}

// Get returns the body for endpoint+params, from cache when live, otherwise from
// one network request. Concurrent calls for the same key are not coalesced.
func (f *Fetcher) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	key := cache.Key(f.cfg.CacheName, endpoint, params)

	if f.cache != nil {
		if body, ok := f.cache.Get(key); ok {
			f.logger.Debug("cache hit", "key", key)
			return body, nil
		}
	}

	var seq uint64
	if f.cache != nil && f.cfg.DiscardStale {
		seq = f.cache.Begin(key)
	}

	body, err := f.do(ctx, endpoint, params)
	if err != nil {
		if f.cache != nil && f.cfg.DiscardStale {
			f.cache.Finish(key)
		}
		return nil, err
	}

	if f.cache != nil {
		if f.cfg.DiscardStale {
			if !f.cache.SetSeq(key, seq, body) {
				f.logger.Debug("discarded stale response", "key", key, "seq", seq)
			}
		} else {
			f.cache.Set(key, body)
		}
	}
	return body, nil
}

// GetJSON is Get followed by decoding into target. A body that does not decode
// into target is evicted so the next call goes back to the network.
func (f *Fetcher) GetJSON(ctx context.Context, endpoint string, params url.Values, target any) error {
	body, err := f.Get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := f.Decode(body, target); err != nil {
		if f.cache != nil {
			if params == nil {
				params = url.Values{}
			}
			f.cache.Delete(cache.Key(f.cfg.CacheName, endpoint, params))
		}
		return err
	}
	return nil
}

// Decode unmarshals a provider body, reporting failures as ErrMalformedResponse
func (f *Fetcher) Decode(body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		f.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return domain.NewProviderError(f.cfg.Provider, domain.ErrMalformedResponse, err.Error(), err)
	}
	return nil
}

func (f *Fetcher) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	logURL := f.baseURL + endpoint
	if len(params) > 0 {
		logURL += "?" + params.Encode()
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, f.transportError(err)
	}

	query := cloneValues(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+endpoint, nil)
	if err != nil {
		return nil, domain.NewProviderError(f.cfg.Provider, domain.ErrProviderRejected,
			fmt.Sprintf("failed to create request: %v", err), err)
	}
	if f.cfg.Authorize != nil {
		f.cfg.Authorize(req, query)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	f.logger.Debug("request", "url", logURL)

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("request failed", "url", logURL, "error", err)
		return nil, f.transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		f.logger.Error("failed to read response", "url", logURL, "error", err)
		return nil, f.transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := ""
		if f.cfg.ErrorMessage != nil {
			msg = f.cfg.ErrorMessage(body)
		}
		if msg == "" {
			msg = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		}
		kind := domain.ErrProviderRejected
		if resp.StatusCode == http.StatusNotFound {
			kind = domain.ErrNotFound
		}
		f.logger.Error("request error", "url", logURL, "status", resp.StatusCode, "message", msg)
		return nil, domain.NewProviderError(f.cfg.Provider, kind, msg, nil)
	}

	if !json.Valid(body) {
		f.logger.Error("malformed response", "url", logURL, "bytes", len(body))
		return nil, domain.NewProviderError(f.cfg.Provider, domain.ErrMalformedResponse,
			"response is not valid JSON", nil)
	}

	if f.cfg.Inspect != nil {
		if msg, kind := f.cfg.Inspect(body); kind != nil {
			f.logger.Warn("provider reported failure", "url", logURL, "message", msg)
			return nil, domain.NewProviderError(f.cfg.Provider, kind, msg, nil)
		}
	}

	f.logger.Debug("response", "url", logURL, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

func (f *Fetcher) transportError(err error) error {
	return domain.NewProviderError(f.cfg.Provider, domain.ErrProviderUnavailable, err.Error(), err)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
