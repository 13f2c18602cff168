package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/cinedex/internal/cache"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetcher(t *testing.T, h http.HandlerFunc, mutate func(*Config)) (*Fetcher, *cache.TTL[[]byte]) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := cache.New[[]byte]()
	cfg := Config{
		Provider: "TMDB",
		BaseURL:  srv.URL,
		Cache:    c,
		Logger:   quietLogger(),
		Authorize: func(_ *http.Request, q url.Values) {
			q.Set("api_key", "secret")
		},
		ErrorMessage: func(body []byte) string {
			var e struct {
				StatusMessage string `json:"status_message"`
			}
			_ = json.Unmarshal(body, &e)
			return e.StatusMessage
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg), c
}

func TestGetServesSecondCallFromCache(t *testing.T) {
	var hits atomic.Int32
	f, c := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"ok":true}`))
	}, nil)

	params := url.Values{"query": {"alien"}}
	first, err := f.Get(context.Background(), "/search/movie", params)
	require.NoError(t, err)
	second, err := f.Get(context.Background(), "/search/movie", params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, hits.Load())
	assert.Equal(t, []string{"tmdb_/search/movie_query=alien"}, c.Keys(), "credentials stay out of the key")
}

func TestGetMapsStatusMessage(t *testing.T) {
	f, c := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`))
	}, nil)

	_, err := f.Get(context.Background(), "/movie/popular", nil)
	require.Error(t, err)
	assert.Equal(t, "TMDB API Error: Invalid API key: You must be granted a valid key.", err.Error())
	assert.ErrorIs(t, err, domain.ErrProviderRejected)
	assert.Equal(t, 0, c.Len(), "failures are never cached")
}

func TestGetFallsBackToStatusCode(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	_, err := f.Get(context.Background(), "/movie/0", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "404")
}

func TestGetInspectorRejectsLogicalFailure(t *testing.T) {
	f, c := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}, func(cfg *Config) {
		cfg.Provider = "OMDb"
		cfg.Inspect = func(body []byte) (string, error) {
			return "Movie not found!", domain.ErrNotFound
		}
	})

	_, err := f.Get(context.Background(), "/", url.Values{"i": {"tt0"}})
	require.Error(t, err)
	assert.Equal(t, "OMDb API Error: Movie not found!", err.Error())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, c.Len())
}

func TestGetTransportFailure(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {}, func(cfg *Config) {
		cfg.BaseURL = "http://127.0.0.1:1"
	})

	_, err := f.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "TMDB", pe.Provider)
}

func TestGetTimeout(t *testing.T) {
	release := make(chan struct{})
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, func(cfg *Config) {
		cfg.Timeout = 50 * time.Millisecond
	})
	defer close(release)

	_, err := f.Get(context.Background(), "/slow", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestGetJSONMalformed(t *testing.T) {
	var hits atomic.Int32
	f, c := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Write([]byte(`{not json`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}, nil)

	var out map[string]any
	err := f.GetJSON(context.Background(), "/broken", nil, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Zero(t, c.Len(), "malformed body must not be cached")

	require.NoError(t, f.GetJSON(context.Background(), "/broken", nil, &out))
	assert.EqualValues(t, 2, hits.Load())
	assert.Equal(t, true, out["ok"])
}

func TestGetJSONShapeMismatchIsEvicted(t *testing.T) {
	var hits atomic.Int32
	f, c := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Write([]byte(`["not","an","object"]`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}, nil)

	var out map[string]any
	err := f.GetJSON(context.Background(), "/shape", nil, &out)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Zero(t, c.Len())

	require.NoError(t, f.GetJSON(context.Background(), "/shape", nil, &out))
	assert.EqualValues(t, 2, hits.Load())
}

func TestFailedRequestReleasesSequence(t *testing.T) {
	f, c := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *Config) { cfg.DiscardStale = true })

	_, err := f.Get(context.Background(), "/fails", nil)
	require.Error(t, err)
	assert.Zero(t, c.Pending())
}

// slowFirstServer answers the first request only after release is closed, and
// every later request immediately. Each response body names its arrival order.
func slowFirstServer(arrived chan<- struct{}, release <-chan struct{}) http.HandlerFunc {
	var n atomic.Int32
	return func(w http.ResponseWriter, r *http.Request) {
		order := n.Add(1)
		if order == 1 {
			arrived <- struct{}{}
			<-release
			w.Write([]byte(`"first"`))
			return
		}
		w.Write([]byte(`"second"`))
	}
}

func TestConcurrentMissesBothHitNetworkLastLandedWins(t *testing.T) {
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	var hits atomic.Int32
	slow := slowFirstServer(arrived, release)
	f, c := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		slow(w, r)
	}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		body, err := f.Get(context.Background(), "/trending/all/day", nil)
		assert.NoError(t, err)
		assert.Equal(t, `"first"`, string(body))
	}()
	<-arrived

	body, err := f.Get(context.Background(), "/trending/all/day", nil)
	require.NoError(t, err)
	assert.Equal(t, `"second"`, string(body))

	close(release)
	<-done

	assert.EqualValues(t, 2, hits.Load(), "in-flight requests are not coalesced")
	cached, ok := c.Get(cache.Key("tmdb", "/trending/all/day", url.Values{}))
	require.True(t, ok)
	assert.Equal(t, `"first"`, string(cached), "the response that resolved last is cached")
}

func TestConcurrentMissesDiscardStaleKeepsNewest(t *testing.T) {
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	f, c := newTestFetcher(t, slowFirstServer(arrived, release), func(cfg *Config) {
		cfg.DiscardStale = true
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := f.Get(context.Background(), "/trending/all/day", nil)
		assert.NoError(t, err)
	}()
	<-arrived

	_, err := f.Get(context.Background(), "/trending/all/day", nil)
	require.NoError(t, err)

	close(release)
	<-done

	cached, ok := c.Get(cache.Key("tmdb", "/trending/all/day", url.Values{}))
	require.True(t, ok)
	assert.Equal(t, `"second"`, string(cached), "the later-issued request wins")
}

func TestRateLimiterHonoursContext(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, func(cfg *Config) {
		cfg.RequestsPerSecond = 0.001
		cfg.Cache = nil
	})

	_, err := f.Get(context.Background(), "/a", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.Get(ctx, "/b", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
