package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/service"
	"github.com/mmcdole/cinedex/internal/store"
	"github.com/mmcdole/cinedex/internal/watchlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMetadata implements only what a test sets; anything else panics
type stubMetadata struct {
	domain.MetadataRepository
	movieList    func(category domain.MovieCategory, page int) (*domain.Page[domain.Media], error)
	movieDetails func(id int) (*domain.MovieDetails, error)
	genres       []domain.Genre
	discover     func(filter domain.DiscoverFilter) (*domain.Page[domain.Media], error)
	searchCalls  int
}

func (s *stubMetadata) MovieList(_ context.Context, category domain.MovieCategory, page int) (*domain.Page[domain.Media], error) {
	return s.movieList(category, page)
}

func (s *stubMetadata) MovieDetails(_ context.Context, id int) (*domain.MovieDetails, error) {
	return s.movieDetails(id)
}

func (s *stubMetadata) MovieGenres(context.Context) ([]domain.Genre, error) {
	return s.genres, nil
}

func (s *stubMetadata) DiscoverMovies(_ context.Context, filter domain.DiscoverFilter) (*domain.Page[domain.Media], error) {
	return s.discover(filter)
}

func (s *stubMetadata) SearchMulti(context.Context, string, int) (*domain.Page[domain.Media], error) {
	s.searchCalls++
	return &domain.Page[domain.Media]{Page: 1}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, meta *stubMetadata) *Server {
	t.Helper()
	st, err := store.NewWatchlistStore("", "")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := quietLogger()
	return NewServer(Deps{
		Catalog:        service.NewCatalogService(meta, logger),
		Details:        service.NewDetailsService(meta, nil, nil, logger),
		Watchlist:      watchlist.NewService(st, logger),
		ConfigProblems: func() []string { return []string{"CINEDEX_OMDB_API_KEY is missing or invalid"} },
	}, logger)
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t, &stubMetadata{})

	w, env := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, env.Meta["request_id"])

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestConfigStatus(t *testing.T) {
	s := newTestServer(t, &stubMetadata{})
	_, env := do(t, s, http.MethodGet, "/api/config/status", "")

	var data struct {
		Configured bool     `json:"configured"`
		Problems   []string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.False(t, data.Configured)
	assert.Equal(t, []string{"CINEDEX_OMDB_API_KEY is missing or invalid"}, data.Problems)
}

func TestMoviesListing(t *testing.T) {
	s := newTestServer(t, &stubMetadata{
		movieList: func(category domain.MovieCategory, page int) (*domain.Page[domain.Media], error) {
			assert.Equal(t, domain.MovieTopRated, category)
			assert.Equal(t, 2, page)
			return &domain.Page[domain.Media]{Page: 2, Results: []domain.Media{{ID: 278, Title: "The Shawshank Redemption"}}}, nil
		},
	})

	w, env := do(t, s, http.MethodGet, "/api/movies?category=top_rated&page=2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var page domain.Page[domain.Media]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, "The Shawshank Redemption", page.Results[0].Title)
}

func TestBadPageIsValidationError(t *testing.T) {
	s := newTestServer(t, &stubMetadata{})
	w, env := do(t, s, http.MethodGet, "/api/movies?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, CodeValidation, env.Error.Code)
}

func TestProviderErrorsMapToBadGateway(t *testing.T) {
	s := newTestServer(t, &stubMetadata{
		movieList: func(domain.MovieCategory, int) (*domain.Page[domain.Media], error) {
			return nil, domain.NewProviderError("TMDB", domain.ErrProviderRejected, "Invalid API key: You must be granted a valid key.", nil)
		},
	})
	w, env := do(t, s, http.MethodGet, "/api/movies", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, CodeProvider, env.Error.Code)
	assert.Equal(t, "TMDB API Error: Invalid API key: You must be granted a valid key.", env.Error.Message)
}

func TestMovieNotFound(t *testing.T) {
	s := newTestServer(t, &stubMetadata{
		movieDetails: func(int) (*domain.MovieDetails, error) {
			return nil, domain.NewProviderError("TMDB", domain.ErrNotFound, "The resource you requested could not be found.", nil)
		},
	})
	w, env := do(t, s, http.MethodGet, "/api/movies/999999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, env.Error.Code)
}

func TestMovieDetails(t *testing.T) {
	s := newTestServer(t, &stubMetadata{
		movieDetails: func(id int) (*domain.MovieDetails, error) {
			return &domain.MovieDetails{Media: domain.Media{ID: id, Title: "Fight Club"}, IMDbID: "tt0137523"}, nil
		},
	})
	w, env := do(t, s, http.MethodGet, "/api/movies/550?trailers=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Fight Club", view["title"])
	assert.NotContains(t, view, "ratings", "no ratings client configured")
}

func TestSearchBlankQuery(t *testing.T) {
	meta := &stubMetadata{}
	s := newTestServer(t, meta)
	w, _ := do(t, s, http.MethodGet, "/api/search?q=", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, meta.searchCalls)

	w, env := do(t, s, http.MethodGet, "/api/search?q=x&type=people", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidation, env.Error.Code)
}

func TestDiscoverResolvesGenreNames(t *testing.T) {
	s := newTestServer(t, &stubMetadata{
		genres: []domain.Genre{{ID: 18, Name: "Drama"}, {ID: 878, Name: "Science Fiction"}},
		discover: func(f domain.DiscoverFilter) (*domain.Page[domain.Media], error) {
			assert.Equal(t, []int{878, 18}, f.GenreIDs)
			assert.Equal(t, 1982, f.Year)
			assert.Equal(t, 7.0, f.MinVoteAvg)
			return &domain.Page[domain.Media]{Page: 1}, nil
		},
	})
	w, _ := do(t, s, http.MethodGet, "/api/discover/movie?genres=scifi,drama&year=1982&min_rating=7", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, s, http.MethodGet, "/api/discover/person", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrailersWithoutVideoClient(t *testing.T) {
	s := newTestServer(t, &stubMetadata{})

	w, _ := do(t, s, http.MethodGet, "/api/trailers", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := do(t, s, http.MethodGet, "/api/trailers?title=Dune", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, CodeProvider, env.Error.Code)
}

func TestWatchlistLifecycle(t *testing.T) {
	s := newTestServer(t, &stubMetadata{})

	w, env := do(t, s, http.MethodPost, "/api/watchlist",
		`{"id":550,"type":"movie","title":"Fight Club","release_date":"1999-10-15","vote_average":8.4}`)
	require.Equal(t, http.StatusCreated, w.Code, string(env.Data))

	// Second add keeps the first entry
	w, env = do(t, s, http.MethodPost, "/api/watchlist", `{"id":550,"type":"movie","title":"Other"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	var added struct {
		Added bool                 `json:"added"`
		Item  domain.WatchlistItem `json:"item"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &added))
	assert.False(t, added.Added)
	assert.Equal(t, "Fight Club", added.Item.Title)
	assert.Equal(t, domain.StatusWantToWatch, added.Item.Status)

	w, env = do(t, s, http.MethodPatch, "/api/watchlist/movie/550", `{"status":"watched","userRating":9}`)
	require.Equal(t, http.StatusOK, w.Code)
	var item domain.WatchlistItem
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, domain.StatusWatched, item.Status)
	assert.Equal(t, 9, item.UserRating)

	w, env = do(t, s, http.MethodGet, "/api/watchlist?status=watched", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list watchlistListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Counts.ByStatus[domain.StatusWatched])

	_, env = do(t, s, http.MethodGet, "/api/watchlist/movie/550", "")
	assert.Contains(t, string(env.Data), `"in_watchlist":true`)

	w, env = do(t, s, http.MethodDelete, "/api/watchlist/movie/550", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"removed":true`)

	w, env = do(t, s, http.MethodDelete, "/api/watchlist/movie/550", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"removed":false`)
}

func TestWatchlistListFilters(t *testing.T) {
	s := newTestServer(t, &stubMetadata{})

	for _, body := range []string{
		`{"id":550,"type":"movie","title":"Fight Club","status":"watched"}`,
		`{"id":807,"type":"movie","title":"Se7en"}`,
		`{"id":1949,"type":"movie","title":"Zodiac","status":"watched"}`,
	} {
		w, env := do(t, s, http.MethodPost, "/api/watchlist", body)
		require.Equal(t, http.StatusCreated, w.Code, string(env.Data))
	}

	list := func(query string) []string {
		t.Helper()
		w, env := do(t, s, http.MethodGet, "/api/watchlist"+query, "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp watchlistListResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		out := make([]string, len(resp.Items))
		for i, it := range resp.Items {
			out[i] = it.Title
		}
		return out
	}

	assert.Equal(t, []string{"Fight Club", "Zodiac"}, list("?status=watched&sort=title"))
	assert.Equal(t, []string{"Se7en"}, list("?status=want_to_watch"))
	assert.Equal(t, []string{"Zodiac"}, list("?status=watched&q=zod"))
	assert.Empty(t, list("?status=watching&q=zod"))
	assert.Len(t, list("?status=all"), 3)

	w, env := do(t, s, http.MethodGet, "/api/watchlist?status=binged", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidation, env.Error.Code)
}

func TestWatchlistValidation(t *testing.T) {
	s := newTestServer(t, &stubMetadata{})

	w, env := do(t, s, http.MethodPost, "/api/watchlist", `{"id":1,"type":"person","title":"X"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidation, env.Error.Code)

	w, _ = do(t, s, http.MethodPost, "/api/watchlist", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, s, http.MethodPatch, "/api/watchlist/movie/1", `{"status":"watched"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, s, http.MethodPatch, "/api/watchlist/movie/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, s, http.MethodPatch, "/api/watchlist/movie/1", `{"userRating":11}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownRouteAndPanicRecovery(t *testing.T) {
	s := newTestServer(t, &stubMetadata{})

	w, env := do(t, s, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, env.Error.Code)

	// TVList is not stubbed, so the embedded nil interface panics
	w, env = do(t, s, http.MethodGet, "/api/tv", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeInternal, env.Error.Code)
}
