package tmdb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mmcdole/cinedex/internal/adapter/provider/httpclient"
	"github.com/mmcdole/cinedex/internal/cache"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	hits    atomic.Int32
	lastURL atomic.Value
	auth    atomic.Value
}

func newTestClient(t *testing.T, cfg Config, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.hits.Add(1)
		rec.lastURL.Store(r.URL.String())
		rec.auth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	client := NewClient(cfg, httpclient.Config{
		Cache:  cache.New[[]byte](),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return client, rec
}

const searchBody = `{
  "page": 1, "total_pages": 3, "total_results": 42,
  "results": [
    {"id": 348, "media_type": "movie", "title": "Alien", "release_date": "1979-05-25", "vote_average": 8.2, "poster_path": "/alien.jpg"},
    {"id": 1396, "media_type": "tv", "name": "Breaking Bad", "first_air_date": "2008-01-20", "vote_average": 8.9},
    {"id": 500, "media_type": "person", "name": "Tom Cruise", "profile_path": "/tom.jpg"}
  ]
}`

func TestSearchMultiNormalizesResults(t *testing.T) {
	client, rec := newTestClient(t, Config{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "alien", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "k", r.URL.Query().Get("api_key"))
		io.WriteString(w, searchBody)
	})

	page, err := client.SearchMulti(context.Background(), "alien", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rec.hits.Load())

	require.Len(t, page.Results, 3)
	assert.True(t, page.HasNext())
	assert.Equal(t, 42, page.TotalResults)

	movie := page.Results[0]
	assert.Equal(t, domain.MediaTypeMovie, movie.MediaType)
	assert.Equal(t, "1979", movie.Year())

	show := page.Results[1]
	assert.Equal(t, domain.MediaTypeTV, show.MediaType)
	assert.Equal(t, "Breaking Bad", show.Title)
	assert.Equal(t, "2008-01-20", show.ReleaseDate)

	person := page.Results[2]
	assert.Equal(t, domain.MediaTypePerson, person.MediaType)
	assert.Equal(t, "/tom.jpg", person.PosterPath)
}

func TestRepeatedCallIsServedFromCache(t *testing.T) {
	client, rec := newTestClient(t, Config{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, searchBody)
	})

	for i := 0; i < 3; i++ {
		_, err := client.SearchMovies(context.Background(), "alien", 1)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, rec.hits.Load())

	// A different page is a different key
	_, err := client.SearchMovies(context.Background(), "alien", 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rec.hits.Load())
}

func TestBearerTokenAuth(t *testing.T) {
	client, rec := newTestClient(t, Config{AccessToken: "tok"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("api_key"))
		io.WriteString(w, `{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`)
	})

	genres, err := client.MovieGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, genres)
	assert.Equal(t, "Bearer tok", rec.auth.Load())
}

func TestMovieDetailsAppendsAndMaps(t *testing.T) {
	client, _ := newTestClient(t, Config{APIKey: "k", Language: "en-US"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550", r.URL.Path)
		assert.Equal(t, "credits,videos,similar", r.URL.Query().Get("append_to_response"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		io.WriteString(w, `{
		  "id": 550, "title": "Fight Club", "release_date": "1999-10-15", "runtime": 139,
		  "imdb_id": "tt0137523", "tagline": "Mischief. Mayhem. Soap.",
		  "genres": [{"id": 18, "name": "Drama"}],
		  "credits": {
		    "cast": [{"id": 819, "name": "Edward Norton", "character": "The Narrator", "order": 0}],
		    "crew": [{"id": 7467, "name": "David Fincher", "job": "Director", "department": "Directing"}]
		  },
		  "videos": {"results": [{"key": "qtRKdVHc-cE", "name": "Trailer", "site": "YouTube", "type": "Trailer", "official": true}]},
		  "similar": {"page": 1, "results": [{"id": 807, "title": "Se7en"}]}
		}`)
	})

	d, err := client.MovieDetails(context.Background(), 550)
	require.NoError(t, err)

	assert.Equal(t, "Fight Club", d.Title)
	assert.Equal(t, domain.MediaTypeMovie, d.MediaType)
	assert.Equal(t, "tt0137523", d.IMDbID)
	assert.Equal(t, 139, d.Runtime)
	assert.Equal(t, []string{"David Fincher"}, d.Credits.Directors())
	require.Len(t, d.Videos, 1)
	assert.Equal(t, "qtRKdVHc-cE", d.Videos[0].Key)
	require.Len(t, d.Similar, 1)
	assert.Equal(t, domain.MediaTypeMovie, d.Similar[0].MediaType)
}

func TestTVDetailsReadsExternalIDs(t *testing.T) {
	client, _ := newTestClient(t, Config{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "credits,videos,similar,external_ids", r.URL.Query().Get("append_to_response"))
		io.WriteString(w, `{
		  "id": 1396, "name": "Breaking Bad", "first_air_date": "2008-01-20",
		  "number_of_seasons": 5, "networks": [{"id": 174, "name": "AMC"}],
		  "created_by": [{"id": 66633, "name": "Vince Gilligan"}],
		  "external_ids": {"imdb_id": "tt0903747"}
		}`)
	})

	d, err := client.TVDetails(context.Background(), 1396)
	require.NoError(t, err)
	assert.Equal(t, "Breaking Bad", d.Title)
	assert.Equal(t, "tt0903747", d.IMDbID)
	assert.Equal(t, []string{"AMC"}, d.Networks)
	assert.Equal(t, []string{"Vince Gilligan"}, d.CreatedBy)
	assert.Equal(t, 5, d.NumberOfSeasons)
}

func TestNotFoundCarriesStatusMessage(t *testing.T) {
	client, _ := newTestClient(t, Config{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}`)
	})

	_, err := client.MovieDetails(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "TMDB API Error: The resource you requested could not be found.", err.Error())
}

func TestInvalidCategoryMakesNoRequest(t *testing.T) {
	client, rec := newTestClient(t, Config{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.MovieList(context.Background(), "latest", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = client.TVList(context.Background(), domain.TVCategory("upcoming"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = client.Trending(context.Background(), "episode", domain.TrendingDay)
	assert.ErrorIs(t, err, domain.ErrInvalidMediaType)

	assert.EqualValues(t, 0, rec.hits.Load())
}

func TestTrendingPath(t *testing.T) {
	client, rec := newTestClient(t, Config{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"page":1,"results":[{"id":1,"title":"X"}]}`)
	})

	page, err := client.Trending(context.Background(), domain.MediaTypeMovie, domain.TrendingDay)
	require.NoError(t, err)
	assert.Contains(t, rec.lastURL.Load(), "/trending/movie/day")
	assert.Equal(t, domain.MediaTypeMovie, page.Results[0].MediaType, "typed trending fills the media type")
}

func TestDiscoverParams(t *testing.T) {
	client, _ := newTestClient(t, Config{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/discover/tv", r.URL.Path)
		assert.Equal(t, "18,80", q.Get("with_genres"))
		assert.Equal(t, "2008", q.Get("first_air_date_year"))
		assert.Equal(t, "vote_average.desc", q.Get("sort_by"))
		assert.Equal(t, "7.5", q.Get("vote_average.gte"))
		assert.Equal(t, "100", q.Get("vote_count.gte"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Empty(t, q.Get("primary_release_year"))
		io.WriteString(w, `{"page":2,"results":[]}`)
	})

	_, err := client.DiscoverTV(context.Background(), domain.DiscoverFilter{
		GenreIDs:   []int{18, 80},
		Year:       2008,
		SortBy:     "vote_average.desc",
		MinVoteAvg: 7.5,
		MinVotes:   100,
		Page:       2,
	})
	require.NoError(t, err)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, PlaceholderImage, ImageURL("", "", SizePoster))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/a.jpg", ImageURL("", "/a.jpg", ""))
	assert.Equal(t, "https://cdn.example/w185/a.jpg", ImageURL("https://cdn.example/", "/a.jpg", SizePosterSmall))
}
