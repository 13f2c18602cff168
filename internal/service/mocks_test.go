package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockMetadata struct {
	mock.Mock
}

func (m *mockMetadata) page(args mock.Arguments) (*domain.Page[domain.Media], error) {
	p, _ := args.Get(0).(*domain.Page[domain.Media])
	return p, args.Error(1)
}

func (m *mockMetadata) SearchMulti(ctx context.Context, query string, page int) (*domain.Page[domain.Media], error) {
	return m.page(m.Called(ctx, query, page))
}

func (m *mockMetadata) SearchMovies(ctx context.Context, query string, page int) (*domain.Page[domain.Media], error) {
	return m.page(m.Called(ctx, query, page))
}

func (m *mockMetadata) SearchTV(ctx context.Context, query string, page int) (*domain.Page[domain.Media], error) {
	return m.page(m.Called(ctx, query, page))
}

func (m *mockMetadata) Trending(ctx context.Context, mediaType domain.MediaType, window domain.TrendingWindow) (*domain.Page[domain.Media], error) {
	return m.page(m.Called(ctx, mediaType, window))
}

func (m *mockMetadata) MovieList(ctx context.Context, category domain.MovieCategory, page int) (*domain.Page[domain.Media], error) {
	return m.page(m.Called(ctx, category, page))
}

func (m *mockMetadata) TVList(ctx context.Context, category domain.TVCategory, page int) (*domain.Page[domain.Media], error) {
	return m.page(m.Called(ctx, category, page))
}

func (m *mockMetadata) MovieDetails(ctx context.Context, id int) (*domain.MovieDetails, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*domain.MovieDetails)
	return d, args.Error(1)
}

func (m *mockMetadata) TVDetails(ctx context.Context, id int) (*domain.TVDetails, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*domain.TVDetails)
	return d, args.Error(1)
}

func (m *mockMetadata) MovieGenres(ctx context.Context) ([]domain.Genre, error) {
	args := m.Called(ctx)
	g, _ := args.Get(0).([]domain.Genre)
	return g, args.Error(1)
}

func (m *mockMetadata) TVGenres(ctx context.Context) ([]domain.Genre, error) {
	args := m.Called(ctx)
	g, _ := args.Get(0).([]domain.Genre)
	return g, args.Error(1)
}

func (m *mockMetadata) DiscoverMovies(ctx context.Context, filter domain.DiscoverFilter) (*domain.Page[domain.Media], error) {
	return m.page(m.Called(ctx, filter))
}

func (m *mockMetadata) DiscoverTV(ctx context.Context, filter domain.DiscoverFilter) (*domain.Page[domain.Media], error) {
	return m.page(m.Called(ctx, filter))
}

type mockRatings struct {
	mock.Mock
}

func (m *mockRatings) ByIMDbID(ctx context.Context, imdbID string) (*domain.Ratings, error) {
	args := m.Called(ctx, imdbID)
	r, _ := args.Get(0).(*domain.Ratings)
	return r, args.Error(1)
}

func (m *mockRatings) ByTitle(ctx context.Context, title, year string) (*domain.Ratings, error) {
	args := m.Called(ctx, title, year)
	r, _ := args.Get(0).(*domain.Ratings)
	return r, args.Error(1)
}

func (m *mockRatings) Search(ctx context.Context, query string, page int) (*domain.Page[domain.RatingsSearchResult], error) {
	args := m.Called(ctx, query, page)
	p, _ := args.Get(0).(*domain.Page[domain.RatingsSearchResult])
	return p, args.Error(1)
}

type mockVideos struct {
	mock.Mock
}

func (m *mockVideos) SearchVideos(ctx context.Context, query string, maxResults int) ([]domain.Trailer, error) {
	args := m.Called(ctx, query, maxResults)
	t, _ := args.Get(0).([]domain.Trailer)
	return t, args.Error(1)
}

func (m *mockVideos) VideoDetails(ctx context.Context, videoID string) (*domain.VideoDetails, error) {
	args := m.Called(ctx, videoID)
	v, _ := args.Get(0).(*domain.VideoDetails)
	return v, args.Error(1)
}

func (m *mockVideos) SearchTrailers(ctx context.Context, title, year string, mediaType domain.MediaType, maxResults int) ([]domain.Trailer, error) {
	args := m.Called(ctx, title, year, mediaType, maxResults)
	t, _ := args.Get(0).([]domain.Trailer)
	return t, args.Error(1)
}
