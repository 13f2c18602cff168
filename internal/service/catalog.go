package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/cinedex/internal/domain"
	"golang.org/x/sync/errgroup"
)

// SearchKind selects which search endpoint to use
type SearchKind string

const (
	SearchMulti  SearchKind = "multi"
	SearchMovies SearchKind = "movie"
	SearchTV     SearchKind = "tv"
)

// ParseSearchKind accepts multi, movie(s), tv and show(s); blank means multi
func ParseSearchKind(s string) (SearchKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multi", "all":
		return SearchMulti, nil
	case "movie", "movies":
		return SearchMovies, nil
	case "tv", "show", "shows":
		return SearchTV, nil
	}
	return "", fmt.Errorf("%w: search kind %q", domain.ErrInvalidMediaType, s)
}

// HomeFeed is the landing page content
type HomeFeed struct {
	Trending      []domain.Media `json:"trending"`
	PopularMovies []domain.Media `json:"popular_movies"`
	PopularTV     []domain.Media `json:"popular_tv"`
}

// CatalogService serves listings, search, genres, and discover from the metadata provider.
type CatalogService struct {
	metadata domain.MetadataRepository
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(metadata domain.MetadataRepository, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{metadata: metadata, logger: logger}
}

// Home fetches trending-today, popular movies, and popular TV concurrently.
// Any failure fails the whole feed.
func (s *CatalogService) Home(ctx context.Context) (*HomeFeed, error) {
	var feed HomeFeed
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := s.metadata.Trending(gctx, domain.TrendingAll, domain.TrendingDay)
		if err != nil {
			return err
		}
		feed.Trending = page.Results
		return nil
	})
	g.Go(func() error {
		page, err := s.metadata.MovieList(gctx, domain.MoviePopular, 1)
		if err != nil {
			return err
		}
		feed.PopularMovies = page.Results
		return nil
	})
	g.Go(func() error {
		page, err := s.metadata.TVList(gctx, domain.TVPopular, 1)
		if err != nil {
			return err
		}
		feed.PopularTV = page.Results
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load home feed", "error", err)
		return nil, err
	}
	s.logger.Debug("loaded home feed",
		"trending", len(feed.Trending),
		"movies", len(feed.PopularMovies),
		"tv", len(feed.PopularTV))
	return &feed, nil
}

// Movies returns a curated movie listing
func (s *CatalogService) Movies(ctx context.Context, category domain.MovieCategory, page int) (*domain.Page[domain.Media], error) {
	if category == "" {
		category = domain.MoviePopular
	}
	return s.metadata.MovieList(ctx, category, page)
}

// TV returns a curated TV listing
func (s *CatalogService) TV(ctx context.Context, category domain.TVCategory, page int) (*domain.Page[domain.Media], error) {
	if category == "" {
		category = domain.TVPopular
	}
	return s.metadata.TVList(ctx, category, page)
}

// Trending returns trending titles
func (s *CatalogService) Trending(ctx context.Context, mediaType domain.MediaType, window domain.TrendingWindow) (*domain.Page[domain.Media], error) {
	return s.metadata.Trending(ctx, mediaType, window)
}

// Search runs a text search. A blank query returns an empty page without a request.
func (s *CatalogService) Search(ctx context.Context, kind SearchKind, query string, page int) (*domain.Page[domain.Media], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &domain.Page[domain.Media]{Page: 1, Results: []domain.Media{}}, nil
	}

	switch kind {
	case SearchMovies:
		return s.metadata.SearchMovies(ctx, query, page)
	case SearchTV:
		return s.metadata.SearchTV(ctx, query, page)
	case SearchMulti, "":
		return s.metadata.SearchMulti(ctx, query, page)
	default:
		return nil, fmt.Errorf("%w: search kind %q", domain.ErrInvalidMediaType, kind)
	}
}

// Genres lists the genres for movie or tv
func (s *CatalogService) Genres(ctx context.Context, mediaType domain.MediaType) ([]domain.Genre, error) {
	switch mediaType {
	case domain.MediaTypeMovie:
		return s.metadata.MovieGenres(ctx)
	case domain.MediaTypeTV:
		return s.metadata.TVGenres(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, mediaType)
	}
}

// Discover runs a filtered query for movie or tv
func (s *CatalogService) Discover(ctx context.Context, mediaType domain.MediaType, filter domain.DiscoverFilter) (*domain.Page[domain.Media], error) {
	switch mediaType {
	case domain.MediaTypeMovie:
		return s.metadata.DiscoverMovies(ctx, filter)
	case domain.MediaTypeTV:
		return s.metadata.DiscoverTV(ctx, filter)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMediaType, mediaType)
	}
}

// ResolveGenre maps a user-typed genre name to its id. Exact (case-insensitive)
// names win; otherwise the closest fuzzy match is used ("scifi" finds
// "Science Fiction"). Returns ErrNotFound when nothing matches.
func (s *CatalogService) ResolveGenre(ctx context.Context, mediaType domain.MediaType, name string) (domain.Genre, error) {
	name = strings.TrimSpace(name)
	genres, err := s.Genres(ctx, mediaType)
	if err != nil {
		return domain.Genre{}, err
	}

	for _, g := range genres {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}

	if g, ok := matchGenre(name, genres); ok {
		s.logger.Debug("resolved genre by fuzzy match", "query", name, "genre", g.Name)
		return g, nil
	}
	return domain.Genre{}, fmt.Errorf("%w: genre %q", domain.ErrNotFound, name)
}

// matchGenre ranks genre names against query, ignoring spaces and punctuation
// on both sides so "scifi" and "sci-fi" reach "Science Fiction".
func matchGenre(query string, genres []domain.Genre) (domain.Genre, bool) {
	q := squash(query)
	if q == "" {
		return domain.Genre{}, false
	}

	targets := make([]string, len(genres))
	for i, g := range genres {
		targets[i] = squash(g.Name)
	}

	ranks := fuzzy.RankFindFold(q, targets)
	if len(ranks) == 0 {
		return domain.Genre{}, false
	}
	sort.Sort(ranks)
	return genres[ranks[0].OriginalIndex], true
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveGenres resolves a comma-separated list of names or numeric ids
func (s *CatalogService) ResolveGenres(ctx context.Context, mediaType domain.MediaType, list string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.Atoi(part); err == nil {
			ids = append(ids, id)
			continue
		}
		g, err := s.ResolveGenre(ctx, mediaType, part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// SearchPages runs Search over up to pages consecutive pages and merges the
// results. A blank query still makes no request.
func (s *CatalogService) SearchPages(ctx context.Context, kind SearchKind, query string, first, pages int) (*domain.Page[domain.Media], error) {
	if strings.TrimSpace(query) == "" {
		return s.Search(ctx, kind, query, first)
	}
	return collectPages(ctx, func(ctx context.Context, page int) (*domain.Page[domain.Media], error) {
		return s.Search(ctx, kind, query, page)
	}, first, pages, func(loaded, total int) {
		s.logger.Debug("collected search page", "query", query, "loaded", loaded, "total", total)
	})
}
