package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/sourcegraph/conc"
)

// MaxSimilar caps the similar-titles list on detail pages
const MaxSimilar = 12

// DetailOptions selects the optional enrichment for a detail lookup
type DetailOptions struct {
	Ratings     bool // OMDb ratings
	Trailers    bool // YouTube trailer search
	MaxTrailers int  // 0 = provider default
}

// DefaultDetailOptions enriches with ratings only, like the detail pages
var DefaultDetailOptions = DetailOptions{Ratings: true}

// MovieView is a movie detail page
type MovieView struct {
	*domain.MovieDetails
	Ratings  *domain.Ratings  `json:"ratings,omitempty"`
	Trailers []domain.Trailer `json:"trailers,omitempty"`
}

// TVView is a show detail page
type TVView struct {
	*domain.TVDetails
	Ratings  *domain.Ratings  `json:"ratings,omitempty"`
	Trailers []domain.Trailer `json:"trailers,omitempty"`
}

// DetailsService assembles detail pages: primary metadata plus best-effort
// ratings and trailers.
type DetailsService struct {
	metadata domain.MetadataRepository
	ratings  domain.RatingsRepository
	videos   domain.VideoRepository
	logger   *slog.Logger
}

// NewDetailsService creates a new details service. ratings and videos may be
// nil, in which case that enrichment is skipped.
func NewDetailsService(
	metadata domain.MetadataRepository,
	ratings domain.RatingsRepository,
	videos domain.VideoRepository,
	logger *slog.Logger,
) *DetailsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailsService{metadata: metadata, ratings: ratings, videos: videos, logger: logger}
}

// Movie fetches a movie. Primary errors propagate; enrichment errors are logged
// and leave the field nil.
func (s *DetailsService) Movie(ctx context.Context, id int, opts DetailOptions) (*MovieView, error) {
	details, err := s.metadata.MovieDetails(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch movie details", "error", err, "id", id)
		return nil, err
	}
	details.Similar = capSimilar(details.Similar)

	view := &MovieView{MovieDetails: details}
	var wg conc.WaitGroup

	if opts.Ratings && s.ratings != nil && details.IMDbID != "" {
		wg.Go(func() {
			r, err := s.ratings.ByIMDbID(ctx, details.IMDbID)
			if err != nil {
				s.logger.Warn("ratings enrichment failed", "error", err, "id", id, "imdbID", details.IMDbID)
				return
			}
			view.Ratings = r
		})
	}
	if opts.Trailers && s.videos != nil {
		wg.Go(func() {
			view.Trailers = s.trailers(ctx, details.Title, details.Year(), domain.MediaTypeMovie, opts.MaxTrailers)
		})
	}

	wg.Wait()
	return view, nil
}

// TV fetches a show. Ratings use the IMDb external id when TMDB has one and
// fall back to a title + first-air-year lookup.
func (s *DetailsService) TV(ctx context.Context, id int, opts DetailOptions) (*TVView, error) {
	details, err := s.metadata.TVDetails(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch tv details", "error", err, "id", id)
		return nil, err
	}
	details.Similar = capSimilar(details.Similar)

	view := &TVView{TVDetails: details}
	var wg conc.WaitGroup

	if opts.Ratings && s.ratings != nil {
		wg.Go(func() {
			var (
				r   *domain.Ratings
				err error
			)
			if details.IMDbID != "" {
				r, err = s.ratings.ByIMDbID(ctx, details.IMDbID)
			} else {
				r, err = s.ratings.ByTitle(ctx, details.Title, details.Year())
			}
			if err != nil {
				s.logger.Warn("ratings enrichment failed", "error", err, "id", id, "title", details.Title)
				return
			}
			view.Ratings = r
		})
	}
	if opts.Trailers && s.videos != nil {
		wg.Go(func() {
			view.Trailers = s.trailers(ctx, details.Title, details.Year(), domain.MediaTypeTV, opts.MaxTrailers)
		})
	}

	wg.Wait()
	return view, nil
}

// trailers is the best-effort variant used by enrichment
func (s *DetailsService) trailers(ctx context.Context, title, year string, mediaType domain.MediaType, max int) []domain.Trailer {
	list, err := s.videos.SearchTrailers(ctx, title, year, mediaType, max)
	if err != nil {
		s.logger.Warn("trailer enrichment failed", "error", err, "title", title)
		return nil
	}
	return list
}

// Trailers searches trailers directly; errors propagate
func (s *DetailsService) Trailers(ctx context.Context, title, year string, mediaType domain.MediaType, maxResults int) ([]domain.Trailer, error) {
	if s.videos == nil {
		return nil, domain.ErrProviderUnavailable
	}
	return s.videos.SearchTrailers(ctx, title, year, mediaType, maxResults)
}

// Ratings looks up ratings directly by IMDb id or title; errors propagate
func (s *DetailsService) Ratings(ctx context.Context, imdbID, title, year string) (*domain.Ratings, error) {
	if s.ratings == nil {
		return nil, domain.ErrProviderUnavailable
	}
	if imdbID != "" {
		return s.ratings.ByIMDbID(ctx, imdbID)
	}
	return s.ratings.ByTitle(ctx, title, year)
}

func capSimilar(items []domain.Media) []domain.Media {
	if len(items) > MaxSimilar {
		return items[:MaxSimilar]
	}
	return items
}
