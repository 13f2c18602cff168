package httpapi

import (
	"net/http"
	"strings"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonSuccess(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleConfigStatus(w http.ResponseWriter, r *http.Request) {
	problems := s.problems()
	if problems == nil {
		problems = []string{}
	}
	jsonSuccess(w, r, map[string]any{
		"configured": len(problems) == 0,
		"problems":   problems,
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	feed, err := s.catalog.Home(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, feed)
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category := domain.MovieCategory(r.URL.Query().Get("category"))
	result, err := s.catalog.Movies(r.Context(), category, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, result)
}

func (s *Server) handleTV(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category := domain.TVCategory(r.URL.Query().Get("category"))
	result, err := s.catalog.TV(r.Context(), category, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, result)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mediaType := domain.MediaType(strings.ToLower(q.Get("type")))
	window := domain.TrendingWindow(strings.ToLower(q.Get("window")))
	result, err := s.catalog.Trending(r.Context(), mediaType, window)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	kind, err := service.ParseSearchKind(r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.catalog.Search(r.Context(), kind, r.URL.Query().Get("q"), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, result)
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	mediaType, err := pathMediaType(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	genres, err := s.catalog.Genres(r.Context(), mediaType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, genres)
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	mediaType, err := pathMediaType(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter, err := s.discoverFilter(r, mediaType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.catalog.Discover(r.Context(), mediaType, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, result)
}

// discoverFilter reads genres (names or ids), year, sort, min_rating,
// min_votes, language, include_adult, and page
func (s *Server) discoverFilter(r *http.Request, mediaType domain.MediaType) (domain.DiscoverFilter, error) {
	q := r.URL.Query()
	var (
		f   domain.DiscoverFilter
		err error
	)
	if f.Page, err = queryInt(r, "page", 1); err != nil {
		return f, err
	}
	if f.Year, err = queryInt(r, "year", 0); err != nil {
		return f, err
	}
	if f.MinVotes, err = queryInt(r, "min_votes", 0); err != nil {
		return f, err
	}
	if f.MinVoteAvg, err = queryFloat(r, "min_rating"); err != nil {
		return f, err
	}
	if f.IncludeAdult, err = queryBool(r, "include_adult", false); err != nil {
		return f, err
	}
	f.SortBy = q.Get("sort")
	f.Language = q.Get("language")
	if genres := q.Get("genres"); genres != "" {
		if f.GenreIDs, err = s.catalog.ResolveGenres(r.Context(), mediaType, genres); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (s *Server) detailOptions(r *http.Request) (service.DetailOptions, error) {
	opts := service.DefaultDetailOptions
	var err error
	if opts.Ratings, err = queryBool(r, "ratings", opts.Ratings); err != nil {
		return opts, err
	}
	if opts.Trailers, err = queryBool(r, "trailers", opts.Trailers); err != nil {
		return opts, err
	}
	if opts.MaxTrailers, err = queryInt(r, "max_trailers", 0); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.detailOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.details.Movie(r.Context(), id, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, view)
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.detailOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.details.TV(r.Context(), id, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, view)
}

func (s *Server) handleTrailers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	title := strings.TrimSpace(q.Get("title"))
	if title == "" {
		s.writeError(w, r, badRequest("title is required"))
		return
	}
	mediaType := domain.MediaTypeMovie
	if raw := q.Get("type"); raw != "" {
		var err error
		if mediaType, err = domain.ParseMediaType(raw); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	max, err := queryInt(r, "max", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trailers, err := s.details.Trailers(r.Context(), title, q.Get("year"), mediaType, max)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if trailers == nil {
		trailers = []domain.Trailer{}
	}
	jsonSuccess(w, r, trailers)
}
