package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mmcdole/cinedex/internal/service"
	"github.com/mmcdole/cinedex/internal/watchlist"
)

// maxBodyBytes bounds watchlist request bodies
const maxBodyBytes = 1 << 20

// Deps are the services the API serves from
type Deps struct {
	Catalog   *service.CatalogService
	Details   *service.DetailsService
	Watchlist *watchlist.Service
	// ConfigProblems reports missing or placeholder provider settings
	ConfigProblems func() []string
}

// Server is the JSON API
type Server struct {
	catalog   *service.CatalogService
	details   *service.DetailsService
	watchlist *watchlist.Service
	problems  func() []string
	logger    *slog.Logger
	router    *mux.Router
}

// NewServer builds the router and middleware chain
func NewServer(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	problems := deps.ConfigProblems
	if problems == nil {
		problems = func() []string { return nil }
	}
	s := &Server{
		catalog:   deps.Catalog,
		details:   deps.Details,
		watchlist: deps.Watchlist,
		problems:  problems,
		logger:    logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, AccessLog(s.logger), Recovery(s.logger))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/config/status", s.handleConfigStatus).Methods(http.MethodGet)

	api.HandleFunc("/home", s.handleHome).Methods(http.MethodGet)
	api.HandleFunc("/movies", s.handleMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id:[0-9]+}", s.handleMovie).Methods(http.MethodGet)
	api.HandleFunc("/tv", s.handleTV).Methods(http.MethodGet)
	api.HandleFunc("/tv/{id:[0-9]+}", s.handleShow).Methods(http.MethodGet)
	api.HandleFunc("/trending", s.handleTrending).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/genres/{type}", s.handleGenres).Methods(http.MethodGet)
	api.HandleFunc("/discover/{type}", s.handleDiscover).Methods(http.MethodGet)
	api.HandleFunc("/trailers", s.handleTrailers).Methods(http.MethodGet)

	api.HandleFunc("/watchlist", s.handleWatchlistList).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", s.handleWatchlistAdd).Methods(http.MethodPost)
	api.HandleFunc("/watchlist", s.handleWatchlistClear).Methods(http.MethodDelete)
	api.HandleFunc("/watchlist/{type}/{id:[0-9]+}", s.handleWatchlistGet).Methods(http.MethodGet)
	api.HandleFunc("/watchlist/{type}/{id:[0-9]+}", s.handleWatchlistUpdate).Methods(http.MethodPatch)
	api.HandleFunc("/watchlist/{type}/{id:[0-9]+}", s.handleWatchlistRemove).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, r, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, r, http.StatusMethodNotAllowed, CodeValidation, "method not allowed")
	})
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains for up to 5s
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
