package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mmcdole/cinedex/internal/adapter"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/httpapi"
	"github.com/mmcdole/cinedex/internal/service"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"home", "trending today, popular movies and popular TV", runHome},
		{"movies", "movie listings: -category popular|top_rated|now_playing|upcoming", runMovies},
		{"tv", "TV listings: -category popular|top_rated|on_the_air|airing_today", runTV},
		{"trending", "trending titles: -type all|movie|tv|person -window day|week", runTrending},
		{"search", "search titles: [-type multi|movie|tv] <query>", runSearch},
		{"movie", "movie details: [-trailers] [-no-ratings] <id>", runMovie},
		{"show", "TV show details: [-trailers] [-no-ratings] <id>", runShow},
		{"trailers", "find trailers: [-type movie|tv] [-year y] <title>", runTrailers},
		{"ratings", "ratings lookup: [-year y] <imdb id|title>", runRatings},
		{"genres", "list genres: [movie|tv]", runGenres},
		{"discover", "filtered listing: -type movie|tv -genres g1,g2 -year y ...", runDiscover},
		{"watchlist", "manage the watchlist: list|add|remove|update|clear|find|export|import", runWatchlist},
		{"config", "configuration: check|init", runConfig},
		{"serve", "run the JSON API: [-addr :8080]", runServe},
		{"version", "print version", runVersion},
	}
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("cinedex "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseID(fs *flag.FlagSet) (int, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one id")
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", fs.Arg(0))
	}
	return id, nil
}

func runVersion(_ context.Context, _ *app, _ []string) error {
	fmt.Printf("cinedex %s\n", Version)
	return nil
}

// === Catalog ===

func runHome(ctx context.Context, a *app, args []string) error {
	if err := a.services(); err != nil {
		return err
	}
	feed, err := a.catalog.Home(ctx)
	if err != nil {
		return err
	}
	return a.emit(feed, func() { a.out.Home(feed) })
}

func runMovies(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("movies")
	category := fs.String("category", string(domain.MoviePopular), "listing category")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}
	result, err := a.catalog.Movies(ctx, domain.MovieCategory(*category), *page)
	if err != nil {
		return err
	}
	return a.emit(result, func() { a.out.Page(listingTitle(*category, "Movies"), result) })
}

func runTV(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("tv")
	category := fs.String("category", string(domain.TVPopular), "listing category")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}
	result, err := a.catalog.TV(ctx, domain.TVCategory(*category), *page)
	if err != nil {
		return err
	}
	return a.emit(result, func() { a.out.Page(listingTitle(*category, "TV Shows"), result) })
}

// listingTitle turns "top_rated" into "Top Rated Movies"
func listingTitle(category, noun string) string {
	words := strings.Fields(strings.ReplaceAll(category, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(append(words, noun), " ")
}

func runTrending(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("trending")
	mediaType := fs.String("type", string(domain.TrendingAll), "all, movie, tv, or person")
	window := fs.String("window", string(domain.TrendingWeek), "day or week")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}
	result, err := a.catalog.Trending(ctx, domain.MediaType(*mediaType), domain.TrendingWindow(*window))
	if err != nil {
		return err
	}
	return a.emit(result, func() { a.out.Page("Trending", result) })
}

func runSearch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("search")
	kindFlag := fs.String("type", "multi", "multi, movie, or tv")
	page := fs.Int("page", 1, "page number")
	pages := fs.Int("pages", 1, "number of pages to collect, starting at -page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	kind, err := service.ParseSearchKind(*kindFlag)
	if err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	var result *domain.Page[domain.Media]
	if *pages > 1 {
		result, err = a.catalog.SearchPages(ctx, kind, query, *page, *pages)
	} else {
		result, err = a.catalog.Search(ctx, kind, query, *page)
	}
	if err != nil {
		return err
	}
	return a.emit(result, func() { a.out.Page(fmt.Sprintf("Results for %q", query), result) })
}

func detailFlags(fs *flag.FlagSet) func() service.DetailOptions {
	trailers := fs.Bool("trailers", false, "include trailer search")
	maxTrailers := fs.Int("max-trailers", 0, "number of trailers")
	noRatings := fs.Bool("no-ratings", false, "skip the ratings lookup")
	return func() service.DetailOptions {
		return service.DetailOptions{Ratings: !*noRatings, Trailers: *trailers, MaxTrailers: *maxTrailers}
	}
}

func runMovie(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("movie")
	opts := detailFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs)
	if err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}
	view, err := a.details.Movie(ctx, id, opts())
	if err != nil {
		return err
	}
	return a.emit(view, func() { a.out.Movie(view) })
}

func runShow(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("show")
	opts := detailFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs)
	if err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}
	view, err := a.details.TV(ctx, id, opts())
	if err != nil {
		return err
	}
	return a.emit(view, func() { a.out.TV(view) })
}

func runTrailers(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("trailers")
	typeFlag := fs.String("type", "movie", "movie or tv")
	year := fs.String("year", "", "release year")
	max := fs.Int("max", 0, "number of results")
	play := fs.Bool("play", false, "open the first result in the configured player")
	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("a title is required")
	}
	mediaType, err := domain.ParseMediaType(*typeFlag)
	if err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}
	trailers, err := a.details.Trailers(ctx, title, *year, mediaType, *max)
	if err != nil {
		return err
	}
	if err := a.emit(trailers, func() { a.out.Trailers(trailers) }); err != nil {
		return err
	}
	if *play {
		return a.playTrailer(trailers)
	}
	return nil
}

// playTrailer opens the first trailer with the configured player
func (a *app) playTrailer(trailers []domain.Trailer) error {
	if len(trailers) == 0 {
		return fmt.Errorf("no trailer to play")
	}
	launcher := adapter.NewLauncher(a.cfg.Player, a.logger)
	if _, err := launcher.Open(trailers[0].WatchURL()); err != nil {
		return err
	}
	a.out.Info("opened " + trailers[0].Title)
	return nil
}

func runRatings(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("ratings")
	year := fs.String("year", "", "release year for title lookups")
	if err := fs.Parse(args); err != nil {
		return err
	}
	arg := strings.Join(fs.Args(), " ")
	if arg == "" {
		return fmt.Errorf("an IMDb id or title is required")
	}
	if err := a.services(); err != nil {
		return err
	}
	var imdbID, title string
	if strings.HasPrefix(arg, "tt") && !strings.Contains(arg, " ") {
		imdbID = arg
	} else {
		title = arg
	}
	r, err := a.details.Ratings(ctx, imdbID, title, *year)
	if err != nil {
		return err
	}
	return a.emit(r, func() { a.out.Ratings(r) })
}

func runGenres(ctx context.Context, a *app, args []string) error {
	mediaType := domain.MediaTypeMovie
	if len(args) > 0 {
		var err error
		if mediaType, err = domain.ParseMediaType(args[0]); err != nil {
			return err
		}
	}
	if err := a.services(); err != nil {
		return err
	}
	genres, err := a.catalog.Genres(ctx, mediaType)
	if err != nil {
		return err
	}
	return a.emit(genres, func() { a.out.Genres(genres) })
}

func runDiscover(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("discover")
	typeFlag := fs.String("type", "movie", "movie or tv")
	genres := fs.String("genres", "", "comma-separated genre names or ids")
	year := fs.Int("year", 0, "release or first-air year")
	sortBy := fs.String("sort", "", "e.g. popularity.desc, vote_average.desc")
	minRating := fs.Float64("min-rating", 0, "minimum vote average")
	minVotes := fs.Int("min-votes", 0, "minimum vote count")
	language := fs.String("language", "", "original language (ISO 639-1)")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	mediaType, err := domain.ParseMediaType(*typeFlag)
	if err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}

	filter := domain.DiscoverFilter{
		Year:       *year,
		SortBy:     *sortBy,
		MinVoteAvg: *minRating,
		MinVotes:   *minVotes,
		Language:   *language,
		Page:       *page,
	}
	if *genres != "" {
		if filter.GenreIDs, err = a.catalog.ResolveGenres(ctx, mediaType, *genres); err != nil {
			return err
		}
	}
	result, err := a.catalog.Discover(ctx, mediaType, filter)
	if err != nil {
		return err
	}
	return a.emit(result, func() { a.out.Page("Discover", result) })
}

// === Config ===

func runConfig(_ context.Context, a *app, args []string) error {
	sub := "check"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "check":
		problems := a.cfg.Validate()
		if len(problems) == 0 {
			a.out.Success("configuration OK")
			return nil
		}
		a.errOut.Warnings(problems)
		return errors.New("configuration incomplete")
	case "init":
		fs := newFlagSet("config init")
		path := fs.String("path", a.configPath, "file to write")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		written, err := adapter.SaveConfig(a.cfg, *path)
		if err != nil {
			return err
		}
		a.out.Success("wrote " + written)
		return nil
	default:
		return fmt.Errorf("unknown config command %q (want check or init)", sub)
	}
}

// === Serve ===

func runServe(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("serve")
	addr := fs.String("addr", a.cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}
	if err := a.openWatchlist(); err != nil {
		return err
	}
	srv := httpapi.NewServer(httpapi.Deps{
		Catalog:        a.catalog,
		Details:        a.details,
		Watchlist:      a.watchlist,
		ConfigProblems: a.cfg.Validate,
	}, a.logger)
	a.out.Info("listening on " + *addr)
	return srv.ListenAndServe(ctx, *addr)
}
