package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmcdole/cinedex/internal/adapter"
	"github.com/mmcdole/cinedex/internal/adapter/provider"
	"github.com/mmcdole/cinedex/internal/render"
	"github.com/mmcdole/cinedex/internal/service"
	"github.com/mmcdole/cinedex/internal/store"
	"github.com/mmcdole/cinedex/internal/watchlist"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		configPath  string
		jsonOut     bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&jsonOut, "json", false, "print JSON instead of formatted output")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("cinedex %s\n", Version)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configPath, jsonOut, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: cinedex [-config file] [-json] <command> [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.summary)
	}
}

// app holds the wiring shared by the commands. Providers and the watchlist
// are built on first use so that offline commands never touch them.
type app struct {
	cfg        *adapter.Config
	configPath string
	logger     *slog.Logger
	out        *render.Printer
	errOut     *render.Printer
	stdout     io.Writer
	jsonOut    bool

	providers *provider.Set
	catalog   *service.CatalogService
	details   *service.DetailsService
	store     *store.WatchlistStore
	watchlist *watchlist.Service
}

func run(ctx context.Context, configPath string, jsonOut bool, args []string) error {
	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	cmd, ok := findCommand(args[0])
	if !ok {
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	a := &app{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		out:        render.NewPrinter(os.Stdout),
		errOut:     render.NewPrinter(os.Stderr),
		stdout:     os.Stdout,
		jsonOut:    jsonOut,
	}
	defer a.close()

	logger.Info("starting cinedex", "version", Version, "command", cmd.name)
	if err := cmd.run(ctx, a, args[1:]); err != nil && !errors.Is(err, flag.ErrHelp) {
		return err
	}
	return nil
}

// services builds the provider clients and services, printing config
// warnings to stderr first
func (a *app) services() error {
	if a.providers != nil {
		return nil
	}
	a.errOut.Warnings(a.cfg.Validate())

	set, err := provider.New(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create provider clients: %w", err)
	}
	a.providers = set
	a.catalog = service.NewCatalogService(set.Metadata, a.logger)
	a.details = service.NewDetailsService(set.Metadata, set.Ratings, set.Videos, a.logger)
	return nil
}

// openWatchlist opens the local store and hydrates the watchlist
func (a *app) openWatchlist() error {
	if a.watchlist != nil {
		return nil
	}
	st, err := store.NewWatchlistStore(a.cfg.Storage.Path, a.cfg.Storage.Slot)
	if err != nil {
		return fmt.Errorf("failed to open watchlist store: %w", err)
	}
	a.store = st
	a.watchlist = watchlist.NewService(st, a.logger)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("failed to close store", "error", err)
		}
	}
}

// emit prints v as JSON when -json is set, otherwise calls pretty
func (a *app) emit(v any, pretty func()) error {
	if !a.jsonOut {
		pretty()
		return nil
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
