package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/service"
	"github.com/mmcdole/cinedex/internal/watchlist"
)

func runWatchlist(ctx context.Context, a *app, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	if err := a.openWatchlist(); err != nil {
		return err
	}

	switch sub {
	case "list", "ls":
		return watchlistList(a, args)
	case "add":
		return watchlistAdd(ctx, a, args)
	case "remove", "rm":
		return watchlistRemove(a, args)
	case "update":
		return watchlistUpdate(a, args)
	case "clear":
		return watchlistClear(a)
	case "find":
		return watchlistFind(a, args)
	case "export":
		return watchlistExport(a, args)
	case "import":
		return watchlistImport(a, args)
	default:
		return fmt.Errorf("unknown watchlist command %q", sub)
	}
}

// parseItemKey reads "<movie|tv> <id>"
func parseItemKey(args []string) (domain.MediaType, int, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("expected <movie|tv> <id>")
	}
	mediaType, err := domain.ParseMediaType(args[0])
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.Atoi(args[1])
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid id %q", args[1])
	}
	return mediaType, id, nil
}

// reportPersist turns a failed save into a warning; the change itself stands
func reportPersist(a *app, err error) error {
	var pe *watchlist.PersistError
	if errors.As(err, &pe) {
		a.errOut.Warnings([]string{"watchlist change was not saved: " + pe.Err.Error()})
		return nil
	}
	return err
}

func watchlistList(a *app, args []string) error {
	fs := newFlagSet("watchlist list")
	status := fs.String("status", "all", "all, want_to_watch, watching, or watched")
	sortBy := fs.String("sort", string(watchlist.SortDateAdded), "dateAdded, title, rating, or userRating")
	if err := fs.Parse(args); err != nil {
		return err
	}
	key, err := watchlist.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}

	var items []domain.WatchlistItem
	if *status == "" || *status == "all" {
		items = a.watchlist.All()
	} else {
		st, err := domain.ParseWatchStatus(*status)
		if err != nil {
			return err
		}
		items = a.watchlist.ByStatus(st)
	}
	items = watchlist.Sorted(items, key)

	return a.emit(items, func() {
		a.out.Watchlist(items)
		a.out.WatchlistCounts(a.watchlist.Counts())
	})
}

func watchlistAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("watchlist add")
	status := fs.String("status", string(domain.StatusWantToWatch), "initial status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	mediaType, id, err := parseItemKey(fs.Args())
	if err != nil {
		return err
	}
	st, err := domain.ParseWatchStatus(*status)
	if err != nil {
		return err
	}
	if err := a.services(); err != nil {
		return err
	}

	// Display fields come from the metadata provider at add time
	var media domain.Media
	noEnrichment := service.DetailOptions{}
	switch mediaType {
	case domain.MediaTypeMovie:
		view, err := a.details.Movie(ctx, id, noEnrichment)
		if err != nil {
			return err
		}
		media = view.Media
	default:
		view, err := a.details.TV(ctx, id, noEnrichment)
		if err != nil {
			return err
		}
		media = view.Media
	}
	media.MediaType = mediaType

	added, err := a.watchlist.Add(domain.WatchlistItemFromMedia(media, st))
	if err := reportPersist(a, err); err != nil {
		return err
	}
	if !added {
		a.out.Info(media.Title + " is already on your watchlist")
		return nil
	}
	a.out.Success("added " + media.Title)
	return nil
}

func watchlistRemove(a *app, args []string) error {
	mediaType, id, err := parseItemKey(args)
	if err != nil {
		return err
	}
	removed, err := a.watchlist.Remove(id, mediaType)
	if err := reportPersist(a, err); err != nil {
		return err
	}
	if !removed {
		a.out.Info("not on your watchlist")
		return nil
	}
	a.out.Success("removed")
	return nil
}

func watchlistUpdate(a *app, args []string) error {
	fs := newFlagSet("watchlist update")
	status := fs.String("status", "", "new status")
	rating := fs.Int("rating", -1, "personal rating 0-10")
	if err := fs.Parse(args); err != nil {
		return err
	}
	mediaType, id, err := parseItemKey(fs.Args())
	if err != nil {
		return err
	}

	var upd domain.WatchlistUpdate
	if *status != "" {
		st, err := domain.ParseWatchStatus(*status)
		if err != nil {
			return err
		}
		upd.Status = &st
	}
	if *rating >= 0 {
		upd.UserRating = rating
	}
	if upd.Empty() {
		return fmt.Errorf("nothing to update: pass -status and/or -rating")
	}

	updated, err := a.watchlist.Update(id, mediaType, upd)
	if err := reportPersist(a, err); err != nil {
		return err
	}
	if !updated {
		a.out.Info("not on your watchlist")
		return nil
	}
	a.out.Success("updated")
	return nil
}

func watchlistClear(a *app) error {
	if err := reportPersist(a, a.watchlist.Clear()); err != nil {
		return err
	}
	a.out.Success("watchlist cleared")
	return nil
}

func watchlistFind(a *app, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a search query is required")
	}
	items := a.watchlist.Find(query)
	return a.emit(items, func() { a.out.Watchlist(items) })
}

func watchlistExport(a *app, args []string) error {
	fs := newFlagSet("watchlist export")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return a.watchlist.Export(a.stdout)
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := a.watchlist.Export(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.out.Success(fmt.Sprintf("exported %d items to %s", a.watchlist.Len(), *out))
	return nil
}

func watchlistImport(a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected a file to import")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if err := reportPersist(a, a.watchlist.Import(f)); err != nil {
		return err
	}
	a.out.Success(fmt.Sprintf("imported %d items", a.watchlist.Len()))
	return nil
}
