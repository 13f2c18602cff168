package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/watchlist"
)

type watchlistListResponse struct {
	Items  []domain.WatchlistItem `json:"items"`
	Counts domain.WatchlistCounts `json:"counts"`
}

// handleWatchlistList supports ?status=, ?sort= and ?q= (fuzzy title match)
func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status domain.WatchStatus
	if raw := q.Get("status"); raw != "" && raw != "all" {
		st, err := domain.ParseWatchStatus(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		status = st
	}

	var items []domain.WatchlistItem
	query := strings.TrimSpace(q.Get("q"))
	switch {
	case query != "" && status != "":
		items = watchlist.WithStatus(s.watchlist.Find(query), status)
	case query != "":
		items = s.watchlist.Find(query)
	case status != "":
		items = s.watchlist.ByStatus(status)
	default:
		items = s.watchlist.All()
	}

	if raw := q.Get("sort"); raw != "" {
		key, err := watchlist.ParseSortKey(raw)
		if err != nil {
			s.writeError(w, r, badRequest(err.Error()))
			return
		}
		items = watchlist.Sorted(items, key)
	}

	if items == nil {
		items = []domain.WatchlistItem{}
	}
	jsonSuccess(w, r, watchlistListResponse{Items: items, Counts: s.watchlist.Counts()})
}

func decodeBody(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var item domain.WatchlistItem
	if err := decodeBody(r, w, &item); err != nil {
		s.writeError(w, r, err)
		return
	}
	added, err := s.watchlist.Add(item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stored, _ := s.watchlist.Get(item.ID, item.MediaType)
	body := map[string]any{"added": added, "item": stored}
	if added {
		jsonCreated(w, r, body)
		return
	}
	jsonSuccess(w, r, body)
}

func (s *Server) handleWatchlistClear(w http.ResponseWriter, r *http.Request) {
	if err := s.watchlist.Clear(); err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, map[string]any{"cleared": true})
}

func (s *Server) itemKey(r *http.Request) (int, domain.MediaType, error) {
	mediaType, err := pathMediaType(r)
	if err != nil {
		return 0, "", err
	}
	id, err := pathID(r)
	if err != nil {
		return 0, "", err
	}
	return id, mediaType, nil
}

func (s *Server) handleWatchlistGet(w http.ResponseWriter, r *http.Request) {
	id, mediaType, err := s.itemKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	item, ok := s.watchlist.Get(id, mediaType)
	body := map[string]any{"in_watchlist": ok}
	if ok {
		body["item"] = item
	}
	jsonSuccess(w, r, body)
}

func (s *Server) handleWatchlistUpdate(w http.ResponseWriter, r *http.Request) {
	id, mediaType, err := s.itemKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var upd domain.WatchlistUpdate
	if err := decodeBody(r, w, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	if upd.Empty() {
		s.writeError(w, r, badRequest("nothing to update: set status or userRating"))
		return
	}
	updated, err := s.watchlist.Update(id, mediaType, upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !updated {
		jsonError(w, r, http.StatusNotFound, CodeNotFound, "item is not in the watchlist")
		return
	}
	item, _ := s.watchlist.Get(id, mediaType)
	jsonSuccess(w, r, item)
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	id, mediaType, err := s.itemKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	removed, err := s.watchlist.Remove(id, mediaType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonSuccess(w, r, map[string]any{"removed": removed})
}
