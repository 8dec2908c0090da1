// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/pitchfx/internal/adapters/repository"
)

// StoreProvider exposes the result store. Store returns nil until the
// service has started.
type StoreProvider interface {
	Store() repository.Store
}

// GamesHandler serves converted games from the result store.
type GamesHandler struct {
	deps     StoreProvider
	maxLimit int
}

// NewGamesHandler creates a new games handler. maxLimit caps the length of
// a game listing.
func NewGamesHandler(deps StoreProvider, maxLimit int) *GamesHandler {
	return &GamesHandler{deps: deps, maxLimit: maxLimit}
}

func (h *GamesHandler) store(w http.ResponseWriter) (repository.Store, bool) {
	s := h.deps.Store()
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", ErrNotReady)
		return nil, false
	}
	return s, true
}

type gameListResponse struct {
	Total int      `json:"total"`
	Games []string `json:"games"`
}

// HandleListGames handles GET /games?limit=N requests. Without a limit the
// first maxLimit ids are returned.
func (h *GamesHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
			return
		}
		n = v
	}
	store, ok := h.store(w)
	if !ok {
		return
	}
	ids := store.GameIDs(r.Context())
	total := len(ids)
	if len(ids) > n {
		ids = ids[:n]
	}
	writeJSON(w, http.StatusOK, gameListResponse{Total: total, Games: ids})
}

// HandleGetGame handles GET /games/{game_id} and
// GET /games/{game_id}/pitchers/{pitcher_id} requests.
func (h *GamesHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	store, ok := h.store(w)
	if !ok {
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/games/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		res, err := store.Game(r.Context(), parts[0])
		if err != nil {
			h.writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	case len(parts) == 3 && parts[0] != "" && parts[1] == "pitchers":
		pitcherID, err := strconv.Atoi(parts[2])
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		log, err := store.Log(r.Context(), repository.Key{GameID: parts[0], PitcherID: pitcherID})
		if err != nil {
			h.writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, log)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	}
}

func (h *GamesHandler) writeLookupError(w http.ResponseWriter, err error) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
