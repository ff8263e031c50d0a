package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cineswipe/models"
	"cineswipe/services/watchlist"
)

type watchlistService interface {
	Add(ctx context.Context, userID string, tmdbID int64) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, userID string, tmdbID int64) error
	List(ctx context.Context, userID string, watched *bool, limit, offset int) ([]models.WatchlistEntry, int64, error)
	SetWatched(ctx context.Context, userID string, tmdbID int64, watched bool, rating *float64) (*models.WatchlistEntry, error)
	Stats(ctx context.Context, userID string) (*models.WatchlistStats, error)
}

var _ watchlistService = (*watchlist.Service)(nil)

type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(service watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: service}
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	var watched *bool
	if raw := r.URL.Query().Get("watched"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid watched filter", http.StatusBadRequest)
			return
		}
		watched = &v
	}

	entries, total, err := h.Service.List(r.Context(), UserID(r), watched,
		queryInt(r, "limit", 0), queryOffset(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"results": entries,
		"count":   len(entries),
		"total":   total,
	})
}

// Add lists a movie and records a LIKE for it, matching the swipe flow.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MovieID int64 `json:"movieId"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.MovieID <= 0 {
		http.Error(w, "movieId is required", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.Add(r.Context(), UserID(r), body.MovieID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, watchlist.ErrAlreadyListed):
			status = http.StatusConflict
		case errors.Is(err, watchlist.ErrMovieNotFound):
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(mux.Vars(r)["movieID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	if err := h.Service.Remove(r.Context(), UserID(r), tmdbID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, watchlist.ErrNotListed),
			errors.Is(err, watchlist.ErrMovieNotFound):
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) SetWatched(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(mux.Vars(r)["movieID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	var body struct {
		Watched bool     `json:"watched"`
		Rating  *float64 `json:"rating"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.Service.SetWatched(r.Context(), UserID(r), tmdbID, body.Watched, body.Rating)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, watchlist.ErrInvalidRating):
			status = http.StatusBadRequest
		case errors.Is(err, watchlist.ErrNotListed),
			errors.Is(err, watchlist.ErrMovieNotFound):
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

func (h *WatchlistHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context(), UserID(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *WatchlistHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
