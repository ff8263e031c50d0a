package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cineswipe/models"
	"cineswipe/services/interactions"
)

type interactionsService interface {
	Swipe(ctx context.Context, userID string, tmdbID int64, kind string) (*interactions.SwipeResult, error)
	Remove(ctx context.Context, userID string, tmdbID int64) error
	ClearLikes(ctx context.Context, userID string) (*interactions.ClearResult, error)
	List(ctx context.Context, userID, kind string, limit, offset int) ([]models.Interaction, error)
	Stats(ctx context.Context, userID string) (*models.InteractionStats, error)
}

var _ interactionsService = (*interactions.Service)(nil)

type InteractionsHandler struct {
	Service interactionsService
}

func NewInteractionsHandler(service interactionsService) *InteractionsHandler {
	return &InteractionsHandler{Service: service}
}

// Swipe records a LIKE or DISLIKE verdict. Re-swiping the same movie
// overwrites the previous verdict and adjusts the watchlist to match.
func (h *InteractionsHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MovieID int64  `json:"movieId"`
		Kind    string `json:"kind"`
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

	result, err := h.Service.Swipe(r.Context(), UserID(r), body.MovieID, body.Kind)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, interactions.ErrInvalidKind):
			status = http.StatusBadRequest
		case errors.Is(err, interactions.ErrMovieNotFound):
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

func (h *InteractionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Service.List(r.Context(), UserID(r), q.Get("kind"),
		queryInt(r, "limit", 0), queryOffset(r))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, interactions.ErrInvalidKind) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	if items == nil {
		items = []models.Interaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"results": items,
		"count":   len(items),
	})
}

func (h *InteractionsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context(), UserID(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *InteractionsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(mux.Vars(r)["movieID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	if err := h.Service.Remove(r.Context(), UserID(r), tmdbID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, interactions.ErrInteractionNotFound),
			errors.Is(err, interactions.ErrMovieNotFound):
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearLikes drops every LIKE verdict together with the watchlist rows
// the likes created.
func (h *InteractionsHandler) ClearLikes(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.ClearLikes(r.Context(), UserID(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *InteractionsHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func queryOffset(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
