package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cineswipe/models"
	"cineswipe/services/movies"
)

type moviesService interface {
	Discover(ctx context.Context, userID string, page int, language string) ([]models.Movie, error)
	Popular(ctx context.Context, userID string, page int, language string) ([]models.Movie, error)
	Trending(ctx context.Context, userID, window, language string) ([]models.Movie, error)
	Search(ctx context.Context, query string, page int, language string) ([]models.Movie, error)
	Details(ctx context.Context, tmdbID int64) (*models.Movie, error)
}

var _ moviesService = (*movies.Service)(nil)

type MoviesHandler struct {
	Service moviesService
}

func NewMoviesHandler(service moviesService) *MoviesHandler {
	return &MoviesHandler{Service: service}
}

func (h *MoviesHandler) Discover(w http.ResponseWriter, r *http.Request) {
	ms, err := h.Service.Discover(r.Context(), UserID(r), queryInt(r, "page", 1), queryLanguage(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeMovieList(w, ms)
}

func (h *MoviesHandler) Popular(w http.ResponseWriter, r *http.Request) {
	ms, err := h.Service.Popular(r.Context(), UserID(r), queryInt(r, "page", 1), queryLanguage(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeMovieList(w, ms)
}

func (h *MoviesHandler) Trending(w http.ResponseWriter, r *http.Request) {
	window := r.URL.Query().Get("window")
	ms, err := h.Service.Trending(r.Context(), UserID(r), window, queryLanguage(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeMovieList(w, ms)
}

func (h *MoviesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "query parameter is required", http.StatusBadRequest)
		return
	}

	ms, err := h.Service.Search(r.Context(), query, queryInt(r, "page", 1), queryLanguage(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeMovieList(w, ms)
}

func (h *MoviesHandler) Details(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(mux.Vars(r)["movieID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	m, err := h.Service.Details(r.Context(), tmdbID)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, movies.ErrMovieNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}

func (h *MoviesHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeMovieList(w http.ResponseWriter, ms []models.Movie) {
	if ms == nil {
		ms = []models.Movie{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"results": ms,
		"count":   len(ms),
	})
}

// queryLanguage reads the per-request locale override; empty means the
// configured default.
func queryLanguage(r *http.Request) string {
	return r.URL.Query().Get("language")
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
