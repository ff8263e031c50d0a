package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cineswipe/models"
	"cineswipe/services/recommend"
)

type recommendService interface {
	Recommendations(ctx context.Context, userID string, limit int) ([]recommend.Scored, *recommend.Profile, error)
	Similar(ctx context.Context, userID string, tmdbID int64, limit int) ([]models.Movie, error)
	Trending(ctx context.Context, userID, window string, limit int) ([]recommend.Scored, error)
	Discovery(ctx context.Context, userID string, limit int) ([]models.Movie, []string, error)
}

var _ recommendService = (*recommend.Service)(nil)

type RecommendationsHandler struct {
	Service recommendService
}

func NewRecommendationsHandler(service recommendService) *RecommendationsHandler {
	return &RecommendationsHandler{Service: service}
}

func (h *RecommendationsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ranked, profile, err := h.Service.Recommendations(r.Context(), UserID(r), queryInt(r, "limit", 0))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ranked == nil {
		ranked = []recommend.Scored{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"results": ranked,
		"count":   len(ranked),
		"profile": map[string]any{
			"topGenres":         profile.TopGenreNames(),
			"likedMovies":       len(profile.LikedMovies),
			"totalInteractions": profile.TotalInteractions,
			"likeRatio":         profile.LikeRatio,
			"watchlistCount":    profile.WatchlistCount,
		},
	})
}

func (h *RecommendationsHandler) Similar(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(mux.Vars(r)["movieID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	ms, err := h.Service.Similar(r.Context(), UserID(r), tmdbID, queryInt(r, "limit", 0))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeMovieList(w, ms)
}

func (h *RecommendationsHandler) Trending(w http.ResponseWriter, r *http.Request) {
	window := r.URL.Query().Get("window")
	ranked, err := h.Service.Trending(r.Context(), UserID(r), window, queryInt(r, "limit", 0))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if ranked == nil {
		ranked = []recommend.Scored{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"results": ranked,
		"count":   len(ranked),
	})
}

// Discovery surfaces well rated movies outside the user's usual genres.
func (h *RecommendationsHandler) Discovery(w http.ResponseWriter, r *http.Request) {
	ms, genres, err := h.Service.Discovery(r.Context(), UserID(r), queryInt(r, "limit", 0))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if ms == nil {
		ms = []models.Movie{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"results":      ms,
		"count":        len(ms),
		"exploredFrom": genres,
	})
}

func (h *RecommendationsHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
