package api

import (
	"net/http"

	"cineswipe/handlers"
	"cineswipe/services/users"

	"github.com/gorilla/mux"
)

// corsMiddleware handles CORS for API routes.
func corsMiddleware(allowedOrigin string) mux.MiddlewareFunc {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	allowedOrigin string,
	usersHandler *handlers.UsersHandler,
	moviesHandler *handlers.MoviesHandler,
	preferencesHandler *handlers.PreferencesHandler,
	interactionsHandler *handlers.InteractionsHandler,
	watchlistHandler *handlers.WatchlistHandler,
	recommendationsHandler *handlers.RecommendationsHandler,
	settingsHandler *handlers.SettingsHandler,
	usersSvc *users.Service,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware(allowedOrigin))

	// Auth routes (no authentication required)
	api.HandleFunc("/auth/register", usersHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", usersHandler.Options).Methods(http.MethodOptions)
	api.HandleFunc("/auth/login", usersHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", usersHandler.Options).Methods(http.MethodOptions)
	api.HandleFunc("/auth/forgot-password", usersHandler.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", usersHandler.Options).Methods(http.MethodOptions)
	api.HandleFunc("/auth/reset-password", usersHandler.ResetPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset-password", usersHandler.Options).Methods(http.MethodOptions)

	// Health endpoint (public)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet, http.MethodOptions)

	// Protected routes - require a valid bearer token
	protected := api.PathPrefix("").Subrouter()
	protected.Use(handlers.AuthMiddleware(usersSvc))

	protected.HandleFunc("/auth/me", usersHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/me", usersHandler.UpdateMe).Methods(http.MethodPut)
	protected.HandleFunc("/auth/me", usersHandler.Options).Methods(http.MethodOptions)

	// Movie browsing and search
	protected.HandleFunc("/movies/discover", moviesHandler.Discover).Methods(http.MethodGet)
	protected.HandleFunc("/movies/discover", handleOptions).Methods(http.MethodOptions)
	protected.HandleFunc("/movies/popular", moviesHandler.Popular).Methods(http.MethodGet)
	protected.HandleFunc("/movies/popular", handleOptions).Methods(http.MethodOptions)
	protected.HandleFunc("/movies/trending", moviesHandler.Trending).Methods(http.MethodGet)
	protected.HandleFunc("/movies/trending", handleOptions).Methods(http.MethodOptions)
	protected.HandleFunc("/movies/search", moviesHandler.Search).Methods(http.MethodGet)
	protected.HandleFunc("/movies/search", handleOptions).Methods(http.MethodOptions)
	protected.HandleFunc("/movies/{movieID}", moviesHandler.Details).Methods(http.MethodGet)
	protected.HandleFunc("/movies/{movieID}", moviesHandler.Options).Methods(http.MethodOptions)

	// Preference profile
	protected.HandleFunc("/preferences", preferencesHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/preferences", preferencesHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/preferences", preferencesHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/preferences", preferencesHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/preferences/toggle-genre", preferencesHandler.ToggleGenre).Methods(http.MethodPost)
	protected.HandleFunc("/preferences/toggle-genre", preferencesHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/preferences/year-range", preferencesHandler.SetYearRange).Methods(http.MethodPost)
	protected.HandleFunc("/preferences/year-range", preferencesHandler.Options).Methods(http.MethodOptions)

	// Swipe ledger
	protected.HandleFunc("/interactions", interactionsHandler.Swipe).Methods(http.MethodPost)
	protected.HandleFunc("/interactions", interactionsHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/interactions", interactionsHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/interactions/stats", interactionsHandler.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/interactions/stats", interactionsHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/interactions/likes", interactionsHandler.ClearLikes).Methods(http.MethodDelete)
	protected.HandleFunc("/interactions/likes", interactionsHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/interactions/{movieID}", interactionsHandler.Remove).Methods(http.MethodDelete)
	protected.HandleFunc("/interactions/{movieID}", interactionsHandler.Options).Methods(http.MethodOptions)

	// Watchlist
	protected.HandleFunc("/watchlist", watchlistHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/watchlist", watchlistHandler.Add).Methods(http.MethodPost)
	protected.HandleFunc("/watchlist", watchlistHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/watchlist/stats", watchlistHandler.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/watchlist/stats", watchlistHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/watchlist/{movieID}", watchlistHandler.Remove).Methods(http.MethodDelete)
	protected.HandleFunc("/watchlist/{movieID}", watchlistHandler.SetWatched).Methods(http.MethodPatch)
	protected.HandleFunc("/watchlist/{movieID}", watchlistHandler.Options).Methods(http.MethodOptions)

	// UI settings
	protected.HandleFunc("/settings", settingsHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/settings", settingsHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/settings", settingsHandler.Options).Methods(http.MethodOptions)

	// Recommendation feed
	protected.HandleFunc("/recommendations", recommendationsHandler.Feed).Methods(http.MethodGet)
	protected.HandleFunc("/recommendations", recommendationsHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/recommendations/trending", recommendationsHandler.Trending).Methods(http.MethodGet)
	protected.HandleFunc("/recommendations/trending", recommendationsHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/recommendations/discovery", recommendationsHandler.Discovery).Methods(http.MethodGet)
	protected.HandleFunc("/recommendations/discovery", recommendationsHandler.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/recommendations/similar/{movieID}", recommendationsHandler.Similar).Methods(http.MethodGet)
	protected.HandleFunc("/recommendations/similar/{movieID}", recommendationsHandler.Options).Methods(http.MethodOptions)
}
