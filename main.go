package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cineswipe/api"
	"cineswipe/config"
	"cineswipe/handlers"
	"cineswipe/internal/database"
	"cineswipe/services/interactions"
	"cineswipe/services/mail"
	"cineswipe/services/movies"
	"cineswipe/services/preferences"
	"cineswipe/services/recommend"
	uisettings "cineswipe/services/settings"
	"cineswipe/services/tmdb"
	"cineswipe/services/users"
	"cineswipe/services/watchlist"

	"github.com/gorilla/mux"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🚀 CineSwipe Backend Starting...")

	// Determine config path (env or default)
	configPath := os.Getenv("CINESWIPE_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("data", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	// Apply port override if specified
	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	if settings.TMDB.APIKey == "" {
		log.Printf("warning: no TMDB API key configured; movie endpoints will be disabled")
	}
	if settings.Auth.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is not configured; set it in %s or the environment", configPath)
	}

	dbDir := filepath.Dir(settings.Database.Path)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		log.Fatalf("failed to create database directory: %v", err)
	}
	db, err := database.Open(settings.Database.Path)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	fmt.Printf("💾 Database ready at %s\n", settings.Database.Path)

	// Construct services
	tmdbClient := tmdb.NewClient(settings.TMDB.APIKey, settings.TMDB.Language)
	mailer := mail.New(settings.SMTP.Host, settings.SMTP.Port, settings.SMTP.Username, settings.SMTP.Password, settings.SMTP.From)

	usersService := users.NewService(db, mailer, settings.Auth.JWTSecret, settings.Auth.FrontendURL)
	preferencesService := preferences.NewService(db)
	moviesService := movies.NewService(tmdbClient, movies.NewFilter(tmdbClient), db, preferencesService, settings.TMDB.Language)
	interactionsService := interactions.NewService(db, tmdbClient)
	watchlistService := watchlist.NewService(db)
	recommendService := recommend.NewService(db, tmdbClient, preferencesService)
	settingsService := uisettings.NewService(db)

	// Construct router and register routes
	r := mux.NewRouter()
	api.Register(
		r,
		settings.CORS.AllowedOrigin,
		handlers.NewUsersHandler(usersService),
		handlers.NewMoviesHandler(moviesService),
		handlers.NewPreferencesHandler(preferencesService),
		handlers.NewInteractionsHandler(interactionsService),
		handlers.NewWatchlistHandler(watchlistService),
		handlers.NewRecommendationsHandler(recommendService),
		handlers.NewSettingsHandler(settingsService),
		usersService,
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
