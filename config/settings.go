package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Settings represents the application configuration persisted to disk.
// Secrets can also arrive through environment variables, which win over
// the file.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Database DatabaseSettings `json:"database"`
	TMDB     TMDBSettings     `json:"tmdb"`
	Auth     AuthSettings     `json:"auth"`
	SMTP     SMTPSettings     `json:"smtp"`
	CORS     CORSSettings     `json:"cors"`
	Log      LogSettings      `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseSettings struct {
	Path string `json:"path"`
}

type TMDBSettings struct {
	APIKey   string `json:"apiKey"`
	Language string `json:"language"`
}

type AuthSettings struct {
	JWTSecret string `json:"jwtSecret"`
	// FrontendURL is the base used in password-reset links.
	FrontendURL string `json:"frontendUrl"`
}

type SMTPSettings struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type CORSSettings struct {
	AllowedOrigin string `json:"allowedOrigin"`
}

type LogSettings struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"` // megabytes
	MaxAge     int    `json:"maxAge"`  // days
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns sane defaults for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Server:   ServerSettings{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseSettings{Path: "data/cineswipe.db"},
		TMDB:     TMDBSettings{Language: "en-US"},
		Auth:     AuthSettings{FrontendURL: "http://localhost:5173"},
		SMTP:     SMTPSettings{Port: 587},
		CORS:     CORSSettings{AllowedOrigin: "*"},
		Log: LogSettings{
			File:       "logs/cineswipe.log",
			MaxSize:    10,
			MaxAge:     14,
			MaxBackups: 5,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk, creating it with defaults when
// missing, then applies environment overrides.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	settings := DefaultSettings()
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		if err := m.Save(settings); err != nil {
			return Settings{}, err
		}
		applyEnv(&settings)
		return settings, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&settings); err != nil {
		return Settings{}, err
	}
	applyEnv(&settings)
	return settings, nil
}

// applyEnv lets secrets and deployment-specific values come from the
// environment instead of the settings file.
func applyEnv(s *Settings) {
	envString(&s.TMDB.APIKey, "TMDB_API_KEY")
	envString(&s.Auth.JWTSecret, "JWT_SECRET")
	envString(&s.Auth.FrontendURL, "FRONTEND_URL")
	envString(&s.Database.Path, "DATABASE_PATH")
	envString(&s.SMTP.Host, "SMTP_HOST")
	envString(&s.SMTP.Username, "SMTP_USERNAME")
	envString(&s.SMTP.Password, "SMTP_PASSWORD")
	envString(&s.SMTP.From, "SMTP_FROM")
	envInt(&s.SMTP.Port, "SMTP_PORT")
	envString(&s.CORS.AllowedOrigin, "CORS_ALLOWED_ORIGIN")
	envInt(&s.Server.Port, "PORT")
}

func envString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
