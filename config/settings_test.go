package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"cineswipe/config"

	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := config.DefaultSettings()
	require.Equal(t, "0.0.0.0", s.Server.Host)
	require.Equal(t, 8080, s.Server.Port)
	require.Equal(t, "data/cineswipe.db", s.Database.Path)
	require.Equal(t, "en-US", s.TMDB.Language)
	require.Empty(t, s.TMDB.APIKey)
	require.Equal(t, "http://localhost:5173", s.Auth.FrontendURL)
	require.Equal(t, 587, s.SMTP.Port)
	require.Equal(t, "*", s.CORS.AllowedOrigin)
	require.Equal(t, "logs/cineswipe.log", s.Log.File)
}

func TestLoadCreatesFileWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	m := config.NewManager(path)

	s, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, config.DefaultSettings(), s)

	_, err = os.Stat(path)
	require.NoError(t, err, "Load should write the defaults to disk")
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := config.NewManager(path)

	s := config.DefaultSettings()
	s.Server.Port = 9090
	s.TMDB.APIKey = "abc123"
	s.Auth.JWTSecret = "s3cret"
	s.Log.Compress = false
	require.NoError(t, m.Save(s))

	got, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := config.NewManager(path)

	s := config.DefaultSettings()
	s.TMDB.APIKey = "from-file"
	require.NoError(t, m.Save(s))

	t.Setenv("TMDB_API_KEY", "from-env")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")

	got, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", got.TMDB.APIKey)
	require.Equal(t, "env-secret", got.Auth.JWTSecret)
	require.Equal(t, 3000, got.Server.Port)
	require.Equal(t, "/tmp/other.db", got.Database.Path)
}

func TestEnvIgnoresUnparsablePort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := config.NewManager(path)
	require.NoError(t, m.Save(config.DefaultSettings()))

	t.Setenv("PORT", "not-a-number")

	got, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, 8080, got.Server.Port)
}

func TestLoadWithoutPathFails(t *testing.T) {
	m := config.NewManager("")
	_, err := m.Load()
	require.Error(t, err)
}
