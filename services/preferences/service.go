package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"cineswipe/internal/database"
	"cineswipe/models"
)

var (
	// ErrInvalidPreference flags a profile that fails validation.
	ErrInvalidPreference = errors.New("invalid preference value")
	// ErrUnknownGenre flags a toggle request for a genre that does not exist.
	ErrUnknownGenre = errors.New("unknown genre")
	// ErrUnknownPreset flags an unrecognized year preset.
	ErrUnknownPreset = errors.New("unknown year preset")
)

// genreFields maps the wire names of the genre toggles to their fields.
var genreFields = map[string]func(*models.GenreFlags) **bool{
	"genre_documentary":     func(g *models.GenreFlags) **bool { return &g.Documentary },
	"genre_anime":           func(g *models.GenreFlags) **bool { return &g.Anime },
	"genre_action":          func(g *models.GenreFlags) **bool { return &g.Action },
	"genre_animation":       func(g *models.GenreFlags) **bool { return &g.Animation },
	"genre_adventure":       func(g *models.GenreFlags) **bool { return &g.Adventure },
	"genre_comedy":          func(g *models.GenreFlags) **bool { return &g.Comedy },
	"genre_horror":          func(g *models.GenreFlags) **bool { return &g.Horror },
	"genre_drama":           func(g *models.GenreFlags) **bool { return &g.Drama },
	"genre_fantasy":         func(g *models.GenreFlags) **bool { return &g.Fantasy },
	"genre_science_fiction": func(g *models.GenreFlags) **bool { return &g.ScienceFiction },
	"genre_romance":         func(g *models.GenreFlags) **bool { return &g.Romance },
	"genre_thriller":        func(g *models.GenreFlags) **bool { return &g.Thriller },
	"genre_crime":           func(g *models.GenreFlags) **bool { return &g.Crime },
	"genre_family":          func(g *models.GenreFlags) **bool { return &g.Family },
	"genre_history":         func(g *models.GenreFlags) **bool { return &g.History },
	"genre_music":           func(g *models.GenreFlags) **bool { return &g.Music },
	"genre_mystery":         func(g *models.GenreFlags) **bool { return &g.Mystery },
	"genre_war":             func(g *models.GenreFlags) **bool { return &g.War },
	"genre_western":         func(g *models.GenreFlags) **bool { return &g.Western },
}

// Service manages taste profiles. Users without a stored profile get
// defaults; saving always writes the full row.
type Service struct {
	db   *sql.DB
	repo database.PreferenceRepo
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Get returns the stored profile, or defaults when none exists.
func (s *Service) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	p, err := s.repo.ByUserID(ctx, s.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := models.DefaultPreferences(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

// Resolve is Get under the name discovery consumers expect.
func (s *Service) Resolve(ctx context.Context, userID string) (*models.Preferences, error) {
	return s.Get(ctx, userID)
}

// Save validates and stores the full profile.
func (s *Service) Save(ctx context.Context, p *models.Preferences) (*models.Preferences, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	if p.RuntimePreference == "" {
		p.RuntimePreference = models.RuntimeAny
	}
	if err := s.repo.Upsert(ctx, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the stored profile, reverting the user to defaults.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, s.db, userID)
}

// ToggleGenre flips one genre flag: unset or off becomes on, on becomes off.
// Returns the updated profile and the new flag value.
func (s *Service) ToggleGenre(ctx context.Context, userID, genre string) (*models.Preferences, bool, error) {
	field, ok := genreFields[genre]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownGenre, genre)
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	slot := field(&p.GenreFlags)
	enabled := *slot == nil || !**slot
	*slot = &enabled

	if err := s.repo.Upsert(ctx, s.db, p); err != nil {
		return nil, false, err
	}
	log.Printf("[preferences] %s toggled to %t for user %s", genre, enabled, userID)
	return p, enabled, nil
}

// Year presets.
const (
	PresetAllTime  = "all_time"
	PresetModern   = "modern"
	PresetRecent   = "recent"
	PresetLatest   = "latest"
	PresetClassics = "classics"
)

// SetYearRange stores a year window, either explicitly or via a named preset.
// A preset overrides the explicit bounds.
func (s *Service) SetYearRange(ctx context.Context, userID string, minYear, maxYear *int, preset string) (*models.Preferences, error) {
	switch preset {
	case "":
		// keep explicit bounds
	case PresetAllTime:
		minYear, maxYear = nil, nil
	case PresetModern:
		minYear, maxYear = intptr(2000), nil
	case PresetRecent:
		minYear, maxYear = intptr(2015), nil
	case PresetLatest:
		minYear, maxYear = intptr(2020), nil
	case PresetClassics:
		minYear, maxYear = intptr(1970), intptr(1999)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, preset)
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.MinYear, p.MaxYear = minYear, maxYear
	return s.Save(ctx, p)
}

func validate(p *models.Preferences) error {
	currentYear := time.Now().Year()
	if p.MinYear != nil && (*p.MinYear < 1900 || *p.MinYear > currentYear) {
		return fmt.Errorf("%w: min year %d out of range", ErrInvalidPreference, *p.MinYear)
	}
	if p.MaxYear != nil && (*p.MaxYear < 1900 || *p.MaxYear > currentYear+5) {
		return fmt.Errorf("%w: max year %d out of range", ErrInvalidPreference, *p.MaxYear)
	}
	if p.MinYear != nil && p.MaxYear != nil && *p.MinYear > *p.MaxYear {
		return fmt.Errorf("%w: min year after max year", ErrInvalidPreference)
	}
	if p.MinRating != nil && (*p.MinRating < 0 || *p.MinRating > 10) {
		return fmt.Errorf("%w: min rating %.1f out of range", ErrInvalidPreference, *p.MinRating)
	}
	if p.RuntimePreference != "" && !models.ValidRuntimePreference(p.RuntimePreference) {
		return fmt.Errorf("%w: runtime preference %q", ErrInvalidPreference, p.RuntimePreference)
	}
	return nil
}

func intptr(v int) *int { return &v }
