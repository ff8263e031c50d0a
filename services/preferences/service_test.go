package preferences_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"cineswipe/internal/database"
	"cineswipe/models"
	"cineswipe/services/preferences"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Every test acts as user u1; the row satisfies the foreign keys.
	u := models.User{ID: "u1", Username: "u1", Email: "u1@example.com", PasswordHash: "x"}
	if err := (database.UserRepo{}).Insert(context.Background(), db, &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return db
}

func TestGetReturnsDefaultsForNewUser(t *testing.T) {
	svc := preferences.NewService(openDB(t))

	p, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if p.RuntimePreference != models.RuntimeAny {
		t.Fatalf("runtime preference = %q, want any", p.RuntimePreference)
	}
	if p.FirstEnabled() != nil {
		t.Fatalf("expected no enabled genres, got %+v", p.FirstEnabled())
	}
	if p.ChildMode {
		t.Fatal("child mode should default off")
	}
}

func TestSaveAndGetRoundtrip(t *testing.T) {
	svc := preferences.NewService(openDB(t))
	ctx := context.Background()

	p := models.DefaultPreferences("u1")
	p.Horror = boolptr(true)
	p.Comedy = boolptr(false)
	p.MinYear = intptr(1990)
	p.MinRating = floatptr(6.5)
	p.RuntimePreference = models.RuntimeMedium
	p.ChildMode = true

	if _, err := svc.Save(ctx, &p); err != nil {
		t.Fatalf("save returned error: %v", err)
	}

	got, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if got.Horror == nil || !*got.Horror {
		t.Fatal("horror flag lost")
	}
	if got.Comedy == nil || *got.Comedy {
		t.Fatal("explicit false comedy flag lost")
	}
	if got.Action != nil {
		t.Fatal("unset action flag should stay nil")
	}
	if got.MinYear == nil || *got.MinYear != 1990 {
		t.Fatalf("min year = %v", got.MinYear)
	}
	if got.MinRating == nil || *got.MinRating != 6.5 {
		t.Fatalf("min rating = %v", got.MinRating)
	}
	if got.RuntimePreference != models.RuntimeMedium {
		t.Fatalf("runtime preference = %q", got.RuntimePreference)
	}
	if !got.ChildMode {
		t.Fatal("child mode lost")
	}
}

func TestSaveValidation(t *testing.T) {
	svc := preferences.NewService(openDB(t))
	ctx := context.Background()

	cases := []func(*models.Preferences){
		func(p *models.Preferences) { p.MinYear = intptr(1850) },
		func(p *models.Preferences) { p.MinYear = intptr(2010); p.MaxYear = intptr(2000) },
		func(p *models.Preferences) { p.MinRating = floatptr(11) },
		func(p *models.Preferences) { p.RuntimePreference = "epic" },
	}
	for i, mutate := range cases {
		p := models.DefaultPreferences("u1")
		mutate(&p)
		if _, err := svc.Save(ctx, &p); !errors.Is(err, preferences.ErrInvalidPreference) {
			t.Errorf("case %d: expected ErrInvalidPreference, got %v", i, err)
		}
	}
}

func TestToggleGenreCycle(t *testing.T) {
	svc := preferences.NewService(openDB(t))
	ctx := context.Background()

	p, enabled, err := svc.ToggleGenre(ctx, "u1", "genre_horror")
	if err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}
	if !enabled || p.Horror == nil || !*p.Horror {
		t.Fatal("first toggle should enable the genre")
	}

	_, enabled, err = svc.ToggleGenre(ctx, "u1", "genre_horror")
	if err != nil {
		t.Fatalf("second toggle returned error: %v", err)
	}
	if enabled {
		t.Fatal("second toggle should disable the genre")
	}

	if _, _, err := svc.ToggleGenre(ctx, "u1", "genre_kaiju"); !errors.Is(err, preferences.ErrUnknownGenre) {
		t.Fatalf("expected ErrUnknownGenre, got %v", err)
	}
}

func TestSetYearRangePresets(t *testing.T) {
	svc := preferences.NewService(openDB(t))
	ctx := context.Background()

	p, err := svc.SetYearRange(ctx, "u1", nil, nil, preferences.PresetClassics)
	if err != nil {
		t.Fatalf("preset returned error: %v", err)
	}
	if p.MinYear == nil || *p.MinYear != 1970 || p.MaxYear == nil || *p.MaxYear != 1999 {
		t.Fatalf("classics window = %v..%v", p.MinYear, p.MaxYear)
	}

	p, err = svc.SetYearRange(ctx, "u1", nil, nil, preferences.PresetAllTime)
	if err != nil {
		t.Fatalf("preset returned error: %v", err)
	}
	if p.MinYear != nil || p.MaxYear != nil {
		t.Fatalf("all_time should clear bounds, got %v..%v", p.MinYear, p.MaxYear)
	}

	p, err = svc.SetYearRange(ctx, "u1", intptr(1985), intptr(1995), "")
	if err != nil {
		t.Fatalf("explicit bounds returned error: %v", err)
	}
	if *p.MinYear != 1985 || *p.MaxYear != 1995 {
		t.Fatalf("explicit window = %v..%v", p.MinYear, p.MaxYear)
	}

	if _, err := svc.SetYearRange(ctx, "u1", nil, nil, "golden_age"); !errors.Is(err, preferences.ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestDeleteRevertsToDefaults(t *testing.T) {
	svc := preferences.NewService(openDB(t))
	ctx := context.Background()

	p := models.DefaultPreferences("u1")
	p.Horror = boolptr(true)
	if _, err := svc.Save(ctx, &p); err != nil {
		t.Fatalf("save returned error: %v", err)
	}
	if err := svc.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}

	got, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if got.Horror != nil {
		t.Fatal("expected defaults after delete")
	}
}
