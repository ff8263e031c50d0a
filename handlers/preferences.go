package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cineswipe/models"
	"cineswipe/services/preferences"
)

type preferencesService interface {
	Get(ctx context.Context, userID string) (*models.Preferences, error)
	Save(ctx context.Context, p *models.Preferences) (*models.Preferences, error)
	Delete(ctx context.Context, userID string) error
	ToggleGenre(ctx context.Context, userID, genre string) (*models.Preferences, bool, error)
	SetYearRange(ctx context.Context, userID string, minYear, maxYear *int, preset string) (*models.Preferences, error)
}

var _ preferencesService = (*preferences.Service)(nil)

type PreferencesHandler struct {
	Service preferencesService
}

func NewPreferencesHandler(service preferencesService) *PreferencesHandler {
	return &PreferencesHandler{Service: service}
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.Service.Get(r.Context(), UserID(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

// Update merges the request body over the current profile, so clients can
// send only the fields they change. An explicit null clears a tri-state flag.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r)
	prefs, err := h.Service.Get(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(prefs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prefs.UserID = userID

	saved, err := h.Service.Save(r.Context(), prefs)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, preferences.ErrInvalidPreference) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(saved)
}

// Delete resets the profile to defaults.
func (h *PreferencesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), UserID(r)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PreferencesHandler) ToggleGenre(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Genre string `json:"genre"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prefs, enabled, err := h.Service.ToggleGenre(r.Context(), UserID(r), body.Genre)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, preferences.ErrUnknownGenre) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"enabled":     enabled,
		"preferences": prefs,
	})
}

func (h *PreferencesHandler) SetYearRange(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MinYear *int   `json:"minYear"`
		MaxYear *int   `json:"maxYear"`
		Preset  string `json:"preset"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prefs, err := h.Service.SetYearRange(r.Context(), UserID(r), body.MinYear, body.MaxYear, body.Preset)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, preferences.ErrUnknownPreset),
			errors.Is(err, preferences.ErrInvalidPreference):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

func (h *PreferencesHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
