package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cineswipe/models"
	"cineswipe/services/settings"
)

type settingsService interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	Save(ctx context.Context, st *models.UserSettings) (*models.UserSettings, error)
}

var _ settingsService = (*settings.Service)(nil)

type SettingsHandler struct {
	Service settingsService
}

func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{Service: service}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Get(r.Context(), UserID(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

// Update merges the request body onto the current settings, so a client can
// send just the field it changed.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r)
	st, err := h.Service.Get(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(st); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	st.UserID = userID

	saved, err := h.Service.Save(r.Context(), st)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, settings.ErrInvalidSetting) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(saved)
}

func (h *SettingsHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
