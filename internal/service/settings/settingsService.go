package settingsService

import (
	"encoding/json"
	"net/http"

	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
)

// SettingsService handles the connection-monitor settings singleton.
// All routes are admin only, enforced by the route middleware.
type SettingsService struct {
	settings store.SettingsStore
	Log      *logger.Logger
}

// PatchSettingsRequest merges the non-nil fields into the stored settings.
type PatchSettingsRequest struct {
	Enabled            *bool `json:"enabled"`
	IntervalSeconds    *int  `json:"intervalSeconds"`
	NotifyOnDisconnect *bool `json:"notifyOnDisconnect"`
}

// NewSettingsService initializes a new settings service.
func NewSettingsService(stores *store.Stores, log *logger.Logger) *SettingsService {
	return &SettingsService{settings: stores.Settings, Log: log}
}

// GetSettings handles GET /settings/connection-monitor.
func (ss *SettingsService) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, ss.settings.Get())
}

// PatchSettings handles PATCH /settings/connection-monitor. Absent
// fields keep their current values.
func (ss *SettingsService) PatchSettings(w http.ResponseWriter, r *http.Request) {
	var req PatchSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	current := ss.settings.Get()
	if req.Enabled != nil {
		current.Enabled = *req.Enabled
	}
	if req.IntervalSeconds != nil {
		if *req.IntervalSeconds <= 0 {
			respondWithError(w, http.StatusBadRequest, "intervalSeconds must be a positive integer")
			return
		}
		current.IntervalSeconds = *req.IntervalSeconds
	}
	if req.NotifyOnDisconnect != nil {
		current.NotifyOnDisconnect = *req.NotifyOnDisconnect
	}

	ss.settings.Set(current)
	ss.Log.Info("Connection monitor settings patched")
	respondWithJSON(w, http.StatusOK, current)
}

// PutSettings handles PUT /settings/connection-monitor, replacing the
// settings wholesale.
func (ss *SettingsService) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req models.MonitorSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IntervalSeconds <= 0 {
		respondWithError(w, http.StatusBadRequest, "intervalSeconds must be a positive integer")
		return
	}

	ss.settings.Set(req)
	ss.Log.Info("Connection monitor settings replaced")
	respondWithJSON(w, http.StatusOK, req)
}

// Helper functions for HTTP responses.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
