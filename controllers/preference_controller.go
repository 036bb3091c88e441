package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"spookin_server/middleware"
	"spookin_server/models"
	"spookin_server/services"
)

// PreferenceController reads and writes a user's display settings.
type PreferenceController struct {
	PreferenceService *services.PreferenceService
}

func NewPreferenceController(service *services.PreferenceService) *PreferenceController {
	return &PreferenceController{PreferenceService: service}
}

// Get returns the caller's preferences, defaulted if never saved.
func (c *PreferenceController) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	prefs, err := c.PreferenceService.GetPreferences(r.Context(), session.UserID)
	if err != nil {
		log.Printf("Failed to fetch preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch preferences")
		return
	}

	json.NewEncoder(w).Encode(prefs)
}

// Save overwrites the caller's preferences whole.
func (c *PreferenceController) Save(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	prefs.UserID = session.UserID

	if err := c.PreferenceService.SavePreferences(r.Context(), prefs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     "Preferences saved",
		"preferences": prefs,
	})
}
