package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// GetMe returns the calling user's own profile.
func (c *UserProfileController) GetMe(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Guest {
		writeError(w, http.StatusForbidden, "guest sessions have no profile")
		return
	}

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	json.NewEncoder(w).Encode(profile)
}

// GetUserProfileByID handles fetching a user profile by ID
func (c *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	if !profile.Visible {
		session, ok := middleware.SessionFromContext(r.Context())
		if !ok || session.UserID != userID {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
	}

	json.NewEncoder(w).Encode(profile)
}

// GetUserProfileByHandle handles fetching a user profile by handle
func (c *UserProfileController) GetUserProfileByHandle(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]

	profile, err := c.UserProfileService.GetUserProfileByHandle(r.Context(), handle)
	if err != nil {
		log.Printf("Failed to fetch profile by handle: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	if profile == nil || !profile.Visible {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	json.NewEncoder(w).Encode(profile)
}

// UpdateUserProfile handles updating the caller's own profile. Only the
// editable fields pass through; balances and counters are never writable
// here.
func (c *UserProfileController) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Guest {
		writeError(w, http.StatusForbidden, "guest sessions have no profile")
		return
	}

	userID := mux.Vars(r)["userId"]
	if userID != session.UserID {
		writeError(w, http.StatusForbidden, "cannot edit another user's profile")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	allowed := map[string]bool{"bio": true, "avatarUrl": true, "visible": true, "notifications": true}
	updates := make(map[string]interface{})
	for k, v := range body {
		if allowed[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		writeError(w, http.StatusBadRequest, "no editable fields in payload")
		return
	}

	updatedProfile, err := c.UserProfileService.UpdateUserProfile(r.Context(), userID, updates)
	if err != nil {
		log.Printf("Failed to update profile: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": updatedProfile,
	})
}
