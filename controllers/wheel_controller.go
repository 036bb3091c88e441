package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// WheelController exposes the trick-or-treat wheel.
type WheelController struct {
	WheelService *services.WheelService
}

func NewWheelController(service *services.WheelService) *WheelController {
	return &WheelController{WheelService: service}
}

// Spin starts a spin for the calling user.
func (c *WheelController) Spin(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	record, err := c.WheelService.Spin(r.Context(), session.UserID, session.Guest)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGuestSession):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrCooldownActive), errors.Is(err, services.ErrSpinInProgress):
			writeError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("❌ Spin failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to spin")
		}
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Spinning",
		"spin":    record,
	})
}

// Status reports the pending spin and cooldown remaining.
func (c *WheelController) Status(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	record, remaining, err := c.WheelService.Status(r.Context(), session.UserID)
	if err != nil {
		log.Printf("❌ Wheel status failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch wheel status")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"spin":            record,
		"cooldownSeconds": int(remaining.Seconds()),
	})
}

// Claim credits a resolved treat to the caller's candy balance.
func (c *WheelController) Claim(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	spinID := mux.Vars(r)["spinId"]
	profile, err := c.WheelService.Claim(r.Context(), session.UserID, spinID)
	if err != nil {
		if errors.Is(err, services.ErrNoSuchSpin) {
			writeError(w, http.StatusNotFound, "no claimable spin")
			return
		}
		log.Printf("❌ Claim failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to claim reward")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Treat claimed",
		"profile": profile,
	})
}

// Dismiss acknowledges an outcome; dismissing a trick in time cancels
// the penalty.
func (c *WheelController) Dismiss(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	spinID := mux.Vars(r)["spinId"]
	if err := c.WheelService.Dismiss(r.Context(), session.UserID, spinID); err != nil {
		if errors.Is(err, services.ErrNoSuchSpin) {
			writeError(w, http.StatusNotFound, "no dismissable spin")
			return
		}
		log.Printf("❌ Dismiss failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to dismiss")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Dismissed"})
}
