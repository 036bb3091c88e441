package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"spookin_server/middleware"
	"spookin_server/services"
)

// AuthController handles registration, login and credential management.
type AuthController struct {
	AuthService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Handle   string `json:"handle"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	profile, session, err := c.AuthService.Register(r.Context(), req.Email, req.Password, req.Handle)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrHandleTaken):
			writeError(w, http.StatusConflict, err.Error())
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Failed to register: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to register")
		}
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Account created",
		"profile": profile,
		"token":   session.Token,
	})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	profile, session, err := c.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("Failed to login: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"profile": profile,
		"token":   session.Token,
	})
}

// Guest issues an anonymous session.
func (c *AuthController) Guest(w http.ResponseWriter, r *http.Request) {
	session, err := c.AuthService.LoginGuest(r.Context())
	if err != nil {
		log.Printf("Failed to create guest session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create guest session")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": session.Token,
		"guest": true,
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing token")
		return
	}

	if err := c.AuthService.Logout(r.Context(), token); err != nil {
		log.Printf("Failed to logout: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}

func (c *AuthController) SendPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, `{"error": "email is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.AuthService.SendPasswordReset(r.Context(), req.Email); err != nil {
		log.Printf("Failed to send password reset: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send password reset")
		return
	}

	// Same response whether or not the email exists.
	json.NewEncoder(w).Encode(map[string]string{"message": "If the address is registered, a reset link was sent"})
}

func (c *AuthController) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, `{"error": "token and newPassword are required"}`, http.StatusBadRequest)
		return
	}

	if err := c.AuthService.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Password updated"})
}

func (c *AuthController) Reauthenticate(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Guest {
		writeError(w, http.StatusForbidden, "requires a registered account")
		return
	}

	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	if err := c.AuthService.Reauthenticate(r.Context(), session.UserID, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Reauthenticated"})
}

func (c *AuthController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Guest {
		writeError(w, http.StatusForbidden, "requires a registered account")
		return
	}

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	if err := c.AuthService.UpdatePassword(r.Context(), session.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Password updated"})
}

func (c *AuthController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Guest {
		writeError(w, http.StatusForbidden, "requires a registered account")
		return
	}

	if err := c.AuthService.DeleteCurrentUser(r.Context(), session.UserID); err != nil {
		log.Printf("Failed to delete account: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Account deleted"})
}

func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid email") ||
		strings.Contains(msg, "password must") ||
		strings.Contains(msg, "handle must")
}
