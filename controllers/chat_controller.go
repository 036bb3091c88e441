package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"spookin_server/middleware"
	"spookin_server/models"
	"spookin_server/services"
	"spookin_server/utils"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// GetMessages fetches the recent messages of a thread.
func (c *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("threadId")
	limitStr := r.URL.Query().Get("limit")

	if threadID == "" {
		http.Error(w, `{"error": "threadId is required"}`, http.StatusBadRequest)
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = services.DefaultMessageLimit
	}

	messages, err := c.ChatService.GetMessages(r.Context(), threadID, limit)
	if err != nil {
		log.Printf("❌ Error fetching messages: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"threadId": threadID,
		"messages": messages,
	})
}

// SendMessage persists a message to a thread as the calling user.
func (c *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Guest {
		writeError(w, http.StatusForbidden, "guest sessions cannot send messages")
		return
	}

	var req struct {
		ThreadID string `json:"threadId"`
		Body     string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if req.ThreadID == "" {
		http.Error(w, `{"error": "threadId is required"}`, http.StatusBadRequest)
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), req.ThreadID, session.UserID, req.Body)
	if err != nil {
		log.Printf("❌ Failed to send message: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Message sent",
		"data":    message,
	})
}

// ResolveThread computes the identifier of the private thread between
// the caller and a peer. Both sides compute the same id.
func (c *ChatController) ResolveThread(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	peerID := r.URL.Query().Get("peerId")
	if peerID == "" {
		http.Error(w, `{"error": "peerId is required"}`, http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"threadId": utils.PairThreadID(session.UserID, peerID),
	})
}

// GlobalThread returns the well-known global thread id.
func (c *ChatController) GlobalThread(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"threadId": models.GlobalThreadID})
}
