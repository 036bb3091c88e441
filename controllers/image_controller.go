package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// ImageController manages uploaded-image records.
type ImageController struct {
	ImageService *services.ImageService
}

func NewImageController(service *services.ImageService) *ImageController {
	return &ImageController{ImageService: service}
}

// Create stores an image record for the calling user after the asset has
// been uploaded.
func (c *ImageController) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Guest {
		writeError(w, http.StatusForbidden, "guest sessions cannot save images")
		return
	}

	var req struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	record, err := c.ImageService.CreateImageRecord(r.Context(), session.UserID, req.URL, req.Title, req.Description)
	if err != nil {
		log.Printf("❌ Failed to create image record: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Image saved",
		"image":   record,
	})
}

// ListByUser returns a user's images, newest first.
func (c *ImageController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	records, err := c.ImageService.GetImagesByUser(r.Context(), userID, 50)
	if err != nil {
		log.Printf("❌ Failed to fetch images: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch images")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"userId": userID,
		"images": records,
	})
}

// Get fetches a single image record.
func (c *ImageController) Get(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["imageId"]

	record, err := c.ImageService.GetImage(r.Context(), imageID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}

	json.NewEncoder(w).Encode(record)
}
