package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"spookin_server/services"
)

// S3Controller issues presigned URLs for direct-to-storage uploads.
type S3Controller struct {
	S3Service *services.S3Service
}

func NewS3Controller(service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: service}
}

// PresignUpload returns a presigned PUT URL for a new object.
func (c *S3Controller) PresignUpload(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")
	if fileName == "" || fileType == "" {
		http.Error(w, `{"error": "fileName and fileType are required"}`, http.StatusBadRequest)
		return
	}

	url, key, err := c.S3Service.GenerateUploadURL(fileName, fileType)
	if err != nil {
		log.Printf("❌ Failed to presign upload: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

// PresignRead returns a presigned GET URL for an existing object.
func (c *S3Controller) PresignRead(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	url, err := c.S3Service.GenerateReadURL(key)
	if err != nil {
		log.Printf("❌ Failed to presign read: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate read URL")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
