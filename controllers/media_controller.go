package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"spookin_server/services"
)

// MediaController hosts the thin proxy endpoints in front of the media
// vendor: upload, caption generation, background-replace URL building
// and binary download. None of them retry, cache or validate beyond
// presence checks.
type MediaController struct {
	MediaService *services.MediaService
	HTTPClient   *http.Client
}

func NewMediaController(service *services.MediaService) *MediaController {
	return &MediaController{MediaService: service, HTTPClient: http.DefaultClient}
}

// Upload forwards a base64 image to the media vendor and returns the
// hosted URL.
func (c *MediaController) Upload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image  string `json:"image"`
		Preset string `json:"preset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		http.Error(w, `{"error": "image is required"}`, http.StatusBadRequest)
		return
	}

	url, err := c.MediaService.UploadBase64(r.Context(), req.Image, req.Preset)
	if err != nil {
		log.Printf("❌ Media upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// Caption proxies caption generation for an image URL.
func (c *MediaController) Caption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
		http.Error(w, `{"error": "imageUrl is required"}`, http.StatusBadRequest)
		return
	}

	result, err := c.MediaService.GenerateCaption(r.Context(), req.ImageURL)
	if err != nil {
		log.Printf("❌ Caption generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate caption")
		return
	}

	json.NewEncoder(w).Encode(result)
}

// BackgroundReplace builds the transformed URL for an AI background
// replacement.
func (c *MediaController) BackgroundReplace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageURL string `json:"imageUrl"`
		Prompt   string `json:"prompt"`
		Seed     int    `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" || req.Prompt == "" {
		http.Error(w, `{"error": "imageUrl and prompt are required"}`, http.StatusBadRequest)
		return
	}

	url, err := services.BuildBackgroundReplaceURL(req.ImageURL, req.Prompt, req.Seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// Download streams a source URL back with attachment headers so the
// browser saves it instead of navigating to it.
func (c *MediaController) Download(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("url")
	if src == "" {
		http.Error(w, `{"error": "url is required"}`, http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, src, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("❌ Download proxy failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to download image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		writeError(w, http.StatusInternalServerError, "Failed to download image")
		return
	}

	filename := path.Base(strings.SplitN(src, "?", 2)[0])
	if filename == "" || filename == "." || filename == "/" {
		filename = "image"
	}

	w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("⚠️ Download stream interrupted: %v", err)
	}
}
