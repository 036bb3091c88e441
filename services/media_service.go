package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MediaService fronts the media-transformation vendor: hosted uploads,
// AI background replacement and AI caption generation. The proxy
// endpoints built on it do not retry, cache or validate beyond presence
// checks; upstream failures map to a generic error.
type MediaService struct {
	cld *cloudinary.Cloudinary

	CaptionEndpoint string
	CaptionAPIKey   string
	HTTPClient      *http.Client
}

// CaptionResult is the generated title/description pair.
type CaptionResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewMediaService(cloudName, apiKey, apiSecret, captionEndpoint, captionAPIKey string) (*MediaService, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary configuration is missing")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &MediaService{
		cld:             cld,
		CaptionEndpoint: captionEndpoint,
		CaptionAPIKey:   captionAPIKey,
		HTTPClient:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// UploadBase64 uploads a base64 data-URI image and returns the hosted
// secure URL.
func (ms *MediaService) UploadBase64(ctx context.Context, dataURI, preset string) (string, error) {
	if dataURI == "" {
		return "", errors.New("image data is required")
	}

	params := uploader.UploadParams{
		Folder:       "spookin/uploads",
		ResourceType: "image",
	}
	if preset != "" {
		params.UploadPreset = preset
	}

	result, err := ms.cld.Upload.Upload(ctx, dataURI, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	return result.SecureURL, nil
}

// BuildBackgroundReplaceURL splices a generative background-replace
// transformation into a hosted image URL. Pure string work; the vendor
// renders the transformation on first fetch.
func BuildBackgroundReplaceURL(imageURL, prompt string, seed int) (string, error) {
	if imageURL == "" {
		return "", errors.New("image url is required")
	}
	if prompt == "" {
		return "", errors.New("prompt is required")
	}

	const marker = "/upload/"
	idx := strings.Index(imageURL, marker)
	if idx < 0 {
		return "", errors.New("image url is not a hosted asset url")
	}

	transform := fmt.Sprintf("e_gen_background_replace:prompt_%s;seed_%d", url.PathEscape(prompt), seed)
	return imageURL[:idx+len(marker)] + transform + "/" + imageURL[idx+len(marker):], nil
}

// GenerateCaption posts the image URL to the configured caption endpoint
// and returns the generated title/description pair.
func (ms *MediaService) GenerateCaption(ctx context.Context, imageURL string) (*CaptionResult, error) {
	if imageURL == "" {
		return nil, errors.New("image url is required")
	}
	if ms.CaptionEndpoint == "" {
		return nil, errors.New("caption endpoint is not configured")
	}

	payload, err := json.Marshal(map[string]string{"imageUrl": imageURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ms.CaptionEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if ms.CaptionAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+ms.CaptionAPIKey)
	}

	resp, err := ms.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption service returned status %d", resp.StatusCode)
	}

	var result CaptionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse caption response: %w", err)
	}
	return &result, nil
}
