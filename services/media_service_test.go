package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildBackgroundReplaceURL(t *testing.T) {
	url, err := BuildBackgroundReplaceURL(
		"https://res.cloudinary.com/demo/image/upload/v123/pumpkin.jpg",
		"haunted forest",
		7,
	)
	if err != nil {
		t.Fatalf("BuildBackgroundReplaceURL() error: %v", err)
	}

	if !strings.Contains(url, "/upload/e_gen_background_replace:prompt_") {
		t.Errorf("transform segment missing: %q", url)
	}
	if !strings.Contains(url, ";seed_7/") {
		t.Errorf("seed segment missing: %q", url)
	}
	if !strings.HasSuffix(url, "v123/pumpkin.jpg") {
		t.Errorf("asset path lost: %q", url)
	}
}

func TestBuildBackgroundReplaceURL_Errors(t *testing.T) {
	if _, err := BuildBackgroundReplaceURL("", "prompt", 1); err == nil {
		t.Error("accepted empty image url")
	}
	if _, err := BuildBackgroundReplaceURL("https://host/img.jpg", "", 1); err == nil {
		t.Error("accepted empty prompt")
	}
	if _, err := BuildBackgroundReplaceURL("https://host/no-upload-segment.jpg", "prompt", 1); err == nil {
		t.Error("accepted a non-hosted url")
	}
}

func TestGenerateCaption_ProxiesUpstream(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(CaptionResult{Title: "Spooky Pumpkin", Description: "A pumpkin at dusk"})
	}))
	defer srv.Close()

	ms := &MediaService{
		CaptionEndpoint: srv.URL,
		CaptionAPIKey:   "secret",
		HTTPClient:      srv.Client(),
	}

	result, err := ms.GenerateCaption(context.Background(), "https://img/pumpkin.jpg")
	if err != nil {
		t.Fatalf("GenerateCaption() error: %v", err)
	}

	if result.Title != "Spooky Pumpkin" || result.Description != "A pumpkin at dusk" {
		t.Errorf("result = %+v", result)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotBody["imageUrl"] != "https://img/pumpkin.jpg" {
		t.Errorf("forwarded imageUrl = %q", gotBody["imageUrl"])
	}
}

func TestGenerateCaption_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ms := &MediaService{CaptionEndpoint: srv.URL, HTTPClient: srv.Client()}

	if _, err := ms.GenerateCaption(context.Background(), "https://img/x.jpg"); err == nil {
		t.Fatal("GenerateCaption() swallowed an upstream failure")
	}
}

func TestGenerateCaption_PresenceChecks(t *testing.T) {
	ms := &MediaService{CaptionEndpoint: "http://unused", HTTPClient: http.DefaultClient}
	if _, err := ms.GenerateCaption(context.Background(), ""); err == nil {
		t.Error("accepted empty image url")
	}

	ms = &MediaService{HTTPClient: http.DefaultClient}
	if _, err := ms.GenerateCaption(context.Background(), "https://img/x.jpg"); err == nil {
		t.Error("accepted missing endpoint configuration")
	}
}
