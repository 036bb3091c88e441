package config

import (
	"errors"
	"os"
	"strings"
)

type Config struct {
	HTTPPort    string
	AWSRegion   string
	S3Bucket    string
	RedisDSN    string
	CORSOrigins []string

	// Cloudinary credentials for the media proxy endpoints
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// external caption-generation endpoint (AI titles/descriptions)
	CaptionEndpoint string
	CaptionAPIKey   string

	// SMTP settings for password-reset mail
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	ResetBaseURL string
}

func Load() (Config, error) {
	cfg := Config{
		HTTPPort:            getenvDefault("PORT", "8080"),
		AWSRegion:           os.Getenv("AWS_REGION"),
		S3Bucket:            os.Getenv("S3_BUCKET_NAME"),
		RedisDSN:            getenvDefault("REDIS_DSN", "redis://localhost:6379/0"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CaptionEndpoint:     os.Getenv("CAPTION_ENDPOINT"),
		CaptionAPIKey:       os.Getenv("CAPTION_API_KEY"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getenvDefault("SMTP_PORT", "587"),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPass:            os.Getenv("SMTP_PASS"),
		SMTPFrom:            os.Getenv("SMTP_FROM"),
		ResetBaseURL:        getenvDefault("RESET_BASE_URL", "http://localhost:3000"),
	}

	if cfg.AWSRegion == "" {
		return Config{}, errors.New("missing AWS_REGION")
	}

	corsOrigins := getenvDefault("CORS_ORIGINS", "")
	if corsOrigins != "" {
		cfg.CORSOrigins = strings.Split(corsOrigins, ",")
		for i := range cfg.CORSOrigins {
			cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
		}
	} else {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
