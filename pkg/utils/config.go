package utils

import (
	"encoding/json"
	"os"
	"time"
)

const (
	DefaultKitBaseURL = "https://api.kit.com/v4/"
	DefaultAuthURL    = "https://app.convertkit.com/oauth/authorize"
	DefaultTokenURL   = "https://app.convertkit.com/oauth/token"
)

type Config struct {
	Addr string

	KitBaseURL string

	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string
	OAuthAuthURL      string
	OAuthTokenURL     string

	SessionSecret string
	SessionTTL    time.Duration
}

// fileConfig is the optional config.json next to the binary, kept for
// local development so the OAuth app settings don't have to live in
// the shell environment.
type fileConfig struct {
	BaseURL      string `json:"base_url"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURL  string `json:"redirect_url"`
}

func LoadConfig() Config {
	cfg := Config{
		Addr:              envOr("KITREPORT_ADDR", ":8080"),
		KitBaseURL:        envOr("KITREPORT_BASE_URL", DefaultKitBaseURL),
		OAuthClientID:     os.Getenv("KITREPORT_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("KITREPORT_CLIENT_SECRET"),
		OAuthRedirectURL:  envOr("KITREPORT_REDIRECT_URI", "http://localhost:8080/oauth/callback"),
		OAuthAuthURL:      envOr("KITREPORT_AUTH_URL", DefaultAuthURL),
		OAuthTokenURL:     envOr("KITREPORT_TOKEN_URL", DefaultTokenURL),
		// dev default (change for demo / production)
		SessionSecret: envOr("KITREPORT_SESSION_SECRET", "dev-secret-change-me"),
		SessionTTL:    time.Hour,
	}

	if b, err := os.ReadFile("config.json"); err == nil {
		var fc fileConfig
		if json.Unmarshal(b, &fc) == nil {
			if cfg.KitBaseURL == DefaultKitBaseURL && fc.BaseURL != "" {
				cfg.KitBaseURL = fc.BaseURL
			}
			if cfg.OAuthClientID == "" {
				cfg.OAuthClientID = fc.ClientID
			}
			if cfg.OAuthClientSecret == "" {
				cfg.OAuthClientSecret = fc.ClientSecret
			}
			if fc.RedirectURL != "" && os.Getenv("KITREPORT_REDIRECT_URI") == "" {
				cfg.OAuthRedirectURL = fc.RedirectURL
			}
		}
	}

	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
