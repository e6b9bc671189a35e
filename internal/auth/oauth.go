package auth

import (
	"golang.org/x/oauth2"
)

const (
	// Garmin OAuth2 endpoints
	AuthURL  = "https://connect.garmin.com/oauth2Confirm"
	TokenURL = "https://diauth.garmin.com/di-oauth2-service/oauth/token"
)

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8089/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config. Garmin's
// authorization flow carries no scopes; access is granted per
// application.
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
		RedirectURL: cfg.RedirectURL,
	}
}

// AuthResult contains the token from a successful authorization
type AuthResult struct {
	Token *oauth2.Token
}
