package auth

import (
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestNewOAuthConfig(t *testing.T) {
	cfg := NewOAuthConfig(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8089/callback",
	})

	if cfg.Endpoint.AuthURL != AuthURL {
		t.Errorf("AuthURL = %q, want %q", cfg.Endpoint.AuthURL, AuthURL)
	}
	if cfg.Endpoint.TokenURL != TokenURL {
		t.Errorf("TokenURL = %q, want %q", cfg.Endpoint.TokenURL, TokenURL)
	}
	if cfg.ClientID != "client-id" {
		t.Errorf("ClientID = %q, want %q", cfg.ClientID, "client-id")
	}
	if len(cfg.Scopes) != 0 {
		t.Errorf("expected no scopes, got %v", cfg.Scopes)
	}
}

func TestTokenSourceFreshToken(t *testing.T) {
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}

	refreshed := false
	ts := NewTokenSource(NewOAuthConfig(Config{}), token, func(*oauth2.Token) error {
		refreshed = true
		return nil
	})

	got, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if got.AccessToken != "access" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "access")
	}
	if refreshed {
		t.Error("onRefresh called for a token that is not near expiry")
	}
	if ts.IsExpired() {
		t.Error("IsExpired() = true for a token valid for an hour")
	}
}

func TestTokenSourceExpiryBuffer(t *testing.T) {
	// Within the buffer but not yet past expiry: still treated as stale.
	token := &oauth2.Token{
		AccessToken: "access",
		Expiry:      time.Now().Add(30 * time.Second),
	}
	ts := NewTokenSource(NewOAuthConfig(Config{}), token, nil)

	if !ts.IsExpired() {
		t.Error("IsExpired() = false for a token expiring within the buffer")
	}
	if ts.CurrentToken().AccessToken != "access" {
		t.Error("CurrentToken() should return the stored token without refreshing")
	}
}

func TestGenerateState(t *testing.T) {
	a, err := generateState()
	if err != nil {
		t.Fatalf("generateState() error: %v", err)
	}
	b, err := generateState()
	if err != nil {
		t.Fatalf("generateState() error: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("state length = %d, want 32 hex chars", len(a))
	}
	if a == b {
		t.Error("two generated states should not collide")
	}
}
