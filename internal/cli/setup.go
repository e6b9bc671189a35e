package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"garmin-fitness/internal/auth"
	"garmin-fitness/internal/config"
	"garmin-fitness/internal/garmin"
	"garmin-fitness/internal/store"
)

// loadConfig loads and validates the configuration. On first run it
// writes an example config, prints instructions and returns a nil
// config with a nil error; commands should exit cleanly in that case.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("To sync from Garmin Connect you need API credentials.")
		fmt.Println("Register an application at: https://developerportal.garmin.com/")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil, nil
	}

	return cfg, nil
}

// openStore opens the sqlite database at the configured path.
func openStore(cfg *config.Config) (*store.DB, error) {
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// oauthClientConfig builds the OAuth client settings from the app config.
func oauthClientConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		ClientID:     cfg.Garmin.ClientID,
		ClientSecret: cfg.Garmin.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	}
}

// authenticate runs the OAuth authorization flow and stores the
// resulting tokens.
func authenticate(ctx context.Context, db *store.DB, cfg *config.Config) error {
	result, err := auth.Authenticate(ctx, oauthClientConfig(cfg))
	if err != nil {
		return err
	}

	stored := &store.Auth{
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		TokenType:    result.Token.TokenType,
		ExpiresAt:    result.Token.Expiry,
	}
	if err := db.SaveAuth(stored); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Println("Successfully authenticated with Garmin Connect.")
	return nil
}

// newTokenSource builds an auto-refreshing token source from the
// stored tokens, persisting refreshed tokens back to the database.
// Returns store.ErrNoAuth when no tokens are stored.
func newTokenSource(db *store.DB, cfg *config.Config) (*auth.TokenSource, error) {
	storedAuth, err := db.GetAuth()
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		TokenType:    storedAuth.TokenType,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	return auth.NewTokenSource(auth.NewOAuthConfig(oauthClientConfig(cfg)), token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	}), nil
}

// newGarminClient builds an authenticated Garmin Connect client,
// running the interactive OAuth flow when no valid tokens are stored.
func newGarminClient(ctx context.Context, db *store.DB, cfg *config.Config) (*garmin.Client, error) {
	if err := cfg.ValidateGarmin(); err != nil {
		return nil, err
	}

	ts, err := newTokenSource(db, cfg)
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return nil, fmt.Errorf("authentication: %w", err)
		}
		ts, err = newTokenSource(db, cfg)
		if err != nil {
			return nil, fmt.Errorf("loading auth after login: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	// Probe the stored token so an expired refresh token surfaces now
	// rather than mid-sync.
	if _, err := ts.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return nil, fmt.Errorf("re-authentication: %w", err)
		}
		ts, err = newTokenSource(db, cfg)
		if err != nil {
			return nil, fmt.Errorf("loading auth after login: %w", err)
		}
	}

	return garmin.NewClient(ts, rateLimitInterval(cfg)), nil
}

// rateLimitInterval converts the configured delay in seconds into the
// minimum interval between Garmin API calls.
func rateLimitInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Garmin.RateLimitDelay * float64(time.Second))
}
