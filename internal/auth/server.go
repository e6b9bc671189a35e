package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	// CallbackPort is the local port for the OAuth callback server
	CallbackPort = 8089

	// AuthTimeout is how long to wait for the user to complete authorization
	AuthTimeout = 5 * time.Minute
)

// Authenticate performs the full OAuth authorization flow:
// 1. Starts a local callback server
// 2. Prints the authorization URL for the user to open
// 3. Waits for the callback with the authorization code
// 4. Exchanges the code for tokens
//
// Garmin requires PKCE, so a code verifier is generated and carried
// through the exchange.
func Authenticate(ctx context.Context, cfg Config) (*AuthResult, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	verifier := oauth2.GenerateVerifier()
	oauthCfg := NewOAuthConfig(cfg)

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if query.Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			errChan <- fmt.Errorf("state mismatch: possible CSRF attack")
			return
		}

		if errMsg := query.Get("error"); errMsg != "" {
			http.Error(w, "Authorization denied", http.StatusBadRequest)
			errChan <- fmt.Errorf("authorization denied: %s", errMsg)
			return
		}

		code := query.Get("code")
		if code == "" {
			http.Error(w, "No authorization code received", http.StatusBadRequest)
			errChan <- fmt.Errorf("no authorization code in callback")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Authorization Complete</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 50px;">
<h1>&#10003; Connected to Garmin</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)
		codeChan <- code
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", CallbackPort),
		Handler: mux,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return nil, fmt.Errorf("starting callback server on port %d: %w", CallbackPort, err)
	}

	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	authURL := oauthCfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	fmt.Println("\nTo connect your Garmin account, open this URL in your browser:")
	fmt.Printf("\n  %s\n\n", authURL)
	fmt.Println("Waiting for authorization...")

	select {
	case code := <-codeChan:
		shutdownServer(server)
		token, err := oauthCfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("exchanging authorization code: %w", err)
		}
		return &AuthResult{Token: token}, nil

	case err := <-errChan:
		shutdownServer(server)
		return nil, err

	case <-time.After(AuthTimeout):
		shutdownServer(server)
		return nil, fmt.Errorf("authentication timed out after %v", AuthTimeout)

	case <-ctx.Done():
		shutdownServer(server)
		return nil, ctx.Err()
	}
}

func shutdownServer(server *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
}

// generateState creates a random state parameter for CSRF protection
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
