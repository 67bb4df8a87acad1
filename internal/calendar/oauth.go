package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// DefaultCallbackPort is the local port that receives the OAuth redirect
// when OAuth2Config does not name one.
const DefaultCallbackPort = 8080

// authTimeout bounds how long the interactive flow waits for the browser
// to come back with an authorization code.
const authTimeout = 5 * time.Minute

// OAuth2Config describes an interactive Google OAuth2 flow.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string // where to cache the token, empty to skip caching
	CallbackPort int    // local redirect port, DefaultCallbackPort when zero
}

func (c OAuth2Config) port() int {
	if c.CallbackPort > 0 {
		return c.CallbackPort
	}
	return DefaultCallbackPort
}

// RedirectURL returns the redirect URL registered with Google for this
// flow. It must match the authorized redirect URI on the OAuth client.
func (c OAuth2Config) RedirectURL() string {
	return fmt.Sprintf("http://localhost:%d/callback", c.port())
}

func (c OAuth2Config) endpoint() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  c.RedirectURL(),
		Scopes:       []string{calendar.CalendarScope},
	}
}

const callbackDonePage = `<html><body>
	<h1>Calendar connected</h1>
	<p>You can close this tab and head back to the terminal.</p>
	<script>window.setTimeout(function(){window.close();}, 3000);</script>
</body></html>`

const callbackFailedPage = `<html><body>
	<h1>Authentication failed</h1>
	<p>Google returned no authorization code. Run the auth command again.</p>
	<script>window.setTimeout(function(){window.close();}, 3000);</script>
</body></html>`

// AuthenticateOAuth2Interactive sends the user to Google's consent page
// and catches the redirect on a short-lived local server.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	endpoint := config.endpoint()

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errorChan <- fmt.Errorf("no authorization code received")
			_, _ = fmt.Fprint(w, callbackFailedPage)
			return
		}
		codeChan <- code
		_, _ = fmt.Fprint(w, callbackDonePage)
	})

	server := &http.Server{Addr: fmt.Sprintf(":%d", config.port()), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errorChan <- fmt.Errorf("failed to start callback server on port %d: %w", config.port(), err)
		}
	}()
	defer func() {
		if err := server.Shutdown(ctx); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	// Offline access so we get a refresh token back
	authURL := endpoint.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	slog.Info("🔐 Google Calendar authentication required")
	slog.Info("Visit this URL to connect your calendar", "url", authURL)
	slog.Info("Waiting for the browser redirect", "port", config.port())

	var authCode string
	select {
	case authCode = <-codeChan:
		slog.Info("Received authorization code")
	case err := <-errorChan:
		return nil, err
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("authentication timed out after %s", authTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := endpoint.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, token); err != nil {
			slog.Warn("Failed to save token to file", "error", err, "file", config.TokenFile)
		} else {
			slog.Info("Token saved", "file", config.TokenFile)
		}
	}

	return token, nil
}

// LoadToken reads a previously cached token.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// RefreshTokenIfNeeded exchanges an expired token for a fresh one and
// re-caches it.
func RefreshTokenIfNeeded(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}

	slog.Info("Token expired, refreshing")

	newToken, err := config.endpoint().TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, newToken); err != nil {
			slog.Warn("Failed to save refreshed token", "error", err)
		}
	}

	return newToken, nil
}

// GetOrCreateToken returns the cached token, refreshed if stale, or runs
// the interactive flow when no cache exists.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		token, err := LoadToken(config.TokenFile)
		if err == nil {
			slog.Info("Loaded existing token from file")
			return RefreshTokenIfNeeded(ctx, config, token)
		}
		slog.Info("No existing token found, starting OAuth2 flow")
	}

	return AuthenticateOAuth2Interactive(ctx, config)
}
