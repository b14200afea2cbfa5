// ABOUTME: OAuth device-authorization flow and token storage for Google APIs
// ABOUTME: Tokens persist at an XDG data path with restricted permissions
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// NewOAuthConfig creates the OAuth2 config for Google Calendar access.
// Users register their own OAuth app; credentials come from the
// environment.
func NewOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar.readonly",
		},
		Endpoint: google.Endpoint,
	}
}

// Authorize runs the device-authorization flow: it prints the
// verification URL and user code, then polls until the user approves
// or ctx expires.
func Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	if config.ClientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID is not set")
	}

	device, err := config.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start device authorization: %w", err)
	}

	fmt.Printf("Visit %s and enter code: %s\n", device.VerificationURI, device.UserCode)

	token, err := config.DeviceAccessToken(ctx, device)
	if err != nil {
		return nil, fmt.Errorf("device authorization failed: %w", err)
	}

	return token, nil
}

// TokenPath returns the XDG-compliant token location.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "bd-os", "google-credentials.json")
}

// SaveToken writes the OAuth token with restricted permissions.
func SaveToken(token *oauth2.Token) error {
	path := TokenPath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// LoadToken reads a previously saved OAuth token.
func LoadToken() (*oauth2.Token, error) {
	f, err := os.Open(TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	return &token, nil
}
