// neon-store-backend/services/auth_client.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Identity is the server-verified caller, resolved fresh on every request.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// TokenVerifier resolves a bearer token to a caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// AuthClient talks to the hosted identity provider (GoTrue-style
// GET /auth/v1/user with the caller's own bearer token).
type AuthClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewAuthClient(baseURL, apiKey string) *AuthClient {
	return &AuthClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *AuthClient) Verify(ctx context.Context, token string) (*Identity, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		log.Printf("[AUTH] /auth/v1/user returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("token verification failed: %d", resp.StatusCode)
	}

	var out Identity
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("token verification returned no user")
	}

	return &out, nil
}
