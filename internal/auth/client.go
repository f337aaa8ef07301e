package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cafebook/pkg/client"
	apperrors "cafebook/pkg/errors"
)

// AuthClient talks to a Supabase-compatible auth provider. The café app
// does not manage credentials itself; it passes logins through and
// verifies bearer tokens against the provider.
type AuthClient struct {
	http    *client.HttpClient
	anonKey string
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the provider's token grant payload, passed through
// to the admin dashboard unchanged.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// User is the subset of the provider's user record the app cares about.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewAuthClient(baseURL, anonKey string) *AuthClient {
	return &AuthClient{
		http:    client.NewHttpClient(baseURL, 5*time.Second),
		anonKey: anonKey,
	}
}

// Login exchanges credentials for a token with the password grant.
// The raw provider response is returned so error payloads pass through.
func (c *AuthClient) Login(creds Credentials) (json.RawMessage, int, error) {
	resp, err := c.http.POST("/auth/v1/token?grant_type=password", creds, map[string]string{
		"apikey": c.anonKey,
	})
	if err != nil {
		return nil, 0, apperrors.Unavailable("Auth provider unreachable")
	}

	return json.RawMessage(resp.Body), resp.StatusCode, nil
}

// VerifyToken resolves a bearer token to the user it belongs to.
func (c *AuthClient) VerifyToken(token string) (*User, error) {
	resp, err := c.http.GET("/auth/v1/user", map[string]string{
		"Authorization": "Bearer " + token,
		"apikey":        c.anonKey,
	})
	if err != nil {
		return nil, apperrors.Unavailable("Auth provider unreachable")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	var user User
	if err := resp.DecodeJSON(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth user: %w", err)
	}

	return &user, nil
}
