// Package identity talks to the hosted identity provider (a GoTrue-compatible
// REST API) that owns accounts, passwords and session tokens.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client handles communication with the identity provider
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// Config holds identity provider configuration
type Config struct {
	URL        string // e.g. "https://project.supabase.co/auth/v1"
	AnonKey    string
	ServiceKey string // required for the admin endpoints only
}

// User is the provider's user record.
type User struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	CreatedAt   time.Time      `json:"created_at"`
	AppMetadata map[string]any `json:"app_metadata,omitempty"`
	Identities  []Identity     `json:"identities,omitempty"`
}

func (u *User) Role() string {
	role, _ := u.AppMetadata["role"].(string)
	return role
}

type Identity struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// Session is the result of a password sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Error is a non-2xx answer from the provider.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity provider returned %d: %s", e.Status, e.Message)
}

// New creates a new identity provider client
func New(config *Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(config.URL, "/"),
		anonKey:    config.AnonKey,
		serviceKey: config.ServiceKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SignUp registers a new account. The provider answers an already registered
// address with a user that has no identities.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	payload := map[string]string{"email": email, "password": password}

	// The provider returns either a bare user or a session wrapping one
	// depending on whether email confirmation is enabled.
	var raw struct {
		User
		SessionUser *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/signup", c.anonKey, "", payload, &raw); err != nil {
		return nil, err
	}
	if raw.SessionUser != nil {
		return raw.SessionUser, nil
	}
	return &raw.User, nil
}

// SignIn exchanges an email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.anonKey, "", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session the token belongs to.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/logout", c.anonKey, token, nil, nil)
}

// User returns the account the access token belongs to.
func (c *Client) User(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", c.anonKey, token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUser looks up any account by id using the service key.
func (c *Client) AdminUser(ctx context.Context, id string) (*User, error) {
	if c.serviceKey == "" {
		return nil, fmt.Errorf("identity service key is not configured")
	}

	var user User
	path := "/admin/users/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, c.serviceKey, c.serviceKey, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminListUsers returns one page of accounts using the service key.
func (c *Client) AdminListUsers(ctx context.Context, page, perPage int) ([]User, error) {
	if c.serviceKey == "" {
		return nil, fmt.Errorf("identity service key is not configured")
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var result struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users?"+q.Encode(), c.serviceKey, c.serviceKey, nil, &result); err != nil {
		return nil, err
	}
	return result.Users, nil
}

func (c *Client) do(ctx context.Context, method, path, apiKey, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &Error{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage picks the human readable field out of the provider's error body.
func errorMessage(body []byte) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		for _, m := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return "request failed"
}
