// Package console is the client side of the review workflow: a typed API
// client plus the list and detail views an administrator works through.
package console

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

	"github.com/wtusfo/song-and-singer/internal/models"
)

// APIError is a non-2xx answer from the server carrying its {"error"} message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the lyrics API with a session token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithToken returns a copy of the client using token.
func (c *Client) WithToken(token string) *Client {
	copied := *c
	copied.token = token
	return &copied
}

type dataEnvelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", body, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (*models.Account, error) {
	var resp dataEnvelope[models.Account]
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) ListSongs(ctx context.Context, query url.Values) (*models.ListResult[models.Submission], error) {
	var resp models.ListResult[models.Submission]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/admin/songs/list", query), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListLyrics(ctx context.Context, query url.Values) (*models.ListResult[models.SubmissionDetail], error) {
	var resp models.ListResult[models.SubmissionDetail]
	if err := c.do(ctx, http.MethodGet, withQuery("/api/lyrics", query), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetSong(ctx context.Context, id int64) (*models.SubmissionDetail, error) {
	var resp dataEnvelope[models.SubmissionDetail]
	if err := c.do(ctx, http.MethodGet, songPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) Decide(ctx context.Context, req models.DecisionRequest) (*models.Submission, error) {
	var resp dataEnvelope[models.Submission]
	if err := c.do(ctx, http.MethodPost, "/api/admin/songs/decide", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) Unpublish(ctx context.Context, id int64) (*models.Submission, error) {
	var resp dataEnvelope[models.Submission]
	if err := c.do(ctx, http.MethodPatch, songPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, songPath(id), nil, nil)
}

func (c *Client) Genres(ctx context.Context) ([]models.Reference, error) {
	var resp dataEnvelope[[]models.Reference]
	if err := c.do(ctx, http.MethodGet, "/api/genres", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Languages(ctx context.Context) ([]models.Reference, error) {
	var resp dataEnvelope[[]models.Reference]
	if err := c.do(ctx, http.MethodGet, "/api/languages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Users(ctx context.Context) ([]models.UserSummary, error) {
	var resp dataEnvelope[[]models.UserSummary]
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func songPath(id int64) string {
	return "/api/admin/songs/" + strconv.FormatInt(id, 10)
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
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
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var envelope struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			message = envelope.Error
		}
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
