package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"
)

// Poster posts JSON payloads and decodes the JSON reply.
type Poster interface {
	PostJSON(ctx context.Context, path string, payload any, out any) (int, error)
}

// JSONClient talks to the auth backend.
type JSONClient struct {
	client  *http.Client
	baseURL string
}

// Option customises a JSONClient.
type Option func(*JSONClient)

// WithCookieJar makes every request carry the cookies stored in jar.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *JSONClient) {
		clone := *c.client
		clone.Jar = jar
		c.client = &clone
	}
}

// New builds a client for baseURL. A nil client is replaced by a plain
// http.Client with the given timeout.
func New(client *http.Client, baseURL string, timeout time.Duration, opts ...Option) (*JSONClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url must not be empty")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	c := &JSONClient{client: client, baseURL: baseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewIDTokenHTTPClient returns an http.Client that signs every request with a
// Google ID token minted for audience, for backends behind Cloud Run or IAP.
// It fails when no Google credentials are available.
func NewIDTokenHTTPClient(ctx context.Context, audience string, timeout time.Duration) (*http.Client, error) {
	audience = strings.TrimSpace(audience)
	if audience == "" {
		return nil, fmt.Errorf("id token audience must not be empty")
	}
	idc, err := idtoken.NewClient(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("create id token client: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	idc.Timeout = timeout
	return idc, nil
}

// BaseURL reports the backend origin requests are sent to.
func (c *JSONClient) BaseURL() string {
	return c.baseURL
}

// PostJSON posts payload to path and decodes the body into out whatever the
// status code. Transport failures and bodies that are not JSON are errors.
func (c *JSONClient) PostJSON(ctx context.Context, path string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("could not decode response (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

var _ Poster = (*JSONClient)(nil)
