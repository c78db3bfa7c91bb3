package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ziadkadry99/guilddash/internal/category"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Client talks to the bot backend's fixed JSON endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the transport timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Guilds lists the guilds the dashboard user can manage.
func (c *Client) Guilds(ctx context.Context) ([]Guild, error) {
	var out guildsResponse
	if err := c.do(ctx, http.MethodGet, "/api/guilds", nil, &out); err != nil {
		return nil, err
	}
	if out.Guilds == nil {
		out.Guilds = []Guild{}
	}
	return out.Guilds, nil
}

// Stats returns the member/channel/role counts of a guild.
func (c *Client) Stats(ctx context.Context, guildID string) (*GuildStats, error) {
	var out GuildStats
	path := "/api/stats/" + url.PathEscape(guildID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Category fetches the raw data of one category for a guild.
func (c *Client) Category(ctx context.Context, guildID string, cat category.Category) (*category.Response, error) {
	var out category.Response
	path := "/api/data/" + url.PathEscape(guildID) + "/" + url.PathEscape(string(cat))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Toggle asks the backend to enable or disable a feature. A 2xx response
// with success=false is returned without error; the caller decides.
func (c *Client) Toggle(ctx context.Context, guildID string, feature Feature, enabled bool) (*ToggleResult, error) {
	var out ToggleResult
	path := "/api/welcome/" + url.PathEscape(guildID) + "/toggle"
	body := toggleRequest{Type: feature, Enabled: enabled}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &FetchError{Method: method, Path: path, Err: err, kind: KindNetwork}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Method: method, Path: path, Err: err, kind: KindNetwork}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &FetchError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err, kind: KindNetwork}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
			kind:       KindHTTP,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &FetchError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err, kind: KindDecode}
	}
	return nil
}
