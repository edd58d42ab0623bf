package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"winnow/internal/config"
	"winnow/internal/services"
)

const userAgent = "winnow/0.1.0"

// HTTPDoer describes the HTTP client used by the Jellyfin service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MediaStream is one encoded stream inside a media source.
type MediaStream struct {
	Type    string `json:"Type"`
	Height  int    `json:"Height"`
	BitRate int    `json:"BitRate"`
}

// MediaSource is one playable file backing an item.
type MediaSource struct {
	Size         int64         `json:"Size"`
	MediaStreams []MediaStream `json:"MediaStreams"`
}

// Item is the subset of a Jellyfin library item winnow needs.
type Item struct {
	ID           string            `json:"Id"`
	Name         string            `json:"Name"`
	Type         string            `json:"Type"`
	Path         string            `json:"Path"`
	ProviderIDs  map[string]string `json:"ProviderIds"`
	MediaSources []MediaSource     `json:"MediaSources"`
}

type itemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
}

// Client talks to a Jellyfin-compatible server using an API key.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewClient constructs a Jellyfin client. A nil doer falls back to a default
// http.Client with a 30 second timeout.
func NewClient(baseURL, apiKey string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  doer,
	}
}

// NewConfiguredClient builds a client from application config.
func NewConfiguredClient(cfg *config.Config) *Client {
	if cfg == nil {
		return NewClient("", "", nil)
	}
	return NewClient(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey, nil)
}

// Movies fetches every movie item in the library, including paths, provider
// ids, and media source stream details.
func (c *Client) Movies(ctx context.Context) ([]Item, error) {
	query := url.Values{}
	query.Set("IncludeItemTypes", "Movie")
	query.Set("Recursive", "true")
	query.Set("Fields", "Path,ProviderIds,MediaSources")

	var result itemsResponse
	if err := c.get(ctx, "/Items", query, &result); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "jellyfin", "list movies", "", err)
	}
	return result.Items, nil
}

// Refresh asks the server to rescan its library. Best effort; callers log and
// continue on failure.
func (c *Client) Refresh(ctx context.Context) error {
	refreshURL := fmt.Sprintf("%s/Library/Refresh", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, refreshURL, nil)
	if err != nil {
		return fmt.Errorf("build jellyfin refresh request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh jellyfin library: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("jellyfin refresh returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
}
