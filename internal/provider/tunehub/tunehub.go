package tunehub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lyrsync/internal/lyrics"
)

const defaultAPIURL = "https://api.tunehub.dev"

// Client talks to a TuneHub aggregation server. It implements
// lyrics.Provider and is the designated default backend.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new TuneHub client. An empty apiURL selects the public
// endpoint.
func New(apiURL string) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     apiURL,
	}
}

// Search queries the TuneHub search API. TuneHub aggregates several
// platforms, so result records are loosely typed; each is normalized
// through the tolerant mapping in lyrics.ResultFromRaw.
func (c *Client) Search(ctx context.Context, artist, title, album string) ([]lyrics.SearchResult, error) {
	params := url.Values{}
	params.Set("name", title)
	params.Set("artist", artist)
	if album != "" {
		params.Set("album", album)
	}
	params.Set("limit", "10")

	reqURL := fmt.Sprintf("%s/api/v1/search?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tunehub request: %w", err)
	}
	req.Header.Set("User-Agent", "lyrsync/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tunehub search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tunehub search returned %d: %s", resp.StatusCode, body)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode tunehub response: %w", err)
	}
	if searchResp.Code != 200 {
		return nil, fmt.Errorf("tunehub API error %d: %s", searchResp.Code, searchResp.Msg)
	}

	results := make([]lyrics.SearchResult, 0, len(searchResp.Data))
	for _, item := range searchResp.Data {
		results = append(results, lyrics.ResultFromRaw(item, "tunehub"))
	}
	return results, nil
}

// GetLyrics fetches LRC text from the result's lyrics URL.
// Returns "" without error when the backend has no lyrics for the result.
func (c *Client) GetLyrics(ctx context.Context, result lyrics.SearchResult) (string, error) {
	if result.LrcURL == "" {
		return "", nil
	}
	data, err := c.fetch(ctx, result.LrcURL)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetCover fetches raw cover image bytes from the result's picture URL.
// Returns nil without error when the backend has no cover for the result.
func (c *Client) GetCover(ctx context.Context, result lyrics.SearchResult) ([]byte, error) {
	if result.PicURL == "" {
		return nil, nil
	}
	return c.fetch(ctx, result.PicURL)
}

// FindBestMatch applies the default best-match selection.
func (c *Client) FindBestMatch(results []lyrics.SearchResult, artist, title string) *lyrics.SearchResult {
	return lyrics.BestMatch(results, artist, title)
}

// Close releases idle network connections. Safe to call repeatedly.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// fetch downloads a resource, treating 404 as absence rather than failure.
func (c *Client) fetch(ctx context.Context, resURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tunehub request: %w", err)
	}
	req.Header.Set("User-Agent", "lyrsync/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tunehub fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tunehub fetch returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tunehub response: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// TuneHub API response envelope. Result records stay loosely typed:
// field availability varies per aggregated platform.
type searchResponse struct {
	Code int              `json:"code"`
	Msg  string           `json:"msg"`
	Data []map[string]any `json:"data"`
}
