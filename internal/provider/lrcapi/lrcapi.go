// Package lrcapi implements lyrics.Provider against a self-hosted LrcAPI
// server.
package lrcapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lyrsync/internal/lyrics"
)

// Client is an LrcAPI client that implements lyrics.Provider.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// New creates a new LrcAPI client for the given server base URL.
func New(apiURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     strings.TrimRight(apiURL, "/"),
	}
}

// Search queries the LrcAPI JSON search endpoint and returns matching
// records. LrcAPI serves single-file lookups, so result lists are short.
func (c *Client) Search(ctx context.Context, artist, title, album string) ([]lyrics.SearchResult, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("artist", artist)
	if album != "" {
		params.Set("album", album)
	}

	reqURL := fmt.Sprintf("%s/api/search?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lrcapi request: %w", err)
	}
	req.Header.Set("User-Agent", "lyrsync/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lrcapi search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("lrcapi search returned %d: %s", resp.StatusCode, body)
	}

	var items []searchItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode lrcapi response: %w", err)
	}

	results := make([]lyrics.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, lyrics.SearchResult{
			ID:       item.ID,
			Name:     item.Title,
			Artist:   item.Artist,
			Album:    item.Album,
			Platform: "lrcapi",
			LrcURL:   c.resolve(item.Lyrics),
			PicURL:   c.resolve(item.Cover),
		})
	}
	return results, nil
}

// resolve turns a server-relative resource path into an absolute URL.
func (c *Client) resolve(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.apiURL + "/" + strings.TrimLeft(path, "/")
}

// GetLyrics fetches LRC text for a search result.
// Returns "" without error when the server has no lyrics for it.
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

// GetCover fetches raw cover image bytes for a search result.
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

func (c *Client) fetch(ctx context.Context, resURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lrcapi request: %w", err)
	}
	req.Header.Set("User-Agent", "lyrsync/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lrcapi fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lrcapi fetch returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lrcapi response: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// LrcAPI search response item
type searchItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Lyrics string `json:"lyrics"`
	Cover  string `json:"cover"`
}
