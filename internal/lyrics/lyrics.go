// Package lyrics defines the provider abstraction for remote lyrics/cover
// search backends and the default best-match selection.
//
// The Provider interface lives here, where it is consumed; each backend
// under internal/provider implements it for a specific service.
package lyrics

import (
	"context"
	"strconv"
)

// SearchResult is the unified shape every backend's raw response is
// normalized into. All fields default to empty when the payload omits them.
type SearchResult struct {
	ID       string
	Name     string // track title as reported by the backend
	Artist   string
	Album    string
	Platform string // backend identifier
	LrcURL   string
	PicURL   string
}

// Provider is the capability set every lyrics backend must implement.
//
// Search reports network/parse failures as errors; an empty slice with a
// nil error means the query succeeded and nothing matched. GetLyrics and
// GetCover return ("", nil) / (nil, nil) when the backend has nothing for
// that result. Close is idempotent and safe to call even if never used.
type Provider interface {
	Search(ctx context.Context, artist, title, album string) ([]SearchResult, error)
	GetLyrics(ctx context.Context, result SearchResult) (string, error)
	GetCover(ctx context.Context, result SearchResult) ([]byte, error)
	FindBestMatch(results []SearchResult, artist, title string) *SearchResult
	Close() error
}

// ResultFromRaw builds a SearchResult from a loosely-typed JSON record.
// Every field is independently optional: missing or non-scalar values
// become empty strings, numeric IDs are stringified. The platform argument
// is used when the record carries no platform of its own.
func ResultFromRaw(raw map[string]any, platform string) SearchResult {
	r := SearchResult{
		ID:       rawString(raw, "id"),
		Name:     rawString(raw, "name"),
		Artist:   rawString(raw, "artist"),
		Album:    rawString(raw, "album"),
		Platform: rawString(raw, "platform"),
		LrcURL:   rawString(raw, "lrc"),
		PicURL:   rawString(raw, "pic"),
	}
	if r.Platform == "" {
		r.Platform = platform
	}
	return r
}

func rawString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		// encoding/json decodes all numbers as float64
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
