package lyrics

import (
	"encoding/json"
	"testing"
)

func TestResultFromRaw(t *testing.T) {
	raw := map[string]any{
		"id":       "12345",
		"name":     "晴天",
		"artist":   "周杰伦",
		"album":    "叶惠美",
		"platform": "netease",
		"lrc":      "https://example.com/lyrics/12345.lrc",
		"pic":      "https://example.com/pic/12345.jpg",
	}

	r := ResultFromRaw(raw, "tunehub")
	if r.ID != "12345" {
		t.Errorf("ID = %q, want %q", r.ID, "12345")
	}
	if r.Name != "晴天" || r.Artist != "周杰伦" || r.Album != "叶惠美" {
		t.Errorf("unexpected fields: %+v", r)
	}
	if r.Platform != "netease" {
		t.Errorf("Platform = %q, payload value should win over fallback", r.Platform)
	}
	if r.LrcURL != "https://example.com/lyrics/12345.lrc" {
		t.Errorf("LrcURL = %q", r.LrcURL)
	}
	if r.PicURL != "https://example.com/pic/12345.jpg" {
		t.Errorf("PicURL = %q", r.PicURL)
	}
}

func TestResultFromRawMissingFieldsDefaultEmpty(t *testing.T) {
	r := ResultFromRaw(map[string]any{"name": "晴天"}, "tunehub")
	if r.Name != "晴天" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.ID != "" || r.Artist != "" || r.Album != "" || r.LrcURL != "" || r.PicURL != "" {
		t.Errorf("missing fields must default to empty, got %+v", r)
	}
	if r.Platform != "tunehub" {
		t.Errorf("Platform fallback = %q, want %q", r.Platform, "tunehub")
	}
}

func TestResultFromRawNumericID(t *testing.T) {
	// encoding/json hands numbers over as float64.
	var raw map[string]any
	if err := json.Unmarshal([]byte(`{"id": 186016, "name": "晴天"}`), &raw); err != nil {
		t.Fatal(err)
	}

	r := ResultFromRaw(raw, "tunehub")
	if r.ID != "186016" {
		t.Errorf("numeric id should be stringified, got %q", r.ID)
	}
}

func TestResultFromRawNonScalarValues(t *testing.T) {
	raw := map[string]any{
		"id":     []any{"nested"},
		"artist": map[string]any{"name": "x"},
		"name":   nil,
	}
	r := ResultFromRaw(raw, "tunehub")
	if r.ID != "" || r.Artist != "" || r.Name != "" {
		t.Errorf("non-scalar values must map to empty strings, got %+v", r)
	}
}

func TestResultFromRawEmptyMap(t *testing.T) {
	r := ResultFromRaw(map[string]any{}, "lrcapi")
	if r != (SearchResult{Platform: "lrcapi"}) {
		t.Errorf("empty payload should yield zero result with fallback platform, got %+v", r)
	}
}
