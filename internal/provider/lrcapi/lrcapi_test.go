package lrcapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lyrsync/internal/lyrics"
)

func resultWithLrc(lrcURL string) lyrics.SearchResult {
	return lyrics.SearchResult{ID: "a1b2", Name: "晴天", Artist: "周杰伦", Platform: "lrcapi", LrcURL: lrcURL}
}

func TestSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "lyrsync/1.0" {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		if got := r.URL.Query().Get("title"); got != "晴天" {
			t.Errorf("title param = %q, want %q", got, "晴天")
		}
		json.NewEncoder(w).Encode([]searchItem{
			{
				ID:     "a1b2",
				Title:  "晴天",
				Artist: "周杰伦",
				Album:  "叶惠美",
				Lyrics: "/lyrics/a1b2.lrc",
				Cover:  "https://cdn.example.com/a1b2.jpg",
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	results, err := c.Search(context.Background(), "周杰伦", "晴天", "叶惠美")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Name != "晴天" || r.Artist != "周杰伦" || r.Album != "叶惠美" {
		t.Errorf("unexpected fields: %+v", r)
	}
	if r.Platform != "lrcapi" {
		t.Errorf("Platform = %q, want %q", r.Platform, "lrcapi")
	}
	if want := srv.URL + "/lyrics/a1b2.lrc"; r.LrcURL != want {
		t.Errorf("relative lyrics path should resolve against the server: %q, want %q", r.LrcURL, want)
	}
	if r.PicURL != "https://cdn.example.com/a1b2.jpg" {
		t.Errorf("absolute cover url should pass through, got %q", r.PicURL)
	}
}

func TestSearchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL)
	results, err := c.Search(context.Background(), "nobody", "nothing", "")
	if err != nil {
		t.Fatalf("404 from search means no matches, not failure: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Search(context.Background(), "a", "t", ""); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestSearchMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Search(context.Background(), "a", "t", ""); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}

func TestGetLyricsRoundTrip(t *testing.T) {
	lrc := "[00:12.00]故事的小黄花"
	mux := http.NewServeMux()
	mux.HandleFunc("/lyrics/a1b2.lrc", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(lrc))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.GetLyrics(context.Background(), resultWithLrc(srv.URL+"/lyrics/a1b2.lrc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != lrc {
		t.Errorf("lyrics = %q, want %q", got, lrc)
	}
}

func TestGetLyricsAbsent(t *testing.T) {
	c := New("http://localhost:0")
	got, err := c.GetLyrics(context.Background(), resultWithLrc(""))
	if err != nil || got != "" {
		t.Errorf("result without lyrics url should be absence, got %q, %v", got, err)
	}
}

func TestResolve(t *testing.T) {
	c := New("http://localhost:28883/")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/lyrics/x.lrc", "http://localhost:28883/lyrics/x.lrc"},
		{"lyrics/x.lrc", "http://localhost:28883/lyrics/x.lrc"},
		{"https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
	}
	for _, tt := range tests {
		if got := c.resolve(tt.in); got != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
