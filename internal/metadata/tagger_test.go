package metadata

import (
	"os/exec"
	"path/filepath"
	"testing"

	"go.senan.xyz/taglib"
)

// createTestAudioFile generates a minimal MP3 using ffmpeg.
// Skips the test if ffmpeg is not available.
func createTestAudioFile(t *testing.T, dir string) string {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping tagger test")
	}

	path := filepath.Join(dir, "test.mp3")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono", "-t", "0.1", "-q:a", "9", path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

func TestReadTrackInfo(t *testing.T) {
	dir := t.TempDir()
	path := createTestAudioFile(t, dir)

	tags := map[string][]string{
		taglib.Title:  {"晴天"},
		taglib.Artist: {"周杰伦"},
		taglib.Album:  {"叶惠美"},
	}
	if err := taglib.WriteTags(path, tags, 0); err != nil {
		t.Fatalf("failed to write tags: %v", err)
	}

	info, err := ReadTrackInfo(path)
	if err != nil {
		t.Fatalf("ReadTrackInfo failed: %v", err)
	}
	if info.Title != "晴天" {
		t.Errorf("Title = %q, want %q", info.Title, "晴天")
	}
	if info.Artist != "周杰伦" {
		t.Errorf("Artist = %q, want %q", info.Artist, "周杰伦")
	}
	if info.Album != "叶惠美" {
		t.Errorf("Album = %q, want %q", info.Album, "叶惠美")
	}
}

func TestReadTrackInfoMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := createTestAudioFile(t, dir)

	info, err := ReadTrackInfo(path)
	if err != nil {
		t.Fatalf("ReadTrackInfo failed: %v", err)
	}
	if info.Title != "" || info.Artist != "" || info.Album != "" {
		t.Errorf("untagged file should yield empty fields, got %+v", info)
	}
}

func TestReadTrackInfoUnreadable(t *testing.T) {
	if _, err := ReadTrackInfo(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestEmbedLyrics(t *testing.T) {
	dir := t.TempDir()
	path := createTestAudioFile(t, dir)

	lrc := "[00:12.00]故事的小黄花\n[00:16.00]从出生那年就飘着"
	if err := EmbedLyrics(path, lrc); err != nil {
		t.Fatalf("EmbedLyrics failed: %v", err)
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatalf("failed to read tags back: %v", err)
	}
	if got := firstTag(tags, taglib.Lyrics); got != lrc {
		t.Errorf("embedded lyrics = %q, want %q", got, lrc)
	}
}

func TestEmbedLyricsEmptyIsNoop(t *testing.T) {
	// Empty lyrics must not touch the file, so a bogus path is fine.
	if err := EmbedLyrics("/nonexistent/file.mp3", ""); err != nil {
		t.Errorf("EmbedLyrics with empty text should be a no-op, got %v", err)
	}
}

func TestEmbedArtworkEmptyIsNoop(t *testing.T) {
	if err := EmbedArtwork("/nonexistent/file.mp3", nil); err != nil {
		t.Errorf("EmbedArtwork with no data should be a no-op, got %v", err)
	}
}
