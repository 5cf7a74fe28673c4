// Package metadata reads and writes embedded audio tags via taglib.
package metadata

import (
	"fmt"

	"go.senan.xyz/taglib"
)

// TrackInfo holds the tag fields the scanner and pipeline care about.
type TrackInfo struct {
	Title  string
	Artist string
	Album  string
}

// ReadTrackInfo reads embedded tags from an audio file.
// Fields missing from the tags are left empty.
func ReadTrackInfo(path string) (TrackInfo, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return TrackInfo{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	return TrackInfo{
		Title:  firstTag(tags, taglib.Title),
		Artist: firstTag(tags, taglib.Artist),
		Album:  firstTag(tags, taglib.Album),
	}, nil
}

// EmbedLyrics writes LRC lyrics text into an audio file's tags.
// Must not be called for STRM files; their content is a URL, not audio.
func EmbedLyrics(path, lrc string) error {
	if lrc == "" {
		return nil
	}
	tags := map[string][]string{
		taglib.Lyrics: {lrc},
	}
	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("failed to embed lyrics in %s: %w", path, err)
	}
	return nil
}

// EmbedArtwork embeds cover image data into an audio file.
func EmbedArtwork(path string, imageData []byte) error {
	if len(imageData) == 0 {
		return nil
	}
	if err := taglib.WriteImage(path, imageData); err != nil {
		return fmt.Errorf("failed to embed artwork in %s: %w", path, err)
	}
	return nil
}

func firstTag(tags map[string][]string, key string) string {
	if vals, ok := tags[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}
