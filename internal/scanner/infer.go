package scanner

import (
	"path/filepath"
	"strings"
)

// InferFromPath derives artist, album and title for a track from its
// location alone. Pure path arithmetic relative to root, no I/O.
//
// Title is the filename stem, verbatim. With folder-structure inference
// enabled, root/Artist/Album/track yields the grandparent directory as
// artist and the parent as album; the shallow layout root/Artist/track
// yields only an artist. When inference is disabled or the file sits
// directly under root, the artist falls back to defaultArtist.
// Directory names are used as-is: no case or punctuation normalization.
func InferFromPath(path, root string, useFolderStructure bool, defaultArtist string) (artist, album, title string) {
	title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if !useFolderStructure {
		return defaultArtist, "", title
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return defaultArtist, "", title
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	switch {
	case len(parts) >= 3:
		// Nearest two ancestors win even for deeper nesting.
		return parts[len(parts)-3], parts[len(parts)-2], title
	case len(parts) == 2:
		return parts[0], "", title
	}
	return defaultArtist, "", title
}
