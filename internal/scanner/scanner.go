// Package scanner walks a music library and produces normalized track
// descriptors for both regular audio files and STRM stream-pointer files.
package scanner

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"lyrsync/internal/config"
	"lyrsync/internal/logger"
	"lyrsync/internal/metadata"
)

// MusicFile describes a single track found during a scan.
// Artist, Title and Album are never null; empty string means unknown.
type MusicFile struct {
	Path   string
	Artist string
	Title  string
	Album  string
	IsStrm bool
}

// LyricsPath returns the sidecar lyrics path: the track's extension
// replaced by .lrc. STRM files produce the same sibling path as audio files.
func (m MusicFile) LyricsPath() string {
	return strings.TrimSuffix(m.Path, filepath.Ext(m.Path)) + ".lrc"
}

// CoverPath returns the sidecar cover path: cover.jpg in the track's directory.
func (m MusicFile) CoverPath() string {
	return filepath.Join(filepath.Dir(m.Path), "cover.jpg")
}

// IsStrmFile reports whether path names a STRM stream-pointer file.
// The extension comparison is case-insensitive and performs no I/O.
func IsStrmFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), config.StrmExtension)
}

// Scanner walks the configured library root.
type Scanner struct {
	cfg  config.Config
	log  *logger.Logger
	exts map[string]bool
}

// New creates a Scanner for the given configuration.
func New(cfg config.Config, log *logger.Logger) *Scanner {
	return &Scanner{
		cfg:  cfg,
		log:  log,
		exts: cfg.ExtensionSet(),
	}
}

// Scan lazily walks the music root and yields a MusicFile for every entry
// whose extension is recognized. Each call starts a fresh walk; a produced
// sequence is consumed once. Unreadable entries are skipped, never fatal.
func (s *Scanner) Scan() iter.Seq[MusicFile] {
	return func(yield func(MusicFile) bool) {
		root := s.cfg.MusicPath
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				s.log.Debug("Skipping %s: %v", path, walkErr)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !s.exts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			mf := s.describe(path)
			if !yield(mf) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			s.log.Warn("Scan of %s aborted: %v", root, err)
		}
	}
}

// describe builds the track descriptor for a recognized file. STRM files
// never carry embedded tags (their content is a remote URL), so metadata
// always comes from the path. Regular files prefer embedded tags and fall
// back to path inference per missing field.
func (s *Scanner) describe(path string) MusicFile {
	artist, album, title := InferFromPath(path, s.cfg.MusicPath, s.cfg.UseFolderStructure, s.cfg.DefaultArtist)

	mf := MusicFile{
		Path:   path,
		Artist: artist,
		Album:  album,
		Title:  title,
		IsStrm: IsStrmFile(path),
	}
	if mf.IsStrm {
		return mf
	}

	info, err := metadata.ReadTrackInfo(path)
	if err != nil {
		s.log.Debug("No readable tags in %s: %v", path, err)
		return mf
	}
	if info.Title != "" {
		mf.Title = info.Title
	}
	if info.Artist != "" {
		mf.Artist = info.Artist
	}
	if info.Album != "" {
		mf.Album = info.Album
	}
	return mf
}
