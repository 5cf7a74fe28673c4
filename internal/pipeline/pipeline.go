// Package pipeline orchestrates a library run: scan, search, match, and
// write lyrics/cover artifacts.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"lyrsync/internal/config"
	"lyrsync/internal/logger"
	"lyrsync/internal/lyrics"
	"lyrsync/internal/metadata"
	"lyrsync/internal/scanner"
	"lyrsync/pkg/utils"
)

// Hooks allows the caller to wire progress reporting.
type Hooks struct {
	OnScanComplete func(total int)
	OnProgress     func()
	OnMiss         func() // track finished without a match or with a failure
}

// Stats summarizes a completed run.
type Stats struct {
	Total         int // tracks processed
	LyricsWritten int
	CoversWritten int
	NoMatch       int // searches that found nothing acceptable
	Failed        int // tracks hit by a query or write failure
	Skipped       int // tracks that already had everything
}

// Fetcher runs the fetch pipeline for one library against one provider.
type Fetcher struct {
	cfg  config.Config
	log  *logger.Logger
	prov lyrics.Provider

	coverMu sync.Mutex
	covers  map[string]bool // directories already claimed for a cover write
}

// New creates a Fetcher. The caller owns the provider and closes it.
func New(cfg config.Config, log *logger.Logger, prov lyrics.Provider) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		log:    log,
		prov:   prov,
		covers: make(map[string]bool),
	}
}

// Run scans the library and processes every track through a bounded
// worker pool. Per-track failures are counted, never fatal; cancellation
// through ctx stops scheduling new work and waits for active tracks.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger, prov lyrics.Provider, hooks Hooks) (Stats, error) {
	return New(cfg, log, prov).Run(ctx, hooks)
}

// Run executes the pipeline. See the package-level Run.
func (f *Fetcher) Run(ctx context.Context, hooks Hooks) (Stats, error) {
	f.log.Info("=== Scanning %s ===", f.cfg.MusicPath)

	var tracks []scanner.MusicFile
	for mf := range scanner.New(f.cfg, f.log).Scan() {
		tracks = append(tracks, mf)
	}

	stats := Stats{Total: len(tracks)}
	f.log.Info("Found %d tracks", len(tracks))
	if len(tracks) == 0 {
		return stats, nil
	}

	if hooks.OnScanComplete != nil {
		hooks.OnScanComplete(len(tracks))
	}

	if f.cfg.DryRun {
		f.dryRun(tracks, &stats)
		return stats, nil
	}

	f.log.Info("=== Fetching (%d parallel) ===", f.cfg.ParallelJobs)

	var (
		wg      sync.WaitGroup
		statsMu sync.Mutex
	)
	semaphore := make(chan struct{}, f.cfg.ParallelJobs)

	for _, track := range tracks {
		select {
		case <-ctx.Done():
			f.log.Warn("Cancelled, waiting for active fetches to finish...")
			wg.Wait()
			return stats, fmt.Errorf("fetch cancelled")
		default:
		}

		wg.Add(1)
		go func(mf scanner.MusicFile) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcome := f.processTrack(ctx, mf)

			statsMu.Lock()
			stats.LyricsWritten += outcome.lyricsWritten
			stats.CoversWritten += outcome.coversWritten
			stats.NoMatch += outcome.noMatch
			stats.Failed += outcome.failed
			stats.Skipped += outcome.skipped
			statsMu.Unlock()

			if hooks.OnProgress != nil {
				hooks.OnProgress()
			}
			if hooks.OnMiss != nil && outcome.noMatch+outcome.failed > 0 {
				hooks.OnMiss()
			}
		}(track)
	}

	wg.Wait()

	f.log.Info("Done: %d lyrics, %d covers written (%d no match, %d failed, %d skipped)",
		stats.LyricsWritten, stats.CoversWritten, stats.NoMatch, stats.Failed, stats.Skipped)
	return stats, nil
}

type outcome struct {
	lyricsWritten int
	coversWritten int
	noMatch       int
	failed        int
	skipped       int
}

// processTrack fetches and writes what a single track is missing.
// Query failures and no-match are tracked separately: the first is an
// error condition, the second a legitimate outcome.
func (f *Fetcher) processTrack(ctx context.Context, mf scanner.MusicFile) outcome {
	var out outcome

	needLyrics := f.cfg.FetchLyrics && (f.cfg.Overwrite || !utils.Exists(mf.LyricsPath()))
	needCover := f.cfg.FetchCover && f.claimCover(mf)

	if !needLyrics && !needCover {
		f.log.Debug("Skipping %s: nothing to fetch", mf.Path)
		out.skipped = 1
		return out
	}

	results, err := f.prov.Search(ctx, mf.Artist, mf.Title, mf.Album)
	if err != nil {
		f.log.Warn("Search failed for %q - %q: %v", mf.Artist, mf.Title, err)
		out.failed = 1
		return out
	}

	best := f.prov.FindBestMatch(results, mf.Artist, mf.Title)
	if best == nil {
		f.log.Debug("No acceptable match for %q - %q (%d candidates)", mf.Artist, mf.Title, len(results))
		out.noMatch = 1
		return out
	}
	f.log.Debug("Matched %q - %q on %s (id %s)", best.Artist, best.Name, best.Platform, best.ID)

	if needLyrics {
		written, err := f.fetchLyrics(ctx, mf, *best)
		if err != nil {
			f.log.Warn("Lyrics for %s: %v", mf.Path, err)
			out.failed = 1
		} else if written {
			out.lyricsWritten = 1
		}
	}

	if needCover {
		written, err := f.fetchCover(ctx, mf, *best)
		if err != nil {
			f.log.Warn("Cover for %s: %v", mf.Path, err)
			out.failed = 1
		} else if written {
			out.coversWritten = 1
		}
	}

	return out
}

func (f *Fetcher) fetchLyrics(ctx context.Context, mf scanner.MusicFile, best lyrics.SearchResult) (bool, error) {
	text, err := f.prov.GetLyrics(ctx, best)
	if err != nil {
		return false, fmt.Errorf("fetch failed: %w", err)
	}
	if text == "" {
		f.log.Debug("Backend has no lyrics for %q - %q", mf.Artist, mf.Title)
		return false, nil
	}

	if err := utils.WriteFileAtomic(mf.LyricsPath(), []byte(text), 0644); err != nil {
		return false, fmt.Errorf("sidecar write failed: %w", err)
	}
	f.log.Debug("Wrote %s", mf.LyricsPath())

	// STRM content is a URL, not audio: sidecars only, never embed.
	if f.cfg.EmbedMetadata && !mf.IsStrm {
		if err := metadata.EmbedLyrics(mf.Path, text); err != nil {
			return true, fmt.Errorf("embed failed: %w", err)
		}
	}
	return true, nil
}

func (f *Fetcher) fetchCover(ctx context.Context, mf scanner.MusicFile, best lyrics.SearchResult) (bool, error) {
	image, err := f.prov.GetCover(ctx, best)
	if err != nil {
		return false, fmt.Errorf("fetch failed: %w", err)
	}
	if len(image) == 0 {
		f.log.Debug("Backend has no cover for %q - %q", mf.Artist, mf.Title)
		return false, nil
	}

	if err := utils.WriteFileAtomic(mf.CoverPath(), image, 0644); err != nil {
		return false, fmt.Errorf("sidecar write failed: %w", err)
	}
	f.log.Debug("Wrote %s", mf.CoverPath())

	if f.cfg.EmbedMetadata && !mf.IsStrm {
		if err := metadata.EmbedArtwork(mf.Path, image); err != nil {
			return true, fmt.Errorf("embed failed: %w", err)
		}
	}
	return true, nil
}

// claimCover reserves the track's directory for one cover write per run.
// Returns false when the cover already exists (and overwrite is off) or
// another track in the same directory got there first.
func (f *Fetcher) claimCover(mf scanner.MusicFile) bool {
	if !f.cfg.Overwrite && utils.Exists(mf.CoverPath()) {
		return false
	}

	dir := filepath.Dir(mf.Path)
	f.coverMu.Lock()
	defer f.coverMu.Unlock()
	if f.covers[dir] {
		return false
	}
	f.covers[dir] = true
	return true
}

func (f *Fetcher) dryRun(tracks []scanner.MusicFile, stats *Stats) {
	f.log.Info("=== Dry run ===")
	for _, mf := range tracks {
		wantLyrics := f.cfg.FetchLyrics && (f.cfg.Overwrite || !utils.Exists(mf.LyricsPath()))
		wantCover := f.cfg.FetchCover && (f.cfg.Overwrite || !utils.Exists(mf.CoverPath()))

		kind := "audio"
		if mf.IsStrm {
			kind = "strm"
		}

		switch {
		case wantLyrics && wantCover:
			f.log.Info("[%s] %q - %q: would fetch lyrics + cover", kind, mf.Artist, mf.Title)
		case wantLyrics:
			f.log.Info("[%s] %q - %q: would fetch lyrics", kind, mf.Artist, mf.Title)
		case wantCover:
			f.log.Info("[%s] %q - %q: would fetch cover", kind, mf.Artist, mf.Title)
		default:
			stats.Skipped++
		}
	}
}
