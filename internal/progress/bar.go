package progress

import (
	"fmt"
	"sync"
	"time"
)

// Bar is a simple inline progress bar for library runs.
type Bar struct {
	total     int
	current   int
	missing   int
	mu        sync.Mutex
	startTime time.Time
	lastPrint time.Time
	done      bool
}

// New creates a progress bar for total tracks.
func New(total int) *Bar {
	now := time.Now()
	return &Bar{
		total:     total,
		startTime: now,
		lastPrint: now,
	}
}

// Increment advances the bar by one track.
func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Redraw at most every 500ms, and always on the last track.
	now := time.Now()
	if now.Sub(b.lastPrint) > 500*time.Millisecond || b.current >= b.total {
		b.render()
		b.lastPrint = now
	}
}

// MarkMissing counts a track that ended without lyrics or cover. Shown
// alongside the overall progress so a dead provider is visible mid-run.
func (b *Bar) MarkMissing() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.missing++
}

// Finish completes the bar and moves to a fresh line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.done {
		b.current = b.total
		b.render()
		fmt.Println()
		b.done = true
	}
}

func (b *Bar) render() {
	if b.done || b.total == 0 {
		return
	}

	percentage := float64(b.current) / float64(b.total) * 100
	elapsed := time.Since(b.startTime)

	var eta time.Duration
	if b.current > 0 {
		avgTime := elapsed / time.Duration(b.current)
		eta = avgTime * time.Duration(b.total-b.current)
	}

	const barWidth = 40
	filled := barWidth * b.current / b.total

	bar := ""
	for i := 0; i < barWidth; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}

	missing := ""
	if b.missing > 0 {
		missing = fmt.Sprintf(" - %d missing", b.missing)
	}

	fmt.Printf("\r[%s] %d/%d tracks (%.1f%%)%s - Elapsed: %s - ETA: %s   ",
		bar,
		b.current,
		b.total,
		percentage,
		missing,
		formatDuration(elapsed),
		formatDuration(eta),
	)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
