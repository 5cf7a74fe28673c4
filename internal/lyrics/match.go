package lyrics

import (
	"strings"
	"unicode"
)

// Candidates scoring below this are excluded rather than returned as a
// weak guess.
const matchThreshold = 0.5

// BestMatch picks the single best candidate for the expected artist/title,
// or nil when no candidate is acceptable.
//
// An exact case-insensitive match on both artist and title always beats
// any partial match. Otherwise candidates are ranked by weighted textual
// similarity; ties keep the earliest candidate in the input order.
func BestMatch(results []SearchResult, artist, title string) *SearchResult {
	if len(results) == 0 {
		return nil
	}

	for i := range results {
		if strings.EqualFold(results[i].Artist, artist) && strings.EqualFold(results[i].Name, title) {
			return &results[i]
		}
	}

	best := -1
	bestScore := 0.0
	for i := range results {
		if s := score(artist, title, results[i]); s > bestScore {
			bestScore = s
			best = i
		}
	}
	if best < 0 || bestScore < matchThreshold {
		return nil
	}
	return &results[best]
}

// score computes a similarity score (0.0-1.0) between the query and a result.
func score(artist, title string, result SearchResult) float64 {
	titleScore := similarity(normalize(title), normalize(result.Name))
	if artist == "" {
		return titleScore
	}
	artistScore := similarity(normalize(artist), normalize(result.Artist))
	// Weight: 60% title, 40% artist
	return titleScore*0.6 + artistScore*0.4
}

// similarity returns how similar two strings are (0.0-1.0).
// Uses both token overlap and compact string comparison to handle cases
// like "theweeknd" vs "the weeknd".
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	compactA := strings.ReplaceAll(a, " ", "")
	compactB := strings.ReplaceAll(b, " ", "")
	if compactA == compactB {
		return 1.0
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	setB := make(map[string]bool, len(tokensB))
	for _, tok := range tokensB {
		setB[tok] = true
	}

	matches := 0
	for _, tok := range tokensA {
		if setB[tok] {
			matches++
		}
	}

	maxLen := max(len(tokensA), len(tokensB))
	return float64(matches) / float64(maxLen)
}

// normalize lowercases and strips non-alphanumeric characters for comparison.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
