// Package provider selects a concrete lyrics backend from configuration.
//
// The lyrics.Provider interface is defined in internal/lyrics, following
// the Go convention of defining interfaces where they are consumed. Each
// sub-package here implements it for a specific service.
package provider

import (
	"strings"

	"lyrsync/internal/config"
	"lyrsync/internal/lyrics"
	"lyrsync/internal/provider/lrcapi"
	"lyrsync/internal/provider/tunehub"
)

// ForConfig returns the backend selected by cfg.APIProvider. The selector
// is compared case-insensitively, and unrecognized values resolve to the
// TuneHub default so existing configurations keep working.
func ForConfig(cfg config.Config) lyrics.Provider {
	switch strings.ToLower(cfg.APIProvider) {
	case "lrcapi":
		return lrcapi.New(cfg.LrcAPIURL)
	default:
		return tunehub.New(cfg.TuneHubURL)
	}
}
