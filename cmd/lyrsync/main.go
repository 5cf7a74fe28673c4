package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lyrsync/internal/config"
	"lyrsync/internal/logger"
	"lyrsync/internal/pipeline"
	"lyrsync/internal/progress"
	"lyrsync/internal/provider"
	"lyrsync/internal/shutdown"
)

func main() {
	cfg, configPath, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen()
	defer sh.Shutdown()

	log := logger.New(cfg.Verbose)
	defer log.Close()

	if !cfg.Verbose {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("lyrsync_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if cfg.Verbose && configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	if err := run(sh, cfg, log); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(sh *shutdown.Handler, cfg config.Config, log *logger.Logger) error {
	prov := provider.ForConfig(cfg)
	sh.AddCleanup(func() {
		if err := prov.Close(); err != nil {
			log.Warn("Error closing provider: %v", err)
		}
	})

	log.Debug("Scanning library: %s", cfg.MusicPath)

	var bar *progress.Bar
	hooks := pipeline.Hooks{
		OnScanComplete: func(total int) {
			log.Info("Found %d tracks", total)
			if !cfg.Verbose && !cfg.DryRun {
				bar = progress.New(total)
				log.SetProgressBar(true)
			}
		},
		OnProgress: func() {
			if bar != nil {
				bar.Increment()
			}
		},
		OnMiss: func() {
			if bar != nil {
				bar.MarkMissing()
			}
		},
	}

	stats, err := pipeline.Run(sh.Context(), cfg, log, prov, hooks)

	if bar != nil {
		bar.Finish()
		log.SetProgressBar(false)
	}

	if err != nil {
		return err
	}

	log.Info("=== Fetch completed: %d lyrics written, %d covers written, %d skipped, %d without a match, %d failed ===",
		stats.LyricsWritten, stats.CoversWritten, stats.Skipped, stats.NoMatch, stats.Failed)
	return nil
}
