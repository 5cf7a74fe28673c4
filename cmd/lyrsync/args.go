package main

import (
	"fmt"
	"os"

	"lyrsync/internal/config"
)

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > config file > defaults
func parseArgs() (config.Config, string, error) {
	args := os.Args[1:]

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return config.Config{}, "", initConfigFile()
		}
	}

	var configPath string
	var cfg config.Config
	var err error

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--config requires a path argument")
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err = config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--dry-run", "-n":
			cfg.DryRun = true

		case "--overwrite", "-o":
			cfg.Overwrite = true

		case "--no-embed":
			cfg.EmbedMetadata = false

		case "--no-lyrics":
			cfg.FetchLyrics = false

		case "--no-cover":
			cfg.FetchCover = false

		case "--parallel", "-p":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--parallel requires a number argument")
			}
			i++
			var jobs int
			if _, err := fmt.Sscanf(args[i], "%d", &jobs); err != nil {
				return config.Config{}, "", fmt.Errorf("invalid parallel jobs value: %s", args[i])
			}
			cfg.ParallelJobs = jobs

		case "--provider":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--provider requires a provider name")
			}
			i++
			cfg.APIProvider = args[i]

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return config.Config{}, "", fmt.Errorf("unknown flag: %s", arg)
			}
			cfg.MusicPath = arg
		}
	}

	return cfg, configPath, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nYou can now edit this file to customize your settings.")
	fmt.Println("Available options:")
	fmt.Println("  music_path: path to your music library")
	fmt.Println("  api_provider: tunehub or lrcapi")
	fmt.Println("  parallel_jobs: 1-10 (number of tracks processed in parallel)")
	fmt.Println("  use_folder_structure: true/false (infer artist/album from folders)")
	fmt.Println("  embed_metadata: true/false (write lyrics and covers into audio tags)")
	fmt.Println("  overwrite: true/false (replace existing .lrc files and covers)")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("lyrsync - Fetch lyrics and covers for your music library")
	fmt.Println()
	fmt.Println("Usage: lyrsync [options] [music_path]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  -n, --dry-run              Preview what would be fetched (no network calls)")
	fmt.Println("  -o, --overwrite            Replace existing .lrc files and covers")
	fmt.Println("  -p, --parallel <n>         Number of tracks processed in parallel (1-10, default: 4)")
	fmt.Println("      --provider <name>      Lyrics provider: tunehub or lrcapi (default: tunehub)")
	fmt.Println("      --no-embed             Write sidecar files only, skip tag embedding")
	fmt.Println("      --no-lyrics            Skip lyrics, fetch covers only")
	fmt.Println("      --no-cover             Skip covers, fetch lyrics only")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./lyrsync.yaml")
	fmt.Println("  ~/.config/lyrsync/config.yaml")
	fmt.Println("  ~/.lyrsync.yaml")
	fmt.Println()
	fmt.Println("Logging:")
	fmt.Println("  Normal mode: Progress bar shown, detailed logs saved to:")
	fmt.Println("    ~/.local/share/lyrsync/logs/")
	fmt.Println("  Verbose mode: All output to stdout, no progress bar, no file logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Preview what would be fetched")
	fmt.Println("  lyrsync --dry-run /mnt/music")
	fmt.Println()
	fmt.Println("  # Fetch with defaults (progress bar + file logging)")
	fmt.Println("  lyrsync /mnt/music")
	fmt.Println()
	fmt.Println("  # Fetch lyrics only from an LrcApi server, 8 tracks at a time")
	fmt.Println("  lyrsync --provider lrcapi --no-cover -p 8 /mnt/music")
	fmt.Println()
	fmt.Println("  # Create a config file to persist settings")
	fmt.Println("  lyrsync --init-config")
}
