package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains the program configuration
type Config struct {
	MusicPath          string   `yaml:"music_path"`
	AudioExtensions    []string `yaml:"audio_extensions"`
	UseFolderStructure bool     `yaml:"use_folder_structure"`
	DefaultArtist      string   `yaml:"default_artist"`
	APIProvider        string   `yaml:"api_provider"`
	TuneHubURL         string   `yaml:"tunehub_url"`
	LrcAPIURL          string   `yaml:"lrcapi_url"`
	FetchLyrics        bool     `yaml:"fetch_lyrics"`
	FetchCover         bool     `yaml:"fetch_cover"`
	EmbedMetadata      bool     `yaml:"embed_metadata"`
	Overwrite          bool     `yaml:"overwrite"`
	ParallelJobs       int      `yaml:"parallel_jobs"`
	Verbose            bool     `yaml:"verbose"`
	DryRun             bool     `yaml:"dry_run"`
}

// StrmExtension is the stream-pointer file extension. It is always part of
// the recognized extension set so STRM tracks are never skipped by a scan.
const StrmExtension = ".strm"

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		MusicPath: filepath.Join(homeDir(), "Music"),
		AudioExtensions: []string{
			".mp3", ".flac", ".m4a", ".ogg", ".oga",
			".wav", ".aac", ".opus", ".wma", StrmExtension,
		},
		UseFolderStructure: true,
		APIProvider:        "tunehub",
		TuneHubURL:         "https://api.tunehub.dev",
		FetchLyrics:        true,
		FetchCover:         true,
		EmbedMetadata:      true,
		ParallelJobs:       4,
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.MusicPath = ExpandHome(cfg.MusicPath)

	return cfg, nil
}

// ExtensionSet returns the recognized audio extensions as a lowercase set.
// The STRM pointer extension is always included.
func (c *Config) ExtensionSet() map[string]bool {
	set := make(map[string]bool, len(c.AudioExtensions)+1)
	for _, ext := range c.AudioExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	set[StrmExtension] = true
	return set
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./lyrsync.yaml",
		"./lyrsync.yml",
		filepath.Join(home, ".config", "lyrsync", "config.yaml"),
		filepath.Join(home, ".config", "lyrsync", "config.yml"),
		filepath.Join(home, ".lyrsync.yaml"),
		filepath.Join(home, ".lyrsync.yml"),
	}

	for _, path := range locations {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "lyrsync", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "lyrsync", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid.
// An unusable music path is fatal: no scan can proceed without it.
func (c *Config) Validate() error {
	if c.MusicPath == "" {
		return fmt.Errorf("music_path cannot be empty")
	}

	info, err := os.Stat(c.MusicPath)
	if err != nil {
		return fmt.Errorf("music_path is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("music_path is not a directory: %s", c.MusicPath)
	}

	if c.ParallelJobs < 1 {
		return fmt.Errorf("parallel_jobs must be at least 1, got %d", c.ParallelJobs)
	}
	if c.ParallelJobs > 10 {
		return fmt.Errorf("parallel_jobs cannot exceed 10 (to avoid rate limiting), got %d", c.ParallelJobs)
	}

	if strings.EqualFold(c.APIProvider, "lrcapi") && c.LrcAPIURL == "" {
		return fmt.Errorf("lrcapi_url is required when api_provider is lrcapi")
	}

	if !c.FetchLyrics && !c.FetchCover {
		return fmt.Errorf("nothing to do: both fetch_lyrics and fetch_cover are disabled")
	}

	return nil
}
