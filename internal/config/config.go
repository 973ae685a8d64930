package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Query    QueryConfig    `mapstructure:"query"`
	Preview  PreviewConfig  `mapstructure:"preview"`
	Download DownloadConfig `mapstructure:"download"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SourceConfig holds catalog source configuration
type SourceConfig struct {
	BaseURL string `mapstructure:"base_url"` // Catalog API root
	APIKey  string `mapstructure:"api_key"`  // Optional API key
}

// QueryConfig holds default catalog query parameters
type QueryConfig struct {
	Categories string `mapstructure:"categories"` // e.g. "general,anime"
	Purity     string `mapstructure:"purity"`     // e.g. "sfw"
	Sorting    string `mapstructure:"sorting"`    // e.g. "date_added"
}

// PreviewConfig holds preview cache and prefetch configuration
type PreviewConfig struct {
	CacheDir    string `mapstructure:"cache_dir"`   // Preview image cache directory
	Preload     bool   `mapstructure:"preload"`     // Warm the whole page before display
	Concurrency int    `mapstructure:"concurrency"` // Prefetch worker bound
}

// DownloadConfig holds final download placement configuration
type DownloadConfig struct {
	Folder string `mapstructure:"folder"` // Library folder for downloaded originals
	Force  bool   `mapstructure:"force"`  // Re-download even if already in history
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL: "https://wallhaven.cc/api/v1",
		},
		Query: QueryConfig{
			Categories: "general,anime,people",
			Purity:     "sfw",
			Sorting:    "date_added",
		},
		Preview: PreviewConfig{
			CacheDir:    defaultCachePath(),
			Preload:     false,
			Concurrency: 6,
		},
		Download: DownloadConfig{
			Folder: defaultDownloadPath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("WALLGRAB")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// FileUsed reports the config file Load read, or "" when none was found
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("source.base_url", cfg.Source.BaseURL)
	viper.Set("source.api_key", cfg.Source.APIKey)

	viper.Set("query.categories", cfg.Query.Categories)
	viper.Set("query.purity", cfg.Query.Purity)
	viper.Set("query.sorting", cfg.Query.Sorting)

	viper.Set("preview.cache_dir", cfg.Preview.CacheDir)
	viper.Set("preview.preload", cfg.Preview.Preload)
	viper.Set("preview.concurrency", cfg.Preview.Concurrency)

	viper.Set("download.folder", cfg.Download.Folder)
	viper.Set("download.force", cfg.Download.Force)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "wallgrab")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "wallgrab")
	}
}

// defaultCachePath returns the default preview cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "wallgrab", "previews")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".cache", "wallgrab", "previews")
	}
}

// defaultDownloadPath returns the default wallpaper library folder
func defaultDownloadPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Pictures", "wallpapers")
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "wallgrab", "wallgrab.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "wallgrab", "wallgrab.log")
	}
}
