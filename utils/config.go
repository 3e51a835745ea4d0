package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"runtime"

	"github.com/spf13/viper"
)

// Config is the configuration for the application
type Config struct {
	IndexFile       string   `mapstructure:"index_file"`       // Unified index file.
	UsageDB         string   `mapstructure:"usage_db"`         // SQLite usage journal. Empty disables it.
	LegacyDir       string   `mapstructure:"legacy_dir"`       // Directory for per volume artifacts.
	LegacyArtifacts bool     `mapstructure:"legacy_artifacts"` // Write per volume artifacts on re-crawl.
	Volumes         []string `mapstructure:"volumes"`          // Volumes to crawl. Empty means every local mount.
	Opener          string   `mapstructure:"opener"`           // Command used to open the selected path.
	FilterWorkers   int      `mapstructure:"filter_workers"`   // Filter goroutines, 0 for GOMAXPROCS.
	Fuzzy           bool     `mapstructure:"fuzzy"`            // Fold accents when matching.
	LogLevel        string   `mapstructure:"log_level"`        // debug, info, warn or error.
	LogDir          string   `mapstructure:"log_dir"`          // Log directory. Empty disables logging.
}

// DataPath returns where the index, journal and logs are stored by default.
func DataPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return path.Join(dir, "launch_search")
}

// ConfigPath returns the default location of the config file.
func ConfigPath() string {
	homedir, _ := os.UserHomeDir()
	return path.Join(homedir, ".config/launch_search/config.yaml")
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "windows":
		return "explorer"
	case "darwin":
		return "open"
	}
	return "xdg-open"
}

// NewConfig reads the config file from its default location.
func NewConfig() (*Config, error) {
	return LoadConfig(ConfigPath())
}

// LoadConfig reads the config file at configPath. A missing file yields
// the defaults. Every key can be overridden with a LAUNCH_SEARCH_ prefixed
// environment variable.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("launch_search")
	v.AutomaticEnv()

	data := DataPath()
	v.SetDefault("index_file", path.Join(data, "index.txt"))
	v.SetDefault("usage_db", path.Join(data, "usage.db"))
	v.SetDefault("legacy_dir", path.Join(data, "volumes"))
	v.SetDefault("legacy_artifacts", false)
	v.SetDefault("volumes", []string{})
	v.SetDefault("opener", defaultOpener())
	v.SetDefault("filter_workers", 0)
	v.SetDefault("fuzzy", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", data)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to parse the config file: %w", err)
	}
	return config, nil
}
