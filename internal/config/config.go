package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/pgeary/marquee/internal/log"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging log.Config    `mapstructure:"logging"`
}

// CatalogConfig describes where the catalog data comes from
type CatalogConfig struct {
	File      string   `mapstructure:"file"`      // JSON catalog snapshot to load
	Libraries []string `mapstructure:"libraries"` // Library routes, one view each
}

// BrowseConfig tunes the view engine
type BrowseConfig struct {
	PageSize    int    `mapstructure:"page_size"`    // Records per fetched page
	GeneralView string `mapstructure:"general_view"` // Key of the indestructible view
}

// StorageConfig holds persistence paths
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"` // Directory for the playlist database
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Libraries: []string{"arcade", "theatre"},
		},
		Browse: BrowseConfig{
			PageSize:    60,
			GeneralView: "general",
		},
		Storage: StorageConfig{
			DataDir: defaultDataPath(),
		},
		Logging: log.Config{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// Load reads configuration from file and environment. Extra search paths, if
// given, are consulted before the default locations.
func Load(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	// Environment variable overrides. Keys are bound explicitly because
	// Unmarshal only sees env values for keys viper already knows about.
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"catalog.file",
		"catalog.libraries",
		"browse.page_size",
		"browse.general_view",
		"storage.data_dir",
		"logging.file",
		"logging.level",
	} {
		v.BindEnv(key)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Browse.PageSize <= 0 {
		cfg.Browse.PageSize = DefaultConfig().Browse.PageSize
	}
	if cfg.Browse.GeneralView == "" {
		cfg.Browse.GeneralView = DefaultConfig().Browse.GeneralView
	}

	return cfg, nil
}
