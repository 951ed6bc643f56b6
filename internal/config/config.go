package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Library  LibraryConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LibraryConfig holds channel library settings.
type LibraryConfig struct {
	ImportDir string `mapstructure:"import_dir"`
	AutoSeed  bool   `mapstructure:"auto_seed"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize     int    `mapstructure:"page_size"`
	Language     string `mapstructure:"language"`
	ShowLicenses bool   `mapstructure:"show_licenses"`
}

// Load reads configuration from file and env. Env var overrides use prefix CURIO_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "curio", "curio.db"))
	v.SetDefault("library.import_dir", filepath.Join(os.Getenv("HOME"), "Downloads"))
	v.SetDefault("library.auto_seed", true)
	v.SetDefault("ui.page_size", 20)
	v.SetDefault("ui.language", "en")
	v.SetDefault("ui.show_licenses", false)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CURIO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "curio"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CURIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed, so in-app setting changes survive a restart.
func Save(cfg Config) error {
	path := os.Getenv("CURIO_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "curio", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("library.import_dir", cfg.Library.ImportDir)
	v.Set("library.auto_seed", cfg.Library.AutoSeed)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.language", cfg.UI.Language)
	v.Set("ui.show_licenses", cfg.UI.ShowLicenses)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
