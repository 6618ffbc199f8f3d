// Package config loads panekit configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (PANEKIT_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .panekit.yaml in current directory
//  2. ~/.config/panekit/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"panekit/internal/templates"

	"gopkg.in/yaml.v3"
)

// Config holds all panekit configuration.
type Config struct {
	// Host API settings
	HostURL string `yaml:"host_url"`
	Token   string `yaml:"token"`
	Project string `yaml:"project"`

	// Pane document storage
	DataDir string `yaml:"data_dir"`

	// Command execution
	DefaultShell       string `yaml:"default_shell"`
	DefaultShellConfig string `yaml:"default_shell_config"`

	// Result cache
	CacheTTL      string `yaml:"cache_ttl"` // Go duration string, e.g. "5m"
	CacheCapacity int    `yaml:"cache_capacity"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Parsed durations (not from YAML, set after loading)
	CacheTTLDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		HostURL:            "http://127.0.0.1:8080",
		DefaultShell:       templates.DefaultShell(),
		DefaultShellConfig: templates.DefaultShellConfig(),
		CacheTTL:           "5m",
		CacheCapacity:      1000,
		LogLevel:           "info",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}

	var err error
	cfg.CacheTTLDuration, err = parseDurationOrDisable(cfg.CacheTTL, 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid cache TTL %q: %w", cfg.CacheTTL, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".panekit.yaml"); err == nil {
		return ".panekit.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "panekit", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "panekit", "data")
	}
	return "panekit-data"
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.HostURL != "" {
		cfg.HostURL = file.HostURL
	}
	if file.Token != "" {
		cfg.Token = file.Token
	}
	if file.Project != "" {
		cfg.Project = file.Project
	}
	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	if file.DefaultShell != "" {
		cfg.DefaultShell = file.DefaultShell
	}
	if file.DefaultShellConfig != "" {
		cfg.DefaultShellConfig = file.DefaultShellConfig
	}
	if file.CacheTTL != "" {
		cfg.CacheTTL = file.CacheTTL
	}
	if file.CacheCapacity > 0 {
		cfg.CacheCapacity = file.CacheCapacity
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("PANEKIT_HOST_URL"); v != "" {
		cfg.HostURL = v
	}
	if v := os.Getenv("PANEKIT_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("PANEKIT_PROJECT"); v != "" {
		cfg.Project = v
	}
	if v := os.Getenv("PANEKIT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PANEKIT_DEFAULT_SHELL"); v != "" {
		cfg.DefaultShell = v
	}
	if v := os.Getenv("PANEKIT_CACHE_TTL"); v != "" {
		cfg.CacheTTL = v
	}
	if v := os.Getenv("PANEKIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PANEKIT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable"
// return 0. Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
