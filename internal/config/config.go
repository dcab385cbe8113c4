package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds astrodeck's connection and display settings.
type Config struct {
	OctoPrintURL string
	APIKey       string
	AppSite      string
	AppID        string
	PageSize     int
	PageWindow   int
	PollInterval time.Duration
	LogFile      string
	LogLevel     string
}

const (
	defaultConfigPath   = "~/.config/astrodeck/config.toml"
	defaultOctoPrintURL = "http://127.0.0.1:5000"
	defaultAppSite      = "https://cloud.astroprint.com"
	defaultAppID        = "c4f4a98519194176842567680239a4c3"
	defaultPageSize     = 5
	defaultPageWindow   = 5
	defaultPollSeconds  = 10
	defaultLogFile      = "~/.local/state/astrodeck/astrodeck.log"
	defaultLogLevel     = "info"

	envOctoPrintURL = "ASTRODECK_OCTOPRINT_URL"
	envAPIKey       = "ASTRODECK_API_KEY"
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		OctoPrintURL: defaultOctoPrintURL,
		AppSite:      defaultAppSite,
		AppID:        defaultAppID,
		PageSize:     defaultPageSize,
		PageWindow:   defaultPageWindow,
		PollInterval: defaultPollSeconds * time.Second,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
// Environment variables override the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		OctoPrintURL string `toml:"octoprint_url"`
		APIKey       string `toml:"api_key"`
		AppSite      string `toml:"app_site"`
		AppID        string `toml:"app_id"`
		PageSize     int    `toml:"page_size"`
		PageWindow   int    `toml:"page_window"`
		PollSeconds  int    `toml:"poll_seconds"`
		LogFile      string `toml:"log_file"`
		LogLevel     string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.OctoPrintURL = orDefault(raw.OctoPrintURL, defaultOctoPrintURL)
	cfg.APIKey = strings.TrimSpace(raw.APIKey)
	cfg.AppSite = strings.TrimRight(orDefault(raw.AppSite, defaultAppSite), "/")
	cfg.AppID = orDefault(raw.AppID, defaultAppID)
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.PageWindow > 0 {
		cfg.PageWindow = raw.PageWindow
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))

	applyEnv(&cfg)
	return cfg, nil
}

// Validate reports settings that make astrodeck unusable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api_key is not set; add it to %s or export %s", defaultConfigPath, envAPIKey)
	}
	if c.PageWindow%2 == 0 {
		return fmt.Errorf("page_window must be odd, got %d", c.PageWindow)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envOctoPrintURL)); v != "" {
		cfg.OctoPrintURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envAPIKey)); v != "" {
		cfg.APIKey = v
	}
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
