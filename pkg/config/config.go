package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all user-defined persistent settings.
type AppConfig struct {
	// HomeLat/HomeLng are the saved fallback origin for sessions started
	// without geolocation. Stored as strings, like the feed's coordinates.
	HomeLat         string `json:"home_lat,omitempty"`
	HomeLng         string `json:"home_lng,omitempty"`
	DefaultCategory int    `json:"default_category,omitempty"`
	APIBaseURL      string `json:"api_base_url,omitempty"`
	AccentColor     string `json:"accent_color,omitempty"`
}

// getConfigPath returns the absolute path to ~/.crowdy.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".crowdy.json"), nil
}

// Load reads the application configuration from disk, then applies
// environment overrides (a .env file is honored if present, so local
// development against a non-production backend needs no shell setup).
// Returns defaults if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv layers environment variables over the file-backed settings.
func applyEnv(cfg *AppConfig) {
	_ = godotenv.Load()

	if v := os.Getenv("CROWDY_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CROWDY_HOME"); v != "" {
		// Format: "lat,lng"
		parts := strings.SplitN(v, ",", 2)
		if len(parts) == 2 {
			cfg.HomeLat = strings.TrimSpace(parts[0])
			cfg.HomeLng = strings.TrimSpace(parts[1])
		}
	}
}

// Save writes the application configuration back to disk. Environment
// overrides are not persisted; only what the user saved explicitly.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// HomeOrigin parses the saved origin. ok is false when none is saved or the
// saved strings do not parse.
func (c *AppConfig) HomeOrigin() (lat, lng float64, ok bool) {
	if c.HomeLat == "" || c.HomeLng == "" {
		return 0, 0, false
	}
	lat, latErr := strconv.ParseFloat(c.HomeLat, 64)
	lng, lngErr := strconv.ParseFloat(c.HomeLng, 64)
	if latErr != nil || lngErr != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
