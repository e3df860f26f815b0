// Package config loads the service configuration from a JSON file.
// Fields omitted from the file retain their defaults, so partial
// configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root service configuration. The shared intake secret
// deliberately does not live here; it comes from the environment.
type Config struct {
	// Listen is the HTTP listen address.
	Listen *string `json:"listen,omitempty"`

	// PathDir is the directory holding the reference path sources.
	PathDir *string `json:"path_dir,omitempty"`

	// FlightPaths maps each known call sign to its source file inside
	// PathDir. Call signs absent from the map are unknown to the
	// deviation engine.
	FlightPaths map[string]string `json:"flight_paths,omitempty"`

	// ThresholdFeet is the deviation tolerance below which no penalty
	// accrues.
	ThresholdFeet *float64 `json:"threshold_feet,omitempty"`
}

// APIKeyEnv is the environment variable holding the shared intake secret.
const APIKeyEnv = "API_KEY"

// DefaultThresholdFeet is the tolerance applied when the config does
// not override it.
const DefaultThresholdFeet = 25.0

// defaultFlightPaths is the reference fleet.
func defaultFlightPaths() map[string]string {
	return map[string]string{
		"DUSKY18": "dusky18_rellis_north.csv",
		"DUSKY21": "dusky21_rellis_west.csv",
		"DUSKY24": "dusky24_rellis_south.csv",
		"DUSKY27": "dusky27_disaster_city.csv",
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The file must have a .json
// extension and stay under the max file size.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Listen != nil && *c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.ThresholdFeet != nil && *c.ThresholdFeet < 0 {
		return fmt.Errorf("threshold_feet must be non-negative, got %f", *c.ThresholdFeet)
	}
	for callSign, file := range c.FlightPaths {
		if callSign == "" {
			return fmt.Errorf("flight_paths contains an empty call sign")
		}
		if file == "" {
			return fmt.Errorf("flight_paths entry for %s has an empty file name", callSign)
		}
	}
	return nil
}

// GetListen returns the listen address or the default.
func (c *Config) GetListen() string {
	if c.Listen == nil {
		return ":8080"
	}
	return *c.Listen
}

// GetPathDir returns the reference path directory or the default.
func (c *Config) GetPathDir() string {
	if c.PathDir == nil {
		return "refpaths"
	}
	return *c.PathDir
}

// GetFlightPaths returns the call-sign→source map or the default fleet.
func (c *Config) GetFlightPaths() map[string]string {
	if len(c.FlightPaths) == 0 {
		return defaultFlightPaths()
	}
	return c.FlightPaths
}

// GetThresholdFeet returns the tolerance threshold or the default.
func (c *Config) GetThresholdFeet() float64 {
	if c.ThresholdFeet == nil {
		return DefaultThresholdFeet
	}
	return *c.ThresholdFeet
}

// APIKey reads the shared intake secret from the environment. Startup
// is fatal without it: the intake endpoint cannot operate unauthenticated.
func APIKey() (string, error) {
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", APIKeyEnv)
	}
	return key, nil
}
