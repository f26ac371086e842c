// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format    string `yaml:"format"`     // json, text or yaml
		Debug     bool   `yaml:"debug"`      // emit timing JSON to stderr
		NoColor   bool   `yaml:"no_color"`   // disable color in text output
		Language  string `yaml:"language"`   // OCR language hint, empty walks the ladder
		RasterDPI int    `yaml:"raster_dpi"` // PDF render resolution for OCR
	} `yaml:"defaults"`

	// Validation thresholds and keyword overrides
	Validation struct {
		FreshnessDays     int     `yaml:"freshness_days"`      // issuance-date acceptance window
		FuzzyIdentifier   float64 `yaml:"fuzzy_identifier"`    // identifier similarity floor
		NameWindow        float64 `yaml:"name_window"`         // sliding-window name score floor
		RiskThreshold     int     `yaml:"risk_threshold"`      // minimum acceptable risk class
		MinSeniorityYears float64 `yaml:"min_seniority_years"` // license seniority requirement

		// Per-document keyword overrides keyed by document kind.
		// Empty lists fall back to the built-in sets.
		Keywords map[string][]string `yaml:"keywords"`

		// OCR digit confusion overrides for the risk-class scan,
		// e.g. {"a": 4, "s": 5}.
		ConfusionMap map[string]int `yaml:"confusion_map"`
	} `yaml:"validation"`

	// Web server settings
	Web struct {
		Addr           string `yaml:"addr"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	} `yaml:"web"`

	// Profiles for different validation scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a named configuration preset
type Profile struct {
	Description   string  `yaml:"description"`
	Format        string  `yaml:"format"`
	Debug         bool    `yaml:"debug"`
	NoColor       bool    `yaml:"no_color"`
	Language      string  `yaml:"language"`
	FreshnessDays int     `yaml:"freshness_days"`
	RiskThreshold int     `yaml:"risk_threshold"`
	NameWindow    float64 `yaml:"name_window"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: make(map[string]Profile),
	}
	applyDefaults(config)

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Zero-valued numeric fields mean "not set in file" and fall back
	// to the defaults.
	fillZeroes(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func applyDefaults(config *Config) {
	config.Defaults.Format = "text"
	config.Defaults.Language = ""
	config.Defaults.RasterDPI = 300

	config.Validation.FreshnessDays = 30
	config.Validation.FuzzyIdentifier = 0.65
	config.Validation.NameWindow = 0.55
	config.Validation.RiskThreshold = 4
	config.Validation.MinSeniorityYears = 3.0

	config.Web.Addr = ":8080"
	config.Web.MaxUploadBytes = 20 << 20
}

func fillZeroes(config *Config) {
	if config.Defaults.Format == "" {
		config.Defaults.Format = "text"
	}
	if config.Defaults.RasterDPI == 0 {
		config.Defaults.RasterDPI = 300
	}
	if config.Validation.FreshnessDays == 0 {
		config.Validation.FreshnessDays = 30
	}
	if config.Validation.FuzzyIdentifier == 0 {
		config.Validation.FuzzyIdentifier = 0.65
	}
	if config.Validation.NameWindow == 0 {
		config.Validation.NameWindow = 0.55
	}
	if config.Validation.RiskThreshold == 0 {
		config.Validation.RiskThreshold = 4
	}
	if config.Validation.MinSeniorityYears == 0 {
		config.Validation.MinSeniorityYears = 3.0
	}
	if config.Web.Addr == "" {
		config.Web.Addr = ":8080"
	}
	if config.Web.MaxUploadBytes == 0 {
		config.Web.MaxUploadBytes = 20 << 20
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first
	for _, name := range []string{"veridoc.yaml", "veridoc.yml", "config.yaml", ".veridoc.yaml", ".veridoc.yml"} {
		if fileExists(name) {
			return name
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(xdgConfig, "veridoc", name)
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns a list of available profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile overlays a named profile onto the config defaults.
// Unknown profile names are an error so typos surface immediately.
func (c *Config) ApplyProfile(name string) error {
	profile := c.GetProfile(name)
	if profile == nil {
		return fmt.Errorf("unknown profile %q (available: %v)", name, c.ListProfiles())
	}

	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.Debug {
		c.Defaults.Debug = true
	}
	if profile.NoColor {
		c.Defaults.NoColor = true
	}
	if profile.Language != "" {
		c.Defaults.Language = profile.Language
	}
	if profile.FreshnessDays != 0 {
		c.Validation.FreshnessDays = profile.FreshnessDays
	}
	if profile.RiskThreshold != 0 {
		c.Validation.RiskThreshold = profile.RiskThreshold
	}
	if profile.NameWindow != 0 {
		c.Validation.NameWindow = profile.NameWindow
	}
	return nil
}

// ValidateConfig validates threshold ranges and enum fields
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	switch config.Defaults.Format {
	case "json", "text", "yaml":
	default:
		return fmt.Errorf("invalid format %q (expected json, text or yaml)", config.Defaults.Format)
	}

	if config.Validation.FreshnessDays < 0 {
		return fmt.Errorf("freshness_days cannot be negative")
	}
	if t := config.Validation.FuzzyIdentifier; t <= 0 || t > 1 {
		return fmt.Errorf("fuzzy_identifier must be in (0,1], got %v", t)
	}
	if t := config.Validation.NameWindow; t <= 0 || t > 1 {
		return fmt.Errorf("name_window must be in (0,1], got %v", t)
	}
	if rt := config.Validation.RiskThreshold; rt < 1 || rt > 5 {
		return fmt.Errorf("risk_threshold must be in 1..5, got %d", rt)
	}
	for token, class := range config.Validation.ConfusionMap {
		if class < 1 || class > 5 {
			return fmt.Errorf("confusion_map[%q] must map to a class in 1..5, got %d", token, class)
		}
	}

	for name, profile := range config.Profiles {
		if profile.Format != "" {
			switch profile.Format {
			case "json", "text", "yaml":
			default:
				return fmt.Errorf("profile %q: invalid format %q", name, profile.Format)
			}
		}
		if profile.RiskThreshold != 0 && (profile.RiskThreshold < 1 || profile.RiskThreshold > 5) {
			return fmt.Errorf("profile %q: risk_threshold must be in 1..5", name)
		}
	}

	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard
// locations when configFile is empty). If loading fails, it returns a default
// configuration. This is the shared helper used by both the CLI and the web server.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		// A missing or bad config file falls back to defaults.
		cfg, _ = LoadConfig("")
	}
	return cfg
}
