// Package config handles configuration loading and validation for inn.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/inn/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	// Extension is the filename suffix of context documents.
	Extension    string        `yaml:"extension"`
	DocumentsDir string        `yaml:"documents_dir"` // defaults to DataDir
	StarterName  string        `yaml:"starter_name"`
	Timebox      TimeboxConfig `yaml:"timebox"`
	Render       RenderConfig  `yaml:"render"`
	DataDir      string        `yaml:"-"` // set by caller, not from config file
}

// TimeboxConfig holds defaults for new timeboxes.
type TimeboxConfig struct {
	// DefaultBudget applies when `add --timebox` is given no budget. Zero means unlimited.
	DefaultBudget time.Duration `yaml:"default_budget"`
}

// RenderConfig controls terminal rendering of outlines.
type RenderConfig struct {
	Style string `yaml:"style"` // glamour style name
	Theme string `yaml:"theme"` // lipgloss palette for listings
	Width int    `yaml:"width"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Extension:   ".inn.yaml",
		StarterName: "starter",
		Timebox: TimeboxConfig{
			DefaultBudget: time.Hour,
		},
		Render: RenderConfig{
			Style: "dark",
			Theme: styles.DefaultTheme,
			Width: 80,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
// The timebox budget is left alone: zero is a meaningful setting.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.StarterName == "" {
		c.StarterName = defaults.StarterName
	}
	if c.Render.Style == "" {
		c.Render.Style = defaults.Render.Style
	}
	if c.Render.Theme == "" {
		c.Render.Theme = defaults.Render.Theme
	}
	if c.Render.Width == 0 {
		c.Render.Width = defaults.Render.Width
	}
}

// DocumentsPath returns the directory holding context documents. A relative
// documents_dir is resolved against the data directory.
func (c *Config) DocumentsPath() string {
	switch {
	case c.DocumentsDir == "":
		return c.DataDir
	case filepath.IsAbs(c.DocumentsDir):
		return c.DocumentsDir
	default:
		return filepath.Join(c.DataDir, c.DocumentsDir)
	}
}

// StateFile returns the path of the file persisting the context cursor.
func (c *Config) StateFile() string {
	return filepath.Join(c.DataDir, "state.yaml")
}
