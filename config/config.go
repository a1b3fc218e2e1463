package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Window  WindowConfig  `yaml:"window"`
}

type LoggingConfig struct {
	Level           string `yaml:"level"`            // debug, info, warn, error
	FileEnabled     bool   `yaml:"file_enabled"`     // Enable file logging
	FilePath        string `yaml:"file_path"`        // Log file path
	MaxFileSize     string `yaml:"max_file_size"`    // Max file size (e.g., "10MB")
	MaxFiles        int    `yaml:"max_files"`        // Rotated files to keep
	CompressRotated bool   `yaml:"compress_rotated"` // Compress rotated log files
}

type WindowConfig struct {
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	MinWidth    int  `yaml:"min_width"`
	MinHeight   int  `yaml:"min_height"`
	StartHidden bool `yaml:"start_hidden"` // Start minimized to the tray
}

// LoadConfig reads the YAML configuration. A missing file is not an
// error: the defaults are written there so the user has something to
// edit.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		config := &Config{}
		config.setDefaults()
		if writeErr := writeDefault(config, path); writeErr != nil {
			return nil, fmt.Errorf("failed to write default config: %w", writeErr)
		}
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.FileEnabled && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/hirotrack.log"
	}
	if c.Logging.FileEnabled && c.Logging.MaxFileSize == "" {
		c.Logging.MaxFileSize = "10MB"
	}
	if c.Logging.FileEnabled && c.Logging.MaxFiles == 0 {
		c.Logging.MaxFiles = 5
	}
	if c.Window.Width == 0 {
		c.Window.Width = 480
	}
	if c.Window.Height == 0 {
		c.Window.Height = 640
	}
	if c.Window.MinWidth == 0 {
		c.Window.MinWidth = 360
	}
	if c.Window.MinHeight == 0 {
		c.Window.MinHeight = 480
	}
}

func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	if c.Window.Width < c.Window.MinWidth {
		return fmt.Errorf("window width %d below minimum %d", c.Window.Width, c.Window.MinWidth)
	}
	if c.Window.Height < c.Window.MinHeight {
		return fmt.Errorf("window height %d below minimum %d", c.Window.Height, c.Window.MinHeight)
	}
	return nil
}

func writeDefault(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
