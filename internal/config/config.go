//-------------------------------------------------------------------------
//
// RetailReport Feed Loader
//
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retailreport.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for retailreport.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Sample holds configuration for the sample subcommand.
	Sample SampleConfig `mapstructure:"sample"`
}

// LoadConfig holds configuration for the feed load pipeline.
type LoadConfig struct {
	// Input is the path to the TSV feed file.
	Input string `mapstructure:"input"`

	// BatchSize is the number of staging rows per batch insert.
	BatchSize int `mapstructure:"batch_size"`
}

// SampleConfig holds configuration for sample feed generation.
type SampleConfig struct {
	// Output is the path the generated feed is written to.
	Output string `mapstructure:"output"`

	// Rows is the number of feed rows to generate.
	Rows int `mapstructure:"rows"`

	// Seed makes generation reproducible; 0 picks a random seed.
	Seed uint64 `mapstructure:"seed"`

	// DirtyRatio is the fraction of rows given the malformed-field
	// noise the loader must tolerate (semicolon suffixes, blanks).
	DirtyRatio float64 `mapstructure:"dirty_ratio"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Load: LoadConfig{
			Input:     "data.tsv",
			BatchSize: 1000,
		},
		Sample: SampleConfig{
			Output:     "data.tsv",
			Rows:       1000,
			DirtyRatio: 0.1,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retailreport.yaml
// 3. ~/.config/retailreport/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("retailreport")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retailreport"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Load.Input == "" {
		return fmt.Errorf("input feed file is required")
	}
	if c.Load.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	return nil
}

// ValidateSample checks configuration required for the sample command.
func (c *Config) ValidateSample() error {
	if c.Sample.Output == "" {
		return fmt.Errorf("output file is required")
	}
	if c.Sample.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Sample.DirtyRatio < 0 || c.Sample.DirtyRatio > 1 {
		return fmt.Errorf("dirty_ratio must be between 0 and 1")
	}
	return nil
}
