// internal/config/config.go - Configuration management
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OutputConfig contains output formatting configuration.
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	Directory   string `mapstructure:"directory"`
	Compression bool   `mapstructure:"compression"`
	Pretty      bool   `mapstructure:"pretty"`
	Metadata    bool   `mapstructure:"metadata"`
}

// BatchConfig contains batch processing configuration.
type BatchConfig struct {
	Concurrency int  `mapstructure:"concurrency"`
	FailOnError bool `mapstructure:"fail_on_error"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Verbose bool   `mapstructure:"verbose"`
}

// Load loads configuration from viper's bound sources.
func Load() (*Config, error) {
	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults() {
	viper.SetDefault("output.format", "geojson")
	viper.SetDefault("output.pretty", true)
	viper.SetDefault("output.compression", false)
	viper.SetDefault("output.metadata", false)

	viper.SetDefault("batch.concurrency", 10)
	viper.SetDefault("batch.fail_on_error", false)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.verbose", false)
}

// Validate validates the configuration structure and values.
func Validate(config *Config) error {
	if err := validateOutput(&config.Output); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}

	if err := validateBatch(&config.Batch); err != nil {
		return fmt.Errorf("batch configuration invalid: %w", err)
	}

	if err := validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging configuration invalid: %w", err)
	}

	return nil
}

func validateOutput(config *OutputConfig) error {
	validFormats := []string{"geojson", "json"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid format: %s, must be one of %v", config.Format, validFormats)
	}
	return nil
}

func validateBatch(config *BatchConfig) error {
	if config.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if config.Concurrency > 1000 {
		return fmt.Errorf("concurrency must not exceed 1000")
	}
	return nil
}

func validateLogging(config *LoggingConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("invalid level: %s, must be one of %v", config.Level, validLevels)
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
