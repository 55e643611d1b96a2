// Package config has the configuration for the feeds converter
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment is the deployment environment the converter runs in
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment maps ENV values, including long aliases, to an Environment
func ParseEnvironment(value string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", value)
}

// Config holds all converter configuration
type Config struct {
	Env               Environment
	LogLevel          string
	LogDir            string // Empty disables file logging
	LogRetentionWeeks int    // Number of weeks to keep log files
	FeedsDir          string // Directory scanned for feed files
	MetricsFile       string // Prometheus textfile, empty disables export
	MarkdownTables    bool
	MarkdownColumns   int
}

// Default values used when a variable is unset or invalid
const (
	DefaultLogRetentionWeeks = 4
	DefaultFeedsDir          = "."
	DefaultMarkdownColumns   = 4
)

// Load loads and validates configuration from environment variables.
// The returned Config is always usable: an invalid value is replaced by its
// default and reported in the returned error, so a bad variable never stops
// a conversion run.
func Load() (*Config, error) {
	var errs []error

	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid ENV: %w", err))
	}

	markdownTables, err := getBoolEnvWithDefault("MARKDOWN_TABLES", false)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid MARKDOWN_TABLES: %w", err))
		markdownTables = false
	}

	cfg := &Config{
		Env:               env,
		LogLevel:          getEnvWithDefault("LOG_LEVEL", ""),
		LogDir:            os.Getenv("LOG_DIR"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", DefaultLogRetentionWeeks),
		FeedsDir:          getEnvWithDefault("FEEDS_DIR", DefaultFeedsDir),
		MetricsFile:       os.Getenv("METRICS_FILE"),
		MarkdownTables:    markdownTables,
		MarkdownColumns:   getIntEnvWithDefault("MARKDOWN_COLUMNS", DefaultMarkdownColumns),
	}

	errs = append(errs, validateConfig(cfg)...)

	if len(errs) > 0 {
		return cfg, fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return cfg, nil
}

// validateConfig validates all configuration values and resets the invalid
// ones to their defaults
func validateConfig(cfg *Config) []error {
	var errs []error

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
		cfg.LogLevel = ""
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err))
		cfg.LogRetentionWeeks = DefaultLogRetentionWeeks
	}

	if strings.TrimSpace(cfg.FeedsDir) == "" {
		errs = append(errs, fmt.Errorf("invalid FEEDS_DIR: directory cannot be blank"))
		cfg.FeedsDir = DefaultFeedsDir
	}

	if err := validateMarkdownColumns(cfg.MarkdownColumns); err != nil {
		errs = append(errs, fmt.Errorf("invalid MARKDOWN_COLUMNS: %w", err))
		cfg.MarkdownColumns = DefaultMarkdownColumns
	}

	return errs
}

// validateLogLevel validates the LOG_LEVEL environment variable.
// An empty level lets the environment pick the console level.
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return nil
	}

	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

func validateMarkdownColumns(columns int) error {
	if columns < 1 || columns > 12 {
		return fmt.Errorf("MARKDOWN_COLUMNS must be between 1 and 12, got: %d", columns)
	}
	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value.
// Unparsable values are returned as -1 so validation rejects them.
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return -1
		}
		return intValue
	}
	return defaultValue
}

func getBoolEnvWithDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(strings.TrimSpace(value))
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"FEEDS_DIR",
		"METRICS_FILE",
		"MARKDOWN_TABLES",
		"MARKDOWN_COLUMNS",
	}
}
