package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"abtest/domain/abtest"
	"abtest/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	API      APIConfig     `yaml:"api"`
	Analysis abtest.Params `yaml:"analysis"`
	Batch    BatchConfig   `yaml:"batch"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ServerConfig holds web UI server settings
type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

// APIConfig holds JSON API server settings
type APIConfig struct {
	Port               string   `yaml:"port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// BatchConfig holds workbook batch processing settings
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		API: APIConfig{
			Port:               "8081",
			CORSAllowedOrigins: []string{"http://localhost:4200", "http://localhost:8080"},
		},
		Analysis: abtest.DefaultParams(),
		Batch: BatchConfig{
			Concurrency: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables, and validates the result
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(config, path); err != nil {
			return nil, errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

func applyEnv(config *Config) {
	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("GIN_MODE", config.Server.GinMode)

	config.API.Port = getEnvOrDefault("API_PORT", config.API.Port)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.API.CORSAllowedOrigins = splitList(origins)
	}

	config.Analysis.Alpha = getEnvFloatOrDefault("ALPHA", config.Analysis.Alpha)
	config.Analysis.Power = getEnvFloatOrDefault("POWER", config.Analysis.Power)
	config.Analysis.ConfidenceLevel = getEnvFloatOrDefault("CONFIDENCE_LEVEL", config.Analysis.ConfidenceLevel)

	config.Batch.Concurrency = getEnvIntOrDefault("BATCH_CONCURRENCY", config.Batch.Concurrency)
	config.Logging.Level = getEnvOrDefault("LOG_LEVEL", config.Logging.Level)
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.API.Port == "" {
		return errors.ConfigInvalid("API port is required")
	}
	if config.Batch.Concurrency <= 0 {
		return errors.ConfigInvalid("batch concurrency must be positive")
	}
	return config.Analysis.Validate()
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
