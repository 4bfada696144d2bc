package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"facturx/internal/facturx"
	"facturx/internal/logger"
)

type Config struct {
	// Factur-X Configuration
	Profile         string
	OutputDir       string
	XSDPath         string
	DefaultCountry  string
	DefaultCurrency string
	Jobs            int
	MetricsFile     string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		Profile:         getEnv("FACTURX_PROFILE", string(facturx.ProfileEN16931)),
		OutputDir:       getEnv("FACTURX_OUTPUT_DIR", "output"),
		XSDPath:         getEnv("FACTURX_XSD_PATH", ""),
		MetricsFile:     getEnv("FACTURX_METRICS_FILE", ""),
		DefaultCountry:  strings.ToUpper(getEnv("FACTURX_DEFAULT_COUNTRY", "FR")),
		DefaultCurrency: strings.ToUpper(getEnv("FACTURX_DEFAULT_CURRENCY", "EUR")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:       getEnv("LOG_OUTPUT", "stderr"),
	}

	jobs, err := strconv.Atoi(getEnv("FACTURX_JOBS", "4"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: FACTURX_JOBS: %w", err)
	}
	config.Jobs = jobs

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when the environment cannot be
// loaded.
func Default() *Config {
	return &Config{
		Profile:         string(facturx.ProfileEN16931),
		OutputDir:       "output",
		DefaultCountry:  "FR",
		DefaultCurrency: "EUR",
		Jobs:            4,
		LogLevel:        "info",
		LogFormat:       "console",
		LogTimeFormat:   "2006-01-02T15:04:05Z07:00",
		LogOutput:       "stderr",
	}
}

func (c *Config) validate() error {
	if _, err := facturx.ParseProfile(c.Profile); err != nil {
		return fmt.Errorf("FACTURX_PROFILE: %w", err)
	}
	if len(c.DefaultCountry) != 2 {
		return fmt.Errorf("FACTURX_DEFAULT_COUNTRY must be an ISO 3166-1 alpha-2 code, got %q", c.DefaultCountry)
	}
	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("FACTURX_DEFAULT_CURRENCY must be an ISO 4217 code, got %q", c.DefaultCurrency)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("FACTURX_JOBS must be at least 1")
	}
	return nil
}

// GetProfile returns the parsed Factur-X profile.
func (c *Config) GetProfile() facturx.Profile {
	p, err := facturx.ParseProfile(c.Profile)
	if err != nil {
		return facturx.ProfileEN16931
	}
	return p
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
