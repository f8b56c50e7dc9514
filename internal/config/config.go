package config

import (
	"os"
	"strconv"
	"time"

	"conversor/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Uploads   UploadConfig
	Session   SessionConfig
	Lifecycle LifecycleConfig
	Database  DatabaseConfig
	Log       LogConfig
	Report    ReportConfig
	IsCloud   bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    int
	GinMode string
}

// UploadConfig controls where uploads land and how big they may be.
type UploadConfig struct {
	Folder       string
	MaxSizeBytes int64
}

// SessionConfig controls result retention and conversion concurrency.
type SessionConfig struct {
	ResultTTL      time.Duration
	PurgeInterval  time.Duration
	MaxConcurrency int64
}

// LifecycleConfig holds idle shutdown and browser settings
type LifecycleConfig struct {
	IdleTimeout   time.Duration
	CheckInterval time.Duration
	OpenBrowser   bool
}

// DatabaseConfig is optional; an empty URL keeps results in memory.
type DatabaseConfig struct {
	URL string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ReportConfig holds the fixed letterhead values of the PDF report.
type ReportConfig struct {
	Formulation string
	Revision    string
	Status      string
	LogoPath    string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Uploads:   loadUploadConfig(),
		Session:   loadSessionConfig(),
		Lifecycle: loadLifecycleConfig(),
		Database:  DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Log:       loadLogConfig(),
		Report:    loadReportConfig(),
		IsCloud:   DetectCloud(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// DetectCloud reports whether the process runs on a hosted platform that
// injects its own port or site identity.
func DetectCloud() bool {
	for _, key := range []string{"WEBSITE_SITE_NAME", "WEBSITE_INSTANCE_ID", "PORT"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvIntOrDefault("PORT", 5000),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		Folder:       getEnvOrDefault("UPLOAD_FOLDER", "uploads"),
		MaxSizeBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 32)) << 20,
	}
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		ResultTTL:      getEnvDurationOrDefault("RESULT_TTL", 30*time.Minute),
		PurgeInterval:  getEnvDurationOrDefault("RESULT_PURGE_INTERVAL", 5*time.Minute),
		MaxConcurrency: int64(getEnvIntOrDefault("MAX_CONCURRENT_CONVERSIONS", 4)),
	}
}

func loadLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		IdleTimeout:   getEnvDurationOrDefault("IDLE_TIMEOUT", 3*time.Minute),
		CheckInterval: getEnvDurationOrDefault("IDLE_CHECK_INTERVAL", time.Minute),
		OpenBrowser:   getEnvBoolOrDefault("OPEN_BROWSER", true),
	}
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:      getEnvOrDefault("LOG_LEVEL", "info"),
		Format:     getEnvOrDefault("LOG_FORMAT", "text"),
		File:       getEnvOrDefault("LOG_FILE", ""),
		MaxSizeMB:  getEnvIntOrDefault("LOG_MAX_SIZE_MB", 10),
		MaxBackups: getEnvIntOrDefault("LOG_MAX_BACKUPS", 3),
		MaxAgeDays: getEnvIntOrDefault("LOG_MAX_AGE_DAYS", 28),
	}
}

func loadReportConfig() ReportConfig {
	return ReportConfig{
		Formulation: getEnvOrDefault("REPORT_FORMULATION", "FOR.2.031"),
		Revision:    getEnvOrDefault("REPORT_REVISION", "Rev. 00"),
		Status:      getEnvOrDefault("REPORT_STATUS", "Aprovado"),
		LogoPath:    getEnvOrDefault("LOGO_PATH", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return errors.ConfigInvalid("PORT must be between 1 and 65535")
	}
	if config.Uploads.Folder == "" {
		return errors.ConfigInvalid("upload folder is required")
	}
	if config.Uploads.MaxSizeBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Session.ResultTTL <= 0 {
		return errors.ConfigInvalid("RESULT_TTL must be positive")
	}
	if config.Session.MaxConcurrency <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_CONVERSIONS must be positive")
	}
	if config.Lifecycle.IdleTimeout <= 0 || config.Lifecycle.CheckInterval <= 0 {
		return errors.ConfigInvalid("idle timeout and check interval must be positive")
	}
	return nil
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
