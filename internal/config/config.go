package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DataPath        string
	AttachmentsDir  string
	HTTPPort        string
	LogLevel        slog.Level
	LogFormat       string
	SessionSecret   string
	CredentialsFile string
	MaxUploadBytes  int64
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Walk up from the working directory looking for a .env file
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DataPath:        getEnv("DATA_PATH", "./data/prompt_library.csv"),
		AttachmentsDir:  getEnv("ATTACHMENTS_DIR", "./data/screenshots"),
		HTTPPort:        getEnv("HTTP_PORT", "8501"),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		CredentialsFile: getEnv("CREDENTIALS_FILE", ""),
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	maxUploadMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a valid integer: %w", err)
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be greater than 0")
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) << 20

	// Sessions do not survive a restart without a configured secret
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = uuid.NewString()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.AttachmentsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create attachments directory: %w", err)
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
