// Package config provides configuration loading and structs for the kiku server.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	AI      AIConfig      `yaml:"ai"`
	Limits  LimitsConfig  `yaml:"limits"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig holds HTTP gateway settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AuthConfig holds the gateway credential. Token is required to run the
// server; requests without it are rejected.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// AIConfig holds completion-service settings. An empty APIKey leaves the
// completion client permanently unconfigured; the server still runs.
type AIConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LimitsConfig holds size caps for stored context and uploads.
type LimitsConfig struct {
	MaxTextLength  int   `yaml:"max_text_length"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// StorageConfig holds the context-store backend and the directory used to
// materialize archive-format uploads during extraction.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	TempFileDir string `yaml:"temp_file_dir"`
}

// Load reads and parses the config file at path, applies environment
// overrides, then fills defaults. Returns an error if the file cannot be
// read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(&cfg)
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Resolve loads config from path when the file exists; otherwise it starts
// from an empty config. Environment overrides and defaults apply either way,
// so a config file is optional.
func Resolve(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	var cfg Config
	applyEnv(&cfg)
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// applyEnv overrides config values from environment variables. Unset or
// unparsable variables leave the config untouched.
func applyEnv(cfg *Config) {
	if v := os.Getenv("KIKU_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := os.Getenv("KIKU_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("KIKU_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("KIKU_API_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL_NAME"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("MAX_TEXT_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.MaxTextLength = n
		}
	}
	if v := os.Getenv("KIKU_STORE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TEMP_FILE_DIR"); v != "" {
		cfg.Storage.TempFileDir = v
	}
}
