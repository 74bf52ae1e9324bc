// Package config loads the application configuration from an optional YAML
// file with environment-variable overrides. Secrets are env-only.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Hume struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		APIKey         string `yaml:"-"`
	} `yaml:"hume"`

	Groq struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"-"`
	} `yaml:"groq"`

	Storage struct {
		Database string `yaml:"database"`
	} `yaml:"storage"`

	Limits struct {
		MaxUploadMB int `yaml:"max_upload_mb"`
	} `yaml:"limits"`

	Workers struct {
		Count     int `yaml:"count"`
		QueueSize int `yaml:"queue_size"`
	} `yaml:"workers"`

	Dashboard struct {
		UserName string `yaml:"user_name"`
		JoinDate string `yaml:"join_date"`
	} `yaml:"dashboard"`
}

// Load reads the YAML file at path when it exists, applies defaults and env
// overrides, and validates required secrets.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.Hume.APIKey == "" {
		return nil, fmt.Errorf("config: HUME_API_KEY environment variable is required")
	}
	if cfg.Groq.APIKey == "" {
		return nil, fmt.Errorf("config: GROQ_API_KEY environment variable is required")
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Hume.TimeoutSeconds = 300
	cfg.Storage.Database = "pitchcoach.db"
	cfg.Limits.MaxUploadMB = 50
	cfg.Workers.Count = 2
	cfg.Workers.QueueSize = 100
	cfg.Dashboard.UserName = "Pitch Coach User"
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.Hume.APIKey = os.Getenv("HUME_API_KEY")
	cfg.Groq.APIKey = os.Getenv("GROQ_API_KEY")

	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if db := os.Getenv("DATABASE_PATH"); db != "" {
		cfg.Storage.Database = db
	}
	if raw := os.Getenv("ANALYSIS_TIMEOUT_SECONDS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.Hume.TimeoutSeconds = parsed
		}
	}
	if raw := os.Getenv("MAX_UPLOAD_MB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.Limits.MaxUploadMB = parsed
		}
	}
}
