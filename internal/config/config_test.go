package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setRequiredKeys(t *testing.T) {
	t.Helper()
	t.Setenv("HUME_API_KEY", "hume-key")
	t.Setenv("GROQ_API_KEY", "groq-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredKeys(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Hume.TimeoutSeconds != 300 {
		t.Fatalf("timeout: got %d", cfg.Hume.TimeoutSeconds)
	}
	if cfg.Storage.Database != "pitchcoach.db" {
		t.Fatalf("database: got %q", cfg.Storage.Database)
	}
	if cfg.Limits.MaxUploadMB != 50 {
		t.Fatalf("upload limit: got %d", cfg.Limits.MaxUploadMB)
	}
	if cfg.Workers.Count != 2 || cfg.Workers.QueueSize != 100 {
		t.Fatalf("workers: got %+v", cfg.Workers)
	}
	if cfg.Hume.APIKey != "hume-key" || cfg.Groq.APIKey != "groq-key" {
		t.Fatalf("keys not taken from env")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	setRequiredKeys(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  addr: ":9090"
hume:
  timeout_seconds: 120
groq:
  model: "llama-3.3-70b-versatile"
storage:
  database: "custom.db"
limits:
  max_upload_mb: 10
dashboard:
  user_name: "Alex Chen"
  join_date: "January 2026"
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Hume.TimeoutSeconds != 120 {
		t.Fatalf("timeout: got %d", cfg.Hume.TimeoutSeconds)
	}
	if cfg.Groq.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("model: got %q", cfg.Groq.Model)
	}
	if cfg.Storage.Database != "custom.db" {
		t.Fatalf("database: got %q", cfg.Storage.Database)
	}
	if cfg.Limits.MaxUploadMB != 10 {
		t.Fatalf("upload limit: got %d", cfg.Limits.MaxUploadMB)
	}
	if cfg.Dashboard.UserName != "Alex Chen" || cfg.Dashboard.JoinDate != "January 2026" {
		t.Fatalf("dashboard: got %+v", cfg.Dashboard)
	}
	// Untouched fields keep their defaults.
	if cfg.Workers.Count != 2 {
		t.Fatalf("workers count: got %d", cfg.Workers.Count)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("DATABASE_PATH", "/tmp/env.db")
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "60")
	t.Setenv("MAX_UPLOAD_MB", "5")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env override lost: got %q", cfg.Server.Addr)
	}
	if cfg.Storage.Database != "/tmp/env.db" {
		t.Fatalf("database: got %q", cfg.Storage.Database)
	}
	if cfg.Hume.TimeoutSeconds != 60 {
		t.Fatalf("timeout: got %d", cfg.Hume.TimeoutSeconds)
	}
	if cfg.Limits.MaxUploadMB != 5 {
		t.Fatalf("upload limit: got %d", cfg.Limits.MaxUploadMB)
	}
}

func TestLoad_InvalidEnvNumbersIgnored(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("MAX_UPLOAD_MB", "-3")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hume.TimeoutSeconds != 300 {
		t.Fatalf("timeout must keep default: got %d", cfg.Hume.TimeoutSeconds)
	}
	if cfg.Limits.MaxUploadMB != 50 {
		t.Fatalf("upload limit must keep default: got %d", cfg.Limits.MaxUploadMB)
	}
}

func TestLoad_MissingAPIKeys(t *testing.T) {
	tests := []struct {
		name string
		hume string
		groq string
		want string
	}{
		{name: "missing hume key", groq: "groq-key", want: "HUME_API_KEY"},
		{name: "missing groq key", hume: "hume-key", want: "GROQ_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HUME_API_KEY", tt.hume)
			t.Setenv("GROQ_API_KEY", tt.groq)

			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q must name %s", err, tt.want)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	setRequiredKeys(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
