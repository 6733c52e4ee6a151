package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Fatalf("unexpected server address %s", cfg.Server.Address)
	}
	if cfg.Server.MetricsAddress != ":2112" {
		t.Fatalf("unexpected metrics address %s", cfg.Server.MetricsAddress)
	}
	if cfg.Telemetry.AlertRetention != 5*time.Minute {
		t.Fatalf("unexpected alert retention %s", cfg.Telemetry.AlertRetention)
	}
	if cfg.Telemetry.HistoryLimit != 100 || cfg.Telemetry.LogTail != 50 {
		t.Fatalf("unexpected telemetry defaults: %+v", cfg.Telemetry)
	}
	if !cfg.Exporter.Enabled || cfg.Exporter.Schedule != "@every 2s" {
		t.Fatalf("unexpected exporter defaults: %+v", cfg.Exporter)
	}
	if cfg.Agent.Enabled {
		t.Fatalf("agent must default to disabled")
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model %s", cfg.OpenAI.Model)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  address: ":9090"
  allowedOrigins:
    - "https://dashboard.example.com"
telemetry:
  alertRetention: 10m
  logTail: 25
agent:
  enabled: true
  pollInterval: 2s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Fatalf("unexpected address %s", cfg.Server.Address)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://dashboard.example.com" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Telemetry.AlertRetention != 10*time.Minute {
		t.Fatalf("unexpected retention %s", cfg.Telemetry.AlertRetention)
	}
	if cfg.Telemetry.LogTail != 25 {
		t.Fatalf("unexpected log tail %d", cfg.Telemetry.LogTail)
	}
	if !cfg.Agent.Enabled || cfg.Agent.PollInterval != 2*time.Second {
		t.Fatalf("unexpected agent config: %+v", cfg.Agent)
	}

	// Unset fields keep their defaults.
	if cfg.Server.MetricsAddress != ":2112" {
		t.Fatalf("expected default metrics address, got %s", cfg.Server.MetricsAddress)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLATFORM_SIM_SERVER_ADDRESS", ":7070")
	t.Setenv("PLATFORM_SIM_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("PLATFORM_SIM_ALERT_RETENTION", "90s")
	t.Setenv("PLATFORM_SIM_AGENT_ENABLED", "true")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Address != ":7070" {
		t.Fatalf("unexpected address %s", cfg.Server.Address)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Telemetry.AlertRetention != 90*time.Second {
		t.Fatalf("unexpected retention %s", cfg.Telemetry.AlertRetention)
	}
	if !cfg.Agent.Enabled {
		t.Fatalf("expected agent enabled via env")
	}
	if cfg.OpenAI.APIKey != "test-key" || cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("unexpected openai config: %+v", cfg.OpenAI)
	}
}
