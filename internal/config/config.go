package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the platform simulator.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Exporter  ExporterConfig  `yaml:"exporter"`
	Agent     AgentConfig     `yaml:"agent"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// TelemetryConfig tunes the synthetic generator and the stores it feeds.
type TelemetryConfig struct {
	AlertRetention time.Duration `yaml:"alertRetention"`
	HistoryLimit   int           `yaml:"historyLimit"`
	LogTail        int           `yaml:"logTail"`
}

// OpenAIConfig configures the optional LLM-backed diagnosis stages. The
// pipeline degrades to the deterministic path when APIKey is empty.
type OpenAIConfig struct {
	APIKey  string        `yaml:"apiKey"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// ExporterConfig controls the Prometheus gauge refresh loop.
type ExporterConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// AgentConfig controls the in-process alert polling agent.
type AgentConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PollInterval time.Duration `yaml:"pollInterval"`
}

// CacheConfig controls caching of incident analyses by alert id.
type CacheConfig struct {
	Enabled     bool          `yaml:"enabled"`
	AnalysisTTL time.Duration `yaml:"analysisTTL"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("PLATFORM_SIM_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			AllowedOrigins:  []string{"*"},
			GracefulTimeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			AlertRetention: 5 * time.Minute,
			HistoryLimit:   100,
			LogTail:        50,
		},
		OpenAI: OpenAIConfig{
			Model:   "gpt-4o-mini",
			Timeout: 15 * time.Second,
		},
		Exporter: ExporterConfig{
			Enabled:  true,
			Schedule: "@every 2s",
		},
		Agent: AgentConfig{
			Enabled:      false,
			PollInterval: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:     true,
			AnalysisTTL: 2 * time.Minute,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLATFORM_SIM_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("PLATFORM_SIM_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("PLATFORM_SIM_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("PLATFORM_SIM_ALERT_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Telemetry.AlertRetention = d
		}
	}
	if v := os.Getenv("PLATFORM_SIM_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Telemetry.HistoryLimit = n
		}
	}
	if v := os.Getenv("PLATFORM_SIM_LOG_TAIL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Telemetry.LogTail = n
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("PLATFORM_SIM_OPENAI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OpenAI.Timeout = d
		}
	}
	if v := os.Getenv("PLATFORM_SIM_EXPORTER_ENABLED"); v != "" {
		cfg.Exporter.Enabled = isTrue(v)
	}
	if v := os.Getenv("PLATFORM_SIM_EXPORTER_SCHEDULE"); v != "" {
		cfg.Exporter.Schedule = v
	}
	if v := os.Getenv("PLATFORM_SIM_AGENT_ENABLED"); v != "" {
		cfg.Agent.Enabled = isTrue(v)
	}
	if v := os.Getenv("PLATFORM_SIM_AGENT_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Agent.PollInterval = d
		}
	}
	if v := os.Getenv("PLATFORM_SIM_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = isTrue(v)
	}
	if v := os.Getenv("PLATFORM_SIM_CACHE_ANALYSIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.AnalysisTTL = d
		}
	}
	if v := os.Getenv("PLATFORM_SIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PLATFORM_SIM_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
}

func isTrue(v string) bool {
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
