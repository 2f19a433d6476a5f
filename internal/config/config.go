package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort        = "8080"
	defaultOllamaModel = "llava"
)

// Config is the service configuration.
type Config struct {
	Port    string  `yaml:"port"`
	Mode    string  `yaml:"mode"`
	Debug   bool    `yaml:"debug"`
	Ollama  Ollama  `yaml:"ollama"`
	Metrics Metrics `yaml:"metrics"`
}

// Ollama configures the inference server.
type Ollama struct {
	// Host takes the OLLAMA_HOST forms. Empty leaves the choice to the
	// Ollama client, which defaults to 127.0.0.1:11434.
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// Metrics toggles the /metrics endpoint.
type Metrics struct {
	Enabled *bool `yaml:"enabled"`
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// Release reports whether gin should run in release mode.
func (c *Config) Release() bool {
	return c.Mode == "prod" && !c.Debug
}

// MetricsEnabled reports whether the /metrics endpoint is served.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// Load reads the optional YAML file at path and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.Ollama.Host = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.Ollama.Model = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse DEBUG=%q: %w", v, err)
		}
		cfg.Debug = b
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse METRICS_ENABLED=%q: %w", v, err)
		}
		cfg.Metrics.Enabled = &b
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = defaultOllamaModel
	}
}
