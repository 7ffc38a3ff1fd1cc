package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads a YAML config file and expands environment variables.
// An empty path yields an empty config.
func Load(path string) (*ProcessorConfig, error) {
	var cfg ProcessorConfig
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config, overlays the process environment and
// applies default values.
func LoadWithDefaults(path string) (*ProcessorConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies env and defaults, and validates.
func LoadAndValidate(path string) (*ProcessorConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields with deployment environment variables.
// Unset or empty variables leave the field unchanged.
func (c *ProcessorConfig) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("KAFKA_SERVER"); ok {
		c.Kafka.Brokers = splitList(v)
	}
	if v, ok := get("KAFKA_TOPIC"); ok {
		c.Kafka.Topic = v
	}
	if v, ok := get("POSTGRESQL_HOST"); ok {
		c.Database.Host = v
	}
	if v, ok := get("POSTGRESQL_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POSTGRESQL_PORT: invalid port %q", v)
		}
		c.Database.Port = port
	}
	if v, ok := get("POSTGRESQL_DATABASE"); ok {
		c.Database.Name = v
	}
	if v, ok := get("POSTGRESQL_USER"); ok {
		c.Database.User = v
	}
	// Passwords are taken verbatim.
	if v, ok := lookup("POSTGRESQL_PASSWORD"); ok && v != "" {
		c.Database.Password = v
	}
	if v, ok := get("CUSTOM_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("CHECKPOINT_DIR"); ok {
		c.Checkpoint.Dir = v
	}
	if v, ok := get("METRICS_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("METRICS_PORT: invalid port %q", v)
		}
		c.Metrics.Port = port
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
