// internal/config/load.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VENTAGENT_"

// Load reads a YAML config file, applies environment overrides and defaults.
// Validation is left to the caller (Validate).
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	Normalize(cfg)
	return cfg, nil
}

// applyEnv overrides secrets and deployment-specific values.
// Credentials are expected here rather than in the file.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	str("BROKER_HOST", &cfg.Broker.Host)
	str("BROKER_USERNAME", &cfg.Broker.Username)
	str("BROKER_PASSWORD", &cfg.Broker.Password)
	str("BROKER_CA_FILE", &cfg.Broker.CAFile)
	str("FIELDBUS_PORT", &cfg.FieldBus.Port)
	str("FIELDBUS_MODE", &cfg.FieldBus.Mode)
	str("LOG_LEVEL", &cfg.Log.Level)

	if v, ok := lookup(EnvPrefix + "BROKER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sBROKER_PORT: %w", EnvPrefix, err)
		}
		cfg.Broker.Port = port
	}

	return nil
}
