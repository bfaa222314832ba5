package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment keys read through GetConfigValue.
const (
	EnvSchema   = "COEF_SCHEMA"
	EnvLogLevel = "COEF_LOG_LEVEL"
)

// DefaultSchemaFile is the schema file name used when nothing else is set.
const DefaultSchemaFile = "skill_coefficients.json"

// Config is the in-memory representation of ~/.coef/coef.yaml.
type Config struct {
	SchemaPath  string        `yaml:"schema_path"`
	LogLevel    string        `yaml:"log_level,omitempty"`
	LockTimeout time.Duration `yaml:"lock_timeout,omitempty"`
}

// CoefDir returns the absolute path to ~/.coef/.
func CoefDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".coef"), nil
}

// ConfigPath returns the absolute path to ~/.coef/coef.yaml.
func ConfigPath() (string, error) {
	dir, err := CoefDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "coef.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the default Config written on first coef init.
func DefaultConfig() (*Config, error) {
	dir, err := CoefDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		SchemaPath:  filepath.Join(dir, DefaultSchemaFile),
		LogLevel:    "info",
		LockTimeout: 5 * time.Second,
	}, nil
}

// Load reads and parses ~/.coef/coef.yaml.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	cfg.SchemaPath, err = ExpandPath(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}
	if cfg.LockTimeout < 0 {
		return nil, fmt.Errorf("invalid lock_timeout in %s: %s", path, cfg.LockTimeout)
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing config file yields
// DefaultConfig instead of an error.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig()
	}
	return nil, err
}

// Save marshals cfg and writes it to ~/.coef/coef.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// ResolveSchemaPath picks the schema file to use.
//
// Precedence: flag, then COEF_SCHEMA (environment, then ~/.coef/.env), then
// schema_path from cfg, then ~/.coef/skill_coefficients.json.
func ResolveSchemaPath(flag string, cfg *Config) (string, error) {
	p := flag
	if p == "" {
		v, err := GetConfigValue(EnvSchema)
		if err != nil {
			return "", err
		}
		p = v
	}
	if p == "" && cfg != nil {
		p = cfg.SchemaPath
	}
	if p == "" {
		dir, err := CoefDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, DefaultSchemaFile), nil
	}
	return ExpandPath(p)
}

// ResolveLogLevel returns COEF_LOG_LEVEL if set, else the configured level.
func ResolveLogLevel(cfg *Config) (string, error) {
	v, err := GetConfigValue(EnvLogLevel)
	if err != nil {
		return "", err
	}
	if v != "" {
		return v, nil
	}
	if cfg != nil && cfg.LogLevel != "" {
		return cfg.LogLevel, nil
	}
	return "info", nil
}
