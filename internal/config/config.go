package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds the client settings. Values come from ~/.parley/config.yml
// when it exists, with environment variables taking precedence.
type Config struct {
	ServerURL string        `env:"PARLEY_SERVER_URL"`
	Timeout   time.Duration `env:"PARLEY_TIMEOUT"`
	LogFile   string        `env:"PARLEY_LOG_FILE"`
}

// UnmarshalYAML fills only the fields present in the file, so defaults
// survive a partial config. Timeout is written as a duration string ("30s").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ServerURL string `yaml:"server_url"`
		Timeout   string `yaml:"timeout"`
		LogFile   string `yaml:"log_file"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.ServerURL != "" {
		c.ServerURL = raw.ServerURL
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", raw.Timeout, err)
		}
		c.Timeout = d
	}
	if raw.LogFile != "" {
		c.LogFile = raw.LogFile
	}
	return nil
}

// Dir returns the path to the parley directory (~/.parley).
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".parley")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL: "http://localhost:3000",
		Timeout:   30 * time.Second,
		LogFile:   filepath.Join(Dir(), "parley.log"),
	}
}

// Load reads the config file at path (or the default location if path is
// empty) and applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(Dir(), "config.yml")
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment config: %w", err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = Default().ServerURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = Default().Timeout
	}
	if cfg.LogFile == "" {
		cfg.LogFile = Default().LogFile
	}

	return cfg, nil
}
