package xfer

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds operator defaults loaded from a YAML file, the way
// Tanq16-danzo and ligustah-slurp load their CLI configuration.
// Per-invocation flags in cmd/xferctl override these.
type Config struct {
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	MaxChunkSize   int64             `yaml:"max_chunk_size"`
	Headers        map[string]string `yaml:"headers"`
	LogFile        string            `yaml:"log_file"`
	LogMaxSizeMB   int               `yaml:"log_max_size_mb"`
	LogMaxBackups  int               `yaml:"log_max_backups"`
}

// DefaultConfig returns the engine's built-in defaults.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds: 30,
		MaxChunkSize:   4 * 1024 * 1024,
	}
}

// LoadConfig reads a YAML config file, falling back to DefaultConfig
// for any field the file omits.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
