// Package config loads filesum settings from a YAML file.
//
// The file is chosen by, in order: the --config flag, the FILESUM_CONFIG
// environment variable, and the per-user default path when that file
// exists. Without any of them the built-in defaults apply. Command-line
// flags override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"filesum/internal/decode"
	"filesum/internal/manifest"
)

// EnvVar names the environment variable holding a config file path.
const EnvVar = "FILESUM_CONFIG"

// Config holds hashing and output settings.
type Config struct {
	// ChunkSize is the read size in bytes.
	ChunkSize int `yaml:"chunk_size"`

	// Decompress is one of none, auto, gzip, zstd, lz4.
	Decompress string `yaml:"decompress"`

	// Jobs is the number of files hashed concurrently.
	Jobs int `yaml:"jobs"`

	// Progress enables the progress reporter on stderr.
	Progress bool `yaml:"progress"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ManifestFormat is text or cbor.
	ManifestFormat string `yaml:"manifest_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ChunkSize:      64 * 1024,
		Decompress:     "none",
		Jobs:           1,
		LogLevel:       "warn",
		ManifestFormat: "text",
	}
}

// Load resolves and loads the config file. explicit is the --config flag
// value and may be empty.
func Load(explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path != "" {
		return LoadFile(path)
	}

	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if _, err := decode.ParseFormat(c.Decompress); err != nil {
		errs = append(errs, err)
	}
	if _, err := manifest.ParseFormat(c.ManifestFormat); err != nil {
		errs = append(errs, err)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log_level: %q", c.LogLevel))
	}

	return errors.Join(errs...)
}
