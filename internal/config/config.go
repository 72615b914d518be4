// Package config loads the TOML configuration file for the tagging
// pipeline. Missing files and missing keys fall back to defaults, so a
// fresh install works with no configuration at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	// Database configures the SQLite catalogue store.
	Database DatabaseConfig `toml:"database"`

	// Embedding configures the Ollama embedding service.
	Embedding EmbeddingConfig `toml:"embedding"`

	// Tika configures the optional Apache Tika fallback extractor.
	Tika TikaConfig `toml:"tika"`

	// Pipeline configures batch processing behaviour.
	Pipeline PipelineConfig `toml:"pipeline"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	// DataDir is the directory holding the database file. Empty means
	// ~/.filetagger/data.
	DataDir string `toml:"data_dir"`
}

// EmbeddingConfig configures the embedding service.
type EmbeddingConfig struct {
	// BaseURL is the Ollama API base URL.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// Dimensions is the embedding vector size.
	Dimensions int `toml:"dimensions"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// TikaConfig configures the Apache Tika fallback extractor.
type TikaConfig struct {
	// Enabled turns the Tika fallback on.
	Enabled bool `toml:"enabled"`

	// ServerURL is the Tika server base URL.
	ServerURL string `toml:"server_url"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RequestsPerSecond rate-limits calls to the server.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// PipelineConfig configures batch processing.
type PipelineConfig struct {
	// Mount is the local mount path of the file server root.
	Mount string `toml:"mount"`

	// MaxSizeMB is the per-file size ceiling in megabytes.
	MaxSizeMB float64 `toml:"max_size_mb"`

	// TextLengthThreshold is the minimum extracted text length to embed.
	TextLengthThreshold int `toml:"text_length_threshold"`

	// TesseractCmd is the OCR binary name or path.
	TesseractCmd string `toml:"tesseract_cmd"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "all-minilm",
			Dimensions:     384,
			TimeoutSeconds: 60,
		},
		Tika: TikaConfig{
			ServerURL:         "http://localhost:9998",
			TimeoutSeconds:    60,
			RequestsPerSecond: 4,
		},
		Pipeline: PipelineConfig{
			MaxSizeMB:           200,
			TextLengthThreshold: 250,
			TesseractCmd:        "tesseract",
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.filetagger/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".filetagger", "config.toml"), nil
}

// Load reads the config file at path, layered over the defaults. An
// empty path means the default location; a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// EmbeddingTimeout returns the embedding timeout as a duration.
func (c Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.Embedding.TimeoutSeconds) * time.Second
}

// TikaTimeout returns the Tika timeout as a duration.
func (c Config) TikaTimeout() time.Duration {
	return time.Duration(c.Tika.TimeoutSeconds) * time.Second
}
