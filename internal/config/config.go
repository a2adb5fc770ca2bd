// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

// Package config loads quiver configuration with the standard
// precedence: flag > environment > file > defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// Config is the top-level quiver configuration.
type Config struct {
	DBPath       string       `mapstructure:"db_path"`
	DefaultModel string       `mapstructure:"default_model"`
	BatchSize    int          `mapstructure:"batch_size"`
	Encodings    []string     `mapstructure:"encodings"`
	Models       ModelsConfig `mapstructure:"models"`
	Server       ServerConfig `mapstructure:"server"`
	Verbose      bool         `mapstructure:"verbose"`
}

// ModelsConfig holds per-model credentials and tuning.
type ModelsConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Google GoogleConfig `mapstructure:"google"`
	Hash   HashConfig   `mapstructure:"hash"`
}

// OpenAIConfig configures the OpenAI embedding model.
type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	Batch      int    `mapstructure:"batch"`
}

// GoogleConfig configures the Gemini embedding model.
type GoogleConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	Batch      int    `mapstructure:"batch"`
}

// HashConfig configures the offline hash model.
type HashConfig struct {
	Dimensions int `mapstructure:"dimensions"`
}

// ServerConfig controls the REST server.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// SetDefaults installs default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "quiver.db")
	v.SetDefault("default_model", "hash-32")
	v.SetDefault("batch_size", 100)
	v.SetDefault("encodings", []string{"utf-8", "iso-8859-1"})
	v.SetDefault("models.openai.model", "text-embedding-3-small")
	v.SetDefault("models.openai.dimensions", 1536)
	v.SetDefault("models.google.model", "gemini-embedding-001")
	v.SetDefault("models.google.dimensions", 768)
	v.SetDefault("models.hash.dimensions", 32)
	v.SetDefault("server.listen", "127.0.0.1:18790")
}

// SetupEnv binds QUIVER_* environment variables, e.g.
// QUIVER_MODELS_OPENAI_API_KEY.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("QUIVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, quiverr.Errorf(quiverr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return quiverr.New(quiverr.CodeConfigValidateInvalidValue, "db_path must not be empty")
	}
	if c.BatchSize < 0 {
		return quiverr.Errorf(quiverr.CodeConfigValidateInvalidValue, "batch_size must be non-negative, got %d", c.BatchSize)
	}
	if c.DefaultModel == "" {
		return quiverr.New(quiverr.CodeConfigValidateInvalidValue, "default_model must not be empty")
	}
	return nil
}
