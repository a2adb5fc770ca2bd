// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"github.com/spf13/viper"

	"github.com/quiver-dev/quiver/internal/config"
	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/store/sqlite"
)

// loadConfig resolves the effective configuration from the global viper.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// buildRegistry registers every embedding model the configuration can
// back. The offline hash model is always available; remote models join
// only when their API key is configured.
func buildRegistry(cfg *config.Config) (*embed.Registry, error) {
	reg := embed.NewRegistry()
	reg.Register(embed.NewHash(cfg.Models.Hash.Dimensions))

	if cfg.Models.OpenAI.APIKey != "" {
		m, err := embed.NewOpenAI(embed.OpenAIConfig{
			APIKey:     cfg.Models.OpenAI.APIKey,
			BaseURL:    cfg.Models.OpenAI.BaseURL,
			Model:      cfg.Models.OpenAI.Model,
			Dimensions: cfg.Models.OpenAI.Dimensions,
			Batch:      cfg.Models.OpenAI.Batch,
		})
		if err != nil {
			return nil, err
		}
		reg.Register(m)
	}

	if cfg.Models.Google.APIKey != "" {
		m, err := embed.NewGoogle(embed.GoogleConfig{
			APIKey:     cfg.Models.Google.APIKey,
			Model:      cfg.Models.Google.Model,
			Dimensions: cfg.Models.Google.Dimensions,
			Batch:      cfg.Models.Google.Batch,
		})
		if err != nil {
			return nil, err
		}
		reg.Register(m)
	}

	return reg, nil
}

// openStore loads configuration, builds the model registry, and opens
// the sqlite-backed collection store. The caller closes the store.
func openStore() (*config.Config, *embed.Registry, *sqlite.CollectionStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := sqlite.New(cfg.DBPath, reg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, reg, st, nil
}
