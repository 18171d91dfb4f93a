// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Package config provides layered application configuration: struct
// defaults, an optional YAML file, then environment variables, loaded
// through koanf.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/wayfare-io/wayfare/internal/artifact"
	"github.com/wayfare-io/wayfare/internal/recommend"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
	Artifacts ArtifactsConfig  `koanf:"artifacts"`
	Encoder   EncoderConfig    `koanf:"encoder"`
	Recommend recommend.Config `koanf:"recommend"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed cross-origin hosts. Empty disables CORS.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimit is the per-IP request budget per RateLimitWindow.
	RateLimit       int           `koanf:"rate_limit"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ArtifactsConfig names the precomputed artifact files. File names are
// resolved relative to Dir unless absolute.
type ArtifactsConfig struct {
	Dir               string `koanf:"dir"`
	ContentVectors    string `koanf:"content_vectors"`
	StructuralVectors string `koanf:"structural_vectors"`
	CollabVectors     string `koanf:"collab_vectors"`
	Catalog           string `koanf:"catalog"`
	Graph             string `koanf:"graph"`
}

// Paths resolves the vector and catalog artifact paths.
func (a ArtifactsConfig) Paths() artifact.Paths {
	return artifact.Paths{
		ContentVectors:    a.resolve(a.ContentVectors),
		StructuralVectors: a.resolve(a.StructuralVectors),
		CollabVectors:     a.resolve(a.CollabVectors),
		Catalog:           a.resolve(a.Catalog),
	}
}

// GraphPath resolves the knowledge-graph artifact path.
func (a ArtifactsConfig) GraphPath() string {
	return a.resolve(a.Graph)
}

func (a ArtifactsConfig) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.Dir, name)
}

// EncoderConfig configures the external query-embedding service.
type EncoderConfig struct {
	URL              string        `koanf:"url"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`
}

// Validate checks the configuration for startup-fatal problems.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Artifacts.Dir == "" {
		return fmt.Errorf("artifacts.dir is required")
	}
	for name, v := range map[string]string{
		"artifacts.content_vectors":    c.Artifacts.ContentVectors,
		"artifacts.structural_vectors": c.Artifacts.StructuralVectors,
		"artifacts.collab_vectors":     c.Artifacts.CollabVectors,
		"artifacts.catalog":            c.Artifacts.Catalog,
		"artifacts.graph":              c.Artifacts.Graph,
	} {
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.Encoder.URL == "" {
		return fmt.Errorf("encoder.url is required")
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}
