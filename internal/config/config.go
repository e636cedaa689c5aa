// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package config provides centralized configuration for the registry server.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Environment surface:
//   - DATABASE_URL: Relational store DSN (postgres://... or sqlite://...)
//   - S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION
//   - MAX_BUNDLE_SIZE: Compressed bundle limit in bytes (default 52428800)
//   - MAX_DECOMPRESSED_SIZE: Tar expansion limit in bytes (default 209715200)
//   - API_PREFIX: HTTP path prefix (default /v1)
//   - CORS_ORIGINS: Comma-separated allowed origins
//   - SERVER_HOST, SERVER_PORT, LOG_LEVEL, LOG_FORMAT
//
// Config is immutable after Load() and safe for concurrent read access
// from multiple goroutines.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment
// variables and config files.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Storage  StorageConfig  `koanf:"storage"`
	Server   ServerConfig   `koanf:"server"`
	Limits   LimitsConfig   `koanf:"limits"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds relational store settings.
//
// The URL scheme selects the driver: postgres:// (pgx) for production,
// sqlite:// or a bare file path for development and tests.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"` // 0 = 4 * NumCPU
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// StorageConfig holds object storage (S3 / MinIO) settings.
type StorageConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	// UsePathStyle forces path-style addressing, required by MinIO.
	UsePathStyle bool `koanf:"use_path_style"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	APIPrefix       string        `koanf:"api_prefix"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// GitHubAPIURL is the upstream identity endpoint base; overridable for tests.
	GitHubAPIURL string `koanf:"github_api_url"`
}

// LimitsConfig bounds bundle ingestion resource usage.
//
// MaxBundleSize caps the compressed upload body; MaxDecompressedSize caps
// the cumulative tar expansion. Both are enforced before any filesystem
// write beyond the request-scoped workspace.
type LimitsConfig struct {
	MaxBundleSize       int64 `koanf:"max_bundle_size"`
	MaxDecompressedSize int64 `koanf:"max_decompressed_size"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", c.Server.Port)
	}
	if !strings.HasPrefix(c.Server.APIPrefix, "/") {
		return fmt.Errorf("api prefix must start with '/', got %q", c.Server.APIPrefix)
	}
	if c.Limits.MaxBundleSize <= 0 {
		return fmt.Errorf("max bundle size must be positive, got %d", c.Limits.MaxBundleSize)
	}
	if c.Limits.MaxDecompressedSize < c.Limits.MaxBundleSize {
		return fmt.Errorf("max decompressed size %d must be >= max bundle size %d",
			c.Limits.MaxDecompressedSize, c.Limits.MaxBundleSize)
	}
	return nil
}
