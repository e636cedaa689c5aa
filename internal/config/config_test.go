// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package config

import (
	"strings"
	"testing"
)

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env      string
		expected string
	}{
		{"DATABASE_URL", "database.url"},
		{"S3_ENDPOINT", "storage.endpoint"},
		{"S3_ACCESS_KEY", "storage.access_key"},
		{"S3_BUCKET", "storage.bucket"},
		{"MAX_BUNDLE_SIZE", "limits.max_bundle_size"},
		{"MAX_DECOMPRESSED_SIZE", "limits.max_decompressed_size"},
		{"API_PREFIX", "server.api_prefix"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},     // unrelated env vars are dropped
		{"HOSTNAME", ""}, // unrelated env vars are dropped
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.expected)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:?cache=shared")
	t.Setenv("S3_BUCKET", "test-bucket")
	t.Setenv("MAX_BUNDLE_SIZE", "1048576")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv(ConfigPathEnvVar, "/nonexistent/config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.URL != "sqlite://file::memory:?cache=shared" {
		t.Errorf("unexpected database URL: %q", cfg.Database.URL)
	}
	if cfg.Storage.Bucket != "test-bucket" {
		t.Errorf("unexpected bucket: %q", cfg.Storage.Bucket)
	}
	if cfg.Limits.MaxBundleSize != 1048576 {
		t.Errorf("unexpected max bundle size: %d", cfg.Limits.MaxBundleSize)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != "https://a.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.Server.CORSOrigins)
	}
	// Untouched settings keep defaults
	if cfg.Server.APIPrefix != "/v1" {
		t.Errorf("expected default API prefix /v1, got %q", cfg.Server.APIPrefix)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := defaultConfig()
		c.Database.URL = "postgres://dev@localhost/skills"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing database url", func(c *Config) { c.Database.URL = "" }, "DATABASE_URL"},
		{"missing bucket", func(c *Config) { c.Storage.Bucket = "" }, "S3_BUCKET"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"bad prefix", func(c *Config) { c.Server.APIPrefix = "v1" }, "prefix"},
		{"zero bundle size", func(c *Config) { c.Limits.MaxBundleSize = 0 }, "bundle size"},
		{"inverted limits", func(c *Config) { c.Limits.MaxDecompressedSize = 1 }, "decompressed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
