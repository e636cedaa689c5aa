// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package storage provides the bundle blob store behind the registry.
//
// Bundles live under keys of the form {name}/{version}.tar.gz in a single
// bucket. The production implementation targets S3-compatible object
// storage (AWS S3, MinIO); an in-memory implementation backs tests.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested key does not exist in the store.
var ErrNotFound = errors.New("storage: object not found")

// Storage is the blob interface used by the publish and download paths.
type Storage interface {
	// Put stores data under key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the full object bytes for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Health reports whether the backing store is reachable.
	Health(ctx context.Context) error
}

// BundleKey builds the canonical object key for a skill version.
func BundleKey(name, version string) string {
	return fmt.Sprintf("%s/%s.tar.gz", name, version)
}
