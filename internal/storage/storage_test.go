// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package storage

import (
	"context"
	"errors"
	"testing"
)

func TestBundleKey(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{"code-review", "1.0.0", "code-review/1.0.0.tar.gz"},
		{"pdf", "0.1.0-beta.1", "pdf/0.1.0-beta.1.tar.gz"},
	}
	for _, tt := range tests {
		if got := BundleKey(tt.name, tt.version); got != tt.expected {
			t.Errorf("BundleKey(%q, %q) = %q, want %q", tt.name, tt.version, got, tt.expected)
		}
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "missing/1.0.0.tar.gz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}

	data := []byte{0x1f, 0x8b, 0x08, 0x00}
	key := BundleKey("code-review", "1.0.0")
	if err := m.Put(ctx, key, data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Get = %v, want %v", got, data)
	}

	// Mutating the returned slice must not corrupt the stored object.
	got[0] = 0xff
	again, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after mutation: %v", err)
	}
	if again[0] != 0x1f {
		t.Error("stored object mutated through returned slice")
	}

	if err := m.Health(ctx); err != nil {
		t.Errorf("Health = %v, want nil", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestMemoryOverwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	key := BundleKey("pdf", "1.0.0")

	if err := m.Put(ctx, key, []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := m.Put(ctx, key, []byte("v2")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	got, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get = %q, want %q", got, "v2")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}
