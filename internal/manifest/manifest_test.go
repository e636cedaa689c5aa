// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package manifest

import (
	"errors"
	"strings"
	"testing"
)

const validManifest = `---
name: "test-skill"
version: "1.2.3"
description: "A test skill"
author: "dev"
tags: [testing, automation]
license: "MIT"
compatibility: "Designed for Claude Code"
custom_key: "preserved"
---
# Test Skill

Body content here.
`

func TestParseValid(t *testing.T) {
	parsed, err := Parse(validManifest)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.Name != "test-skill" {
		t.Errorf("expected name test-skill, got %q", parsed.Name)
	}
	if parsed.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", parsed.Version)
	}
	if parsed.Author != "dev" {
		t.Errorf("expected author dev, got %q", parsed.Author)
	}
	if len(parsed.Tags) != 2 || parsed.Tags[0] != "testing" {
		t.Errorf("unexpected tags: %v", parsed.Tags)
	}
	if parsed.License != "MIT" {
		t.Errorf("expected license MIT, got %q", parsed.License)
	}
	if parsed.Compatibility != "Designed for Claude Code" {
		t.Errorf("unexpected compatibility: %q", parsed.Compatibility)
	}
	if !strings.HasPrefix(parsed.Body, "# Test Skill") {
		t.Errorf("unexpected body start: %q", parsed.Body)
	}
}

func TestParsePreservesUnknownKeys(t *testing.T) {
	parsed, err := Parse(validManifest)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Metadata["custom_key"] != "preserved" {
		t.Errorf("expected unknown key preserved, got %v", parsed.Metadata["custom_key"])
	}
	// Known keys remain in the metadata mapping too
	if parsed.Metadata["name"] != "test-skill" {
		t.Errorf("expected name in metadata, got %v", parsed.Metadata["name"])
	}
}

func TestParseErrors(t *testing.T) {
	manifest := func(fields string) string {
		return "---\n" + fields + "\n---\nbody\n"
	}
	base := "name: ok-skill\nversion: 1.0.0\ndescription: fine\nauthor: dev"

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"no frontmatter", "# just markdown\n", "Field 'name' is required"},
		{"missing name", manifest("version: 1.0.0\ndescription: d\nauthor: a"), "Field 'name' is required"},
		{"non-string name", manifest("name: 123\nversion: 1.0.0\ndescription: d\nauthor: a"), "Field 'name' is required"},
		{"short name", manifest("name: ab\nversion: 1.0.0\ndescription: d\nauthor: a"), "3-64"},
		{"long name", manifest("name: " + strings.Repeat("a", 65) + "\nversion: 1.0.0\ndescription: d\nauthor: a"), "3-64"},
		{"uppercase name", manifest("name: BadName\nversion: 1.0.0\ndescription: d\nauthor: a"), "[a-z0-9-]"},
		{"consecutive hyphens", manifest("name: bad--name\nversion: 1.0.0\ndescription: d\nauthor: a"), "consecutive"},
		{"leading hyphen", manifest("name: \"-bad\"\nversion: 1.0.0\ndescription: d\nauthor: a"), "hyphen"},
		{"trailing hyphen", manifest("name: bad-\nversion: 1.0.0\ndescription: d\nauthor: a"), "hyphen"},
		{"missing version", manifest("name: ok-skill\ndescription: d\nauthor: a"), "Field 'version' is required"},
		{"short semver", manifest("name: ok-skill\nversion: \"1.0\"\ndescription: d\nauthor: a"), "semver"},
		{"garbage semver", manifest("name: ok-skill\nversion: banana\ndescription: d\nauthor: a"), "semver"},
		{"missing description", manifest("name: ok-skill\nversion: 1.0.0\nauthor: a"), "Field 'description' is required"},
		{"long description", manifest("name: ok-skill\nversion: 1.0.0\ndescription: " + strings.Repeat("x", 257) + "\nauthor: a"), "1-256"},
		{"missing author", manifest("name: ok-skill\nversion: 1.0.0\ndescription: d"), "Field 'author' is required"},
		{"tags not list", manifest(base + "\ntags: nope"), "must be a list"},
		{"too many tags", manifest(base + "\ntags: [a1,a2,a3,a4,a5,a6,a7,a8,a9,b1,b2]"), "max 10"},
		{"bad tag chars", manifest(base + "\ntags: [UPPER]"), "[a-z0-9-]{1,32}"},
		{"long tag", manifest(base + "\ntags: [" + strings.Repeat("t", 33) + "]"), "[a-z0-9-]{1,32}"},
		{"unterminated frontmatter", "---\nname: x\n", "Unterminated"},
		{"invalid yaml", "---\nname: [unclosed\n---\nbody", "YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantMsg)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected message containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestParseSemverVariants(t *testing.T) {
	versions := map[string]bool{
		"1.0.0":           true,
		"0.0.1":           true,
		"2.1.3-beta.1":    true,
		"1.0.0+build.5":   true,
		"1.0.0-rc.1+meta": true,
		"1.0":             false,
		"1":               false,
		"v1.0.0":          false,
		"1.0.0.0":         false,
	}

	for v, ok := range versions {
		err := ValidateVersion(v)
		if ok && err != nil {
			t.Errorf("ValidateVersion(%q) unexpectedly failed: %v", v, err)
		}
		if !ok && err == nil {
			t.Errorf("ValidateVersion(%q) unexpectedly passed", v)
		}
	}
}

func TestParseBoundaryLengths(t *testing.T) {
	// 3 and 64 char names are accepted; 256 char description is accepted.
	ok := "---\nname: " + strings.Repeat("a", 64) + "\nversion: 1.0.0\ndescription: " +
		strings.Repeat("d", 256) + "\nauthor: dev\n---\n"
	if _, err := Parse(ok); err != nil {
		t.Fatalf("boundary-length manifest rejected: %v", err)
	}
	if err := ValidateName("abc"); err != nil {
		t.Errorf("3-char name rejected: %v", err)
	}
}

func TestParseEmptyBody(t *testing.T) {
	content := "---\nname: ok-skill\nversion: 1.0.0\ndescription: d\nauthor: a\n---"
	parsed, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Body != "" {
		t.Errorf("expected empty body, got %q", parsed.Body)
	}
}
