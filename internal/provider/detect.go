// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package provider classifies skill bundles against the closed provider
// taxonomy: claude, gemini, codex, copilot, cursor, windsurf, antigravity,
// and generic.
//
// Detection draws on two evidence sources: keywords in the manifest's
// compatibility string and well-known provider paths in the bundle's member
// list. The taxonomy is deliberately closed; adding a provider is a code
// change, not a data change.
package provider

import (
	"sort"
	"strings"

	"github.com/agentskills/registry/internal/manifest"
)

// Generic is the fallback provider tag when no evidence matches.
const Generic = "generic"

// rule binds one provider tag to its detection evidence. Indicators ending
// in "/" are directory prefixes; others match whole paths exactly.
type rule struct {
	tag        string
	keywords   []string
	indicators []string
}

// rules is the full detection table. Order is irrelevant; the result set is
// sorted before return.
var rules = []rule{
	{
		tag:        "claude",
		keywords:   []string{"claude"},
		indicators: []string{".claude/", "CLAUDE.md"},
	},
	{
		tag:        "gemini",
		keywords:   []string{"gemini"},
		indicators: []string{".gemini/", "GEMINI.md"},
	},
	{
		tag:        "codex",
		keywords:   []string{"codex", "openai"},
		indicators: []string{".codex/", "AGENTS.md"},
	},
	{
		tag:        "copilot",
		keywords:   []string{"copilot"},
		indicators: []string{".github/copilot-instructions.md", ".github/skills/", ".github/agents/"},
	},
	{
		tag:        "cursor",
		keywords:   []string{"cursor"},
		indicators: []string{".cursor/", ".cursorrules"},
	},
	{
		tag:        "windsurf",
		keywords:   []string{"windsurf", "codeium"},
		indicators: []string{".windsurf/", ".windsurfrules"},
	},
	{
		tag:        "antigravity",
		keywords:   []string{"antigravity"},
		indicators: []string{".antigravity/"},
	},
}

// Detect returns the sorted set of providers targeted by a bundle, derived
// from the manifest compatibility string and the archive member paths.
// Returns ["generic"] when neither source yields a match. Detection is
// deterministic and independent of member-path order.
func Detect(compatibility string, memberPaths []string) []string {
	hits := make(map[string]bool)

	compat := strings.ToLower(compatibility)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if compat != "" && strings.Contains(compat, kw) {
				hits[r.tag] = true
				break
			}
		}
	}

	for _, path := range memberPaths {
		normalized := normalizePath(path)
		for _, r := range rules {
			if hits[r.tag] {
				continue
			}
			for _, indicator := range r.indicators {
				if matchIndicator(normalized, indicator) {
					hits[r.tag] = true
					break
				}
			}
		}
	}

	if len(hits) == 0 {
		return []string{Generic}
	}

	providers := make([]string, 0, len(hits))
	for tag := range hits {
		providers = append(providers, tag)
	}
	sort.Strings(providers)
	return providers
}

// normalizePath strips any leading "./" segments from a member path.
func normalizePath(path string) string {
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return path
}

// matchIndicator applies the indicator semantics: directory indicators
// (trailing "/") match any path under them or the bare directory itself;
// file indicators match exactly.
func matchIndicator(path, indicator string) bool {
	if strings.HasSuffix(indicator, "/") {
		return strings.HasPrefix(path, indicator) || path == strings.TrimSuffix(indicator, "/")
	}
	return path == indicator
}

// Normalize dedupes, trims, and sorts a publisher-supplied provider list.
// A publisher override is authoritative; it is not validated against the
// taxonomy, only canonicalized.
func Normalize(providers []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(providers))
	for _, p := range providers {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ValidateConstraints applies provider-specific cross-field rules.
// Claude-compatible skills may not carry "claude" or "anthropic" in their
// name (case-insensitive).
func ValidateConstraints(name string, providers []string) error {
	for _, p := range providers {
		if p != "claude" {
			continue
		}
		lowered := strings.ToLower(name)
		if strings.Contains(lowered, "claude") || strings.Contains(lowered, "anthropic") {
			return manifest.Errorf(
				"Skill name '%s' cannot contain 'anthropic' or 'claude' for Claude-compatible skills", name)
		}
	}
	return nil
}
