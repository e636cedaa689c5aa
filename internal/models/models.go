// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package models defines the registry's domain entities and API payloads.
//
// Entities mirror the relational schema (users, categories, skills,
// skill_versions, stars); response types define the JSON wire shapes
// returned by the HTTP API.
package models

import "time"

// User is a registry account. Created on first publish via CLI (username
// and token seeded externally) or on first identity exchange. Username is
// stable once set.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	APIToken    string    `json:"-"` // never serialized
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	GitHubID    int64     `json:"-"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category is a curated, seeded classification bucket. Never mutated at
// runtime by the publish flow.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"` // unique slug
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

// Skill is the registry's primary entity. The name is globally unique,
// doubles as the object-storage key prefix, and cannot be renamed.
type Skill struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OwnerID    string    `json:"owner_id"`
	CategoryID string    `json:"category_id,omitempty"`
	Downloads  int64     `json:"downloads"`
	StarsCount int64     `json:"stars_count"`
	ReadmeHTML string    `json:"readme_html,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SkillVersion is one immutable published version of a skill.
// (skill_id, version) is unique; checksum is the SHA-256 hex of the
// uploaded bundle bytes.
type SkillVersion struct {
	ID          string                 `json:"id"`
	SkillID     string                 `json:"skill_id"`
	Version     string                 `json:"version"`
	BundleKey   string                 `json:"bundle_key"`
	Metadata    map[string]interface{} `json:"metadata"`
	Checksum    string                 `json:"checksum"`
	SizeBytes   int64                  `json:"size_bytes"`
	Providers   []string               `json:"providers"`
	ReadmeRaw   string                 `json:"readme_raw,omitempty"`
	PublishedAt time.Time              `json:"published_at"`
}

// Star is a (user, skill) favorite relation. Insertion increments the
// skill's denormalized stars_count; deletion decrements it (floored at 0).
type Star struct {
	UserID    string    `json:"user_id"`
	SkillID   string    `json:"skill_id"`
	CreatedAt time.Time `json:"created_at"`
}
