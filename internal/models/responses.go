// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package models

import "time"

// APIError is the JSON error body for non-2xx responses.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// HealthResponse reports overall service health plus per-dependency status.
// Status is "ok" or "degraded"; dependencies report "connected" or "error".
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

// PublishResponse is returned on a successful publish (201).
type PublishResponse struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Checksum    string    `json:"checksum"` // "sha256:" + hex
	PublishedAt time.Time `json:"published_at"`
	Providers   []string  `json:"providers"`
}

// SkillVersionDetail is the full version view embedded in SkillResponse.
type SkillVersionDetail struct {
	Version     string                 `json:"version"`
	Description string                 `json:"description"`
	Checksum    string                 `json:"checksum"`
	SizeBytes   int64                  `json:"size_bytes"`
	PublishedAt time.Time              `json:"published_at"`
	Providers   []string               `json:"providers"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// SkillResponse is the detail view for GET /skills/{name}.
type SkillResponse struct {
	Name           string              `json:"name"`
	Owner          string              `json:"owner"`
	OwnerAvatarURL string              `json:"owner_avatar_url,omitempty"`
	Downloads      int64               `json:"downloads"`
	StarsCount     int64               `json:"stars_count"`
	StarredByMe    bool                `json:"starred_by_me"`
	Category       string              `json:"category,omitempty"`
	ReadmeHTML     string              `json:"readme_html,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	LatestVersion  *SkillVersionDetail `json:"latest_version"`
}

// SkillVersionSummary is one entry in the version listing.
type SkillVersionSummary struct {
	Version     string    `json:"version"`
	Checksum    string    `json:"checksum"`
	SizeBytes   int64     `json:"size_bytes"`
	PublishedAt time.Time `json:"published_at"`
	Providers   []string  `json:"providers"`
}

// SkillVersionsResponse is the body for GET /skills/{name}/versions.
type SkillVersionsResponse struct {
	Name     string                `json:"name"`
	Versions []SkillVersionSummary `json:"versions"`
}

// SearchResultItem is one row in a search response.
type SearchResultItem struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Owner          string    `json:"owner"`
	OwnerAvatarURL string    `json:"owner_avatar_url,omitempty"`
	Downloads      int64     `json:"downloads"`
	StarsCount     int64     `json:"stars_count"`
	LatestVersion  string    `json:"latest_version"`
	Category       string    `json:"category,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
	Tags           []string  `json:"tags"`
	Providers      []string  `json:"providers"`
}

// SearchResponse is the body for GET /skills.
//
// Total counts the results on the returned page after tag/provider
// filtering, not the global filtered count.
type SearchResponse struct {
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
	Results []SearchResultItem `json:"results"`
}

// StarResponse is the body for star/unstar operations.
type StarResponse struct {
	Starred    bool  `json:"starred"`
	StarsCount int64 `json:"stars_count"`
}

// CategoryItem is one entry in the category listing, with its live skill count.
type CategoryItem struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Icon       string `json:"icon,omitempty"`
	SkillCount int64  `json:"skill_count"`
}

// CategoriesResponse is the body for GET /categories.
type CategoriesResponse struct {
	Categories []CategoryItem `json:"categories"`
}

// UserSkillItem is one skill owned by a user in the profile view.
type UserSkillItem struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Downloads     int64     `json:"downloads"`
	StarsCount    int64     `json:"stars_count"`
	LatestVersion string    `json:"latest_version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserResponse is the body for GET /users/{username}.
type UserResponse struct {
	Username       string          `json:"username"`
	DisplayName    string          `json:"display_name,omitempty"`
	AvatarURL      string          `json:"avatar_url,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Skills         []UserSkillItem `json:"skills"`
	TotalDownloads int64           `json:"total_downloads"`
	TotalStars     int64           `json:"total_stars"`
}

// GitHubAuthRequest is the body for POST /auth/github.
type GitHubAuthRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// GitHubAuthResponse is returned by a successful identity exchange.
type GitHubAuthResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	APIToken    string `json:"api_token"`
}
