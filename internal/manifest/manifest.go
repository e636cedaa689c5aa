// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package manifest parses and validates SKILL.md manifests.
//
// A manifest is YAML frontmatter delimited by "---" lines at the top of the
// file, followed by a Markdown body:
//
//	---
//	name: "my-skill"
//	version: "1.2.3"
//	description: "..."
//	author: "username"
//	tags: [t1, t2]
//	---
//	# Body markdown
//
// name, version, description, and author are required and validated;
// unknown frontmatter keys are preserved verbatim in Metadata. Validation
// failures return *ParseError with a message naming the first failing field.
package manifest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// ParseError is a typed validation error for manifest and bundle input.
// The message is safe to surface to API clients.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Errorf builds a *ParseError with a formatted message.
func Errorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// Parsed is a validated SKILL.md manifest.
type Parsed struct {
	Name            string
	Version         string
	Description     string
	Author          string
	Tags            []string
	License         string
	MinAgentVersion string
	Compatibility   string

	// Body is the Markdown content after the frontmatter block.
	Body string

	// Metadata is the full frontmatter mapping, unknown keys included.
	Metadata map[string]interface{}
}

const delimiter = "---"

var (
	nameRe = regexp.MustCompile(`^[a-z0-9-]+$`)
	tagRe  = regexp.MustCompile(`^[a-z0-9-]{1,32}$`)
)

// Parse splits the frontmatter from content, validates the required and
// optional fields, and returns the parsed manifest.
func Parse(content string) (*Parsed, error) {
	meta, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	name := stringField(meta, "name")
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	version := stringField(meta, "version")
	if err := ValidateVersion(version); err != nil {
		return nil, err
	}

	description := stringField(meta, "description")
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	author := stringField(meta, "author")
	if author == "" {
		return nil, Errorf("Field 'author' is required")
	}

	tags, err := tagsField(meta)
	if err != nil {
		return nil, err
	}

	return &Parsed{
		Name:            name,
		Version:         version,
		Description:     description,
		Author:          author,
		Tags:            tags,
		License:         stringField(meta, "license"),
		MinAgentVersion: stringField(meta, "min_agent_version"),
		Compatibility:   stringField(meta, "compatibility"),
		Body:            body,
		Metadata:        meta,
	}, nil
}

// splitFrontmatter separates the YAML frontmatter block from the Markdown
// body. Content without a leading "---" line yields empty metadata and the
// whole input as body; required-field validation then rejects it.
func splitFrontmatter(content string) (map[string]interface{}, string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(normalized, delimiter+"\n") && normalized != delimiter {
		return map[string]interface{}{}, normalized, nil
	}

	rest := strings.TrimPrefix(normalized, delimiter+"\n")
	idx := strings.Index(rest, "\n"+delimiter)
	if idx < 0 {
		return nil, "", Errorf("Unterminated frontmatter block")
	}

	rawMeta := rest[:idx]
	body := rest[idx+len("\n"+delimiter):]
	body = strings.TrimPrefix(body, "\n")

	meta := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(rawMeta), &meta); err != nil {
		return nil, "", Errorf("Invalid YAML frontmatter: %v", err)
	}
	return meta, body, nil
}

// stringField returns the string value for key, or "" when absent or not a string.
func stringField(meta map[string]interface{}, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

// ValidateName enforces the registry naming rules: lowercase [a-z0-9-],
// 3-64 characters, no consecutive hyphens, no leading or trailing hyphen.
func ValidateName(name string) error {
	if name == "" {
		return Errorf("Field 'name' is required")
	}
	if n := utf8.RuneCountInString(name); n < 3 || n > 64 {
		return Errorf("Field 'name' must be 3-64 characters, got %d", n)
	}
	if !nameRe.MatchString(name) {
		return Errorf("Field 'name' must match [a-z0-9-]")
	}
	if strings.Contains(name, "--") {
		return Errorf("Field 'name' must not contain consecutive hyphens '--'")
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return Errorf("Field 'name' must not start or end with a hyphen")
	}
	return nil
}

// ValidateVersion requires a full MAJOR.MINOR.PATCH semver string,
// optionally with pre-release and build metadata. "1.0" is rejected.
func ValidateVersion(version string) error {
	if version == "" {
		return Errorf("Field 'version' is required")
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return Errorf("Field 'version' must be valid semver, got '%s'", version)
	}
	return nil
}

// ValidateDescription requires a 1-256 character description.
func ValidateDescription(description string) error {
	if description == "" {
		return Errorf("Field 'description' is required")
	}
	if n := utf8.RuneCountInString(description); n > 256 {
		return Errorf("Field 'description' must be 1-256 characters, got %d", n)
	}
	return nil
}

// tagsField extracts and validates the optional tags list: up to 10 tags,
// each matching [a-z0-9-]{1,32}.
func tagsField(meta map[string]interface{}) ([]string, error) {
	raw, ok := meta["tags"]
	if !ok || raw == nil {
		return nil, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, Errorf("Field 'tags' must be a list")
	}
	if len(list) > 10 {
		return nil, Errorf("Field 'tags' allows max 10 items, got %d", len(list))
	}

	tags := make([]string, 0, len(list))
	for _, item := range list {
		tag, ok := item.(string)
		if !ok {
			return nil, Errorf("Each tag must be a string, got %T", item)
		}
		if !tagRe.MatchString(tag) {
			return nil, Errorf("Tag '%s' must match [a-z0-9-]{1,32}", tag)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
