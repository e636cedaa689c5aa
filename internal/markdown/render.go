// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package markdown renders SKILL.md bodies to sanitized HTML for skill
// detail pages. Rendering uses GitHub Flavored Markdown (tables, fenced
// code, strikethrough); the output passes through an allowlist sanitizer
// so published skill text can never inject script into a consumer UI.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md     goldmark.Markdown
	policy *bluemonday.Policy
)

func init() {
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	// Allowlist mirrors what the detail page actually renders: headings,
	// inline formatting, links, images, lists, quotes, and tables.
	policy = bluemonday.NewPolicy()
	policy.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"strong", "em", "del", "code", "pre",
		"ul", "ol", "li",
		"blockquote",
		"table", "thead", "tbody", "tr", "th", "td",
		"div", "span",
	)
	policy.AllowAttrs("href", "title", "rel").OnElements("a")
	policy.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	policy.AllowElements("a", "img")
	policy.AllowAttrs("class").OnElements("code", "div", "span", "pre")
	policy.AllowAttrs("align").OnElements("td", "th")
	policy.AllowStandardURLs()
}

// Render converts raw Markdown to sanitized HTML. An empty input renders
// to an empty string.
func Render(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(raw), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}
