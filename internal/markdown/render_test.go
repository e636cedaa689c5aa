// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasic(t *testing.T) {
	got, err := Render("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Title") {
		t.Errorf("missing heading in output: %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("missing bold in output: %q", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	got, err := Render("")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "" {
		t.Errorf("Render(\"\") = %q, want empty", got)
	}
}

func TestRenderStripsScript(t *testing.T) {
	tests := []struct {
		name  string
		input string
		deny  string
	}{
		{"script tag", "hello <script>alert(1)</script> world", "<script"},
		{"onerror attr", `<img src="x" onerror="alert(1)">`, "onerror"},
		{"javascript href", `[link](javascript:alert(1))`, "javascript:"},
		{"iframe", `<iframe src="https://evil.example"></iframe>`, "<iframe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.input)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if strings.Contains(got, tt.deny) {
				t.Errorf("sanitizer let %q through: %q", tt.deny, got)
			}
		})
	}
}

func TestRenderTablesAndCode(t *testing.T) {
	input := "| a | b |\n|---|---|\n| 1 | 2 |\n\n```go\nfmt.Println(\"hi\")\n```\n"
	got, err := Render(input)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("missing table in output: %q", got)
	}
	if !strings.Contains(got, "<pre>") || !strings.Contains(got, "<code") {
		t.Errorf("missing code block in output: %q", got)
	}
}

func TestRenderSafeLinkSurvives(t *testing.T) {
	got, err := Render("[docs](https://example.com/docs)")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, `href="https://example.com/docs"`) {
		t.Errorf("safe link stripped: %q", got)
	}
}
