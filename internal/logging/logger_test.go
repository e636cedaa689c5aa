// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"ERROR", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("expected empty correlation ID, got %q", got)
	}

	id := GenerateCorrelationID()
	if len(id) != 8 {
		t.Errorf("expected 8-char correlation ID, got %q", id)
	}

	ctx = ContextWithCorrelationID(ctx, id)
	if got := CorrelationIDFromContext(ctx); got != id {
		t.Errorf("expected %q, got %q", id, got)
	}
}

func TestContextWithNewCorrelationID(t *testing.T) {
	ctx := ContextWithNewCorrelationID(context.Background())

	id := CorrelationIDFromContext(ctx)
	if len(id) != 8 {
		t.Fatalf("expected 8-char generated correlation ID, got %q", id)
	}

	if other := CorrelationIDFromContext(ContextWithNewCorrelationID(context.Background())); other == id {
		t.Errorf("expected distinct IDs per context, got %q twice", id)
	}
}

func TestCtxEnrichesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)

	ctx := ContextWithLogger(context.Background(), logger)
	ctx = ContextWithCorrelationID(ctx, "abcd1234")
	ctx = ContextWithRequestID(ctx, "req-1")

	Ctx(ctx).Info().Msg("enriched")

	out := buf.String()
	if !strings.Contains(out, "abcd1234") {
		t.Errorf("expected correlation ID in output, got %q", out)
	}
	if !strings.Contains(out, "req-1") {
		t.Errorf("expected request ID in output, got %q", out)
	}
}
