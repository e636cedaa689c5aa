// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package validation

import (
	"strings"
	"testing"
)

type authRequest struct {
	GitHubAccessToken string `validate:"required"`
}

type pageRequest struct {
	Page    int `validate:"gte=1"`
	PerPage int `validate:"gte=1,lte=100"`
}

func TestValidateStructPass(t *testing.T) {
	if err := ValidateStruct(&authRequest{GitHubAccessToken: "gho_x"}); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
	if err := ValidateStruct(&pageRequest{Page: 1, PerPage: 20}); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(&authRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := err.Error(); !strings.Contains(got, "GitHubAccessToken is required") {
		t.Errorf("unexpected message: %q", got)
	}
	if len(err.Errors()) != 1 {
		t.Errorf("expected 1 field error, got %d", len(err.Errors()))
	}
	if fe := err.Errors()[0]; fe.Field() != "GitHubAccessToken" || fe.Tag() != "required" {
		t.Errorf("unexpected field error: field=%q tag=%q", fe.Field(), fe.Tag())
	}
}

func TestValidateStructBounds(t *testing.T) {
	err := ValidateStruct(&pageRequest{Page: 0, PerPage: 500})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Page must be greater than or equal to 1") {
		t.Errorf("missing Page message: %q", msg)
	}
	if !strings.Contains(msg, "PerPage must be less than or equal to 100") {
		t.Errorf("missing PerPage message: %q", msg)
	}
	if len(err.Errors()) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(err.Errors()))
	}
}
