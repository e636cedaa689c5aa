// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer gho_valid" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 12345, "login": "octocat", "name": "The Octocat", "avatar_url": "https://example.com/a.png"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	info, err := c.User(context.Background(), "gho_valid")
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if info.ID != 12345 || info.Login != "octocat" {
		t.Errorf("unexpected identity: %+v", info)
	}
	if info.Name != "The Octocat" || info.AvatarURL != "https://example.com/a.png" {
		t.Errorf("unexpected profile fields: %+v", info)
	}

	if _, err := c.User(context.Background(), "gho_bogus"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("User with bad token = %v, want ErrUnauthorized", err)
	}
}

func TestUserServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.User(context.Background(), "tok"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("User on 502 = %v, want ErrUnauthorized", err)
	}
}
