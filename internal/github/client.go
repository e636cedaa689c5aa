// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package github holds the minimal GitHub API client used by the
// token-exchange flow. The registry never stores GitHub tokens; it only
// resolves one to an identity at login time.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnauthorized indicates GitHub rejected the access token.
var ErrUnauthorized = errors.New("github: invalid access token")

// UserInfo is the subset of the GitHub /user response the registry needs.
type UserInfo struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Client resolves GitHub access tokens to user identities.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client against baseURL (https://api.github.com in
// production; tests point it at an httptest server).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// User fetches the authenticated user's identity for accessToken.
// Returns ErrUnauthorized when GitHub answers with a non-200 status.
func (c *Client) User(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github user request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnauthorized
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode github user: %w", err)
	}
	return &info, nil
}
