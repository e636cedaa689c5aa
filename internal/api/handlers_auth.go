// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/agentskills/registry/internal/database"
	"github.com/agentskills/registry/internal/github"
	"github.com/agentskills/registry/internal/logging"
	"github.com/agentskills/registry/internal/models"
	"github.com/agentskills/registry/internal/validation"
)

// newAPIToken mints a registry token: "ask-" plus 48 hex characters.
func newAPIToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api token: %w", err)
	}
	return "ask-" + hex.EncodeToString(buf), nil
}

// GitHubAuth handles POST /auth/github: exchanges a GitHub access token
// for a registry API token. Accounts match by GitHub ID first; an
// unlinked account with the same username (a CLI-seeded user) gets the
// identity attached instead of a duplicate account.
func (rt *Router) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	var req models.GitHubAuthRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(r, w, http.StatusBadRequest, codeBadRequest, "Invalid JSON body", nil)
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(r, w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	info, err := rt.github.User(r.Context(), req.AccessToken)
	if errors.Is(err, github.ErrUnauthorized) {
		respondError(r, w, http.StatusUnauthorized, codeUnauthorized, "Invalid GitHub access token", nil)
		return
	}
	if err != nil {
		respondInternal(r, w, err)
		return
	}
	if info.ID == 0 {
		respondError(r, w, http.StatusBadRequest, codeBadRequest, "Could not retrieve GitHub user ID", nil)
		return
	}

	displayName := info.Name
	if displayName == "" {
		displayName = info.Login
	}

	user, err := rt.store.UserByGitHubID(r.Context(), info.ID)
	switch {
	case err == nil:
		if err := rt.store.UpdateUserProfile(r.Context(), user.ID, displayName, info.AvatarURL); err != nil {
			respondInternal(r, w, err)
			return
		}
		user.DisplayName = displayName
		user.AvatarURL = info.AvatarURL

	case errors.Is(err, database.ErrNotFound):
		user, err = rt.linkOrCreateUser(r, info, displayName)
		if err != nil {
			respondInternal(r, w, err)
			return
		}

	default:
		respondInternal(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.GitHubAuthResponse{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		APIToken:    user.APIToken,
	})
}

// linkOrCreateUser attaches the GitHub identity to an existing account
// with the same username, or creates a fresh account with a new token.
func (rt *Router) linkOrCreateUser(r *http.Request, info *github.UserInfo, displayName string) (*models.User, error) {
	existing, err := rt.store.UserByUsername(r.Context(), info.Login)
	switch {
	case err == nil:
		if err := rt.store.LinkGitHub(r.Context(), existing.ID, info.ID, displayName, info.AvatarURL); err != nil {
			return nil, err
		}
		existing.GitHubID = info.ID
		existing.DisplayName = displayName
		existing.AvatarURL = info.AvatarURL
		logging.Ctx(r.Context()).Info().
			Str("username", existing.Username).
			Msg("Linked GitHub identity to existing account")
		return existing, nil

	case errors.Is(err, database.ErrNotFound):
		token, err := newAPIToken()
		if err != nil {
			return nil, err
		}
		user := &models.User{
			Username:    info.Login,
			APIToken:    token,
			DisplayName: displayName,
			AvatarURL:   info.AvatarURL,
			GitHubID:    info.ID,
		}
		if err := rt.store.CreateUser(r.Context(), user); err != nil {
			return nil, err
		}
		logging.Ctx(r.Context()).Info().
			Str("username", user.Username).
			Msg("Created account from GitHub identity")
		return user, nil

	default:
		return nil, err
	}
}
