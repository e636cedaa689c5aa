// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentskills/registry/internal/database"
	"github.com/agentskills/registry/internal/models"
)

// StarSkill handles POST /skills/{name}/star.
func (rt *Router) StarSkill(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	user := userFromContext(r.Context())

	skill, err := rt.store.SkillByName(r.Context(), name)
	if errors.Is(err, database.ErrNotFound) {
		respondError(r, w, http.StatusNotFound, codeNotFound,
			fmt.Sprintf("Skill '%s' not found", name), nil)
		return
	}
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	count, err := rt.store.Star(r.Context(), user.ID, skill.ID)
	if errors.Is(err, database.ErrAlreadyStarred) {
		respondError(r, w, http.StatusConflict, codeConflict, "Already starred", nil)
		return
	}
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.StarResponse{Starred: true, StarsCount: count})
}

// UnstarSkill handles DELETE /skills/{name}/star.
func (rt *Router) UnstarSkill(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	user := userFromContext(r.Context())

	skill, err := rt.store.SkillByName(r.Context(), name)
	if errors.Is(err, database.ErrNotFound) {
		respondError(r, w, http.StatusNotFound, codeNotFound,
			fmt.Sprintf("Skill '%s' not found", name), nil)
		return
	}
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	count, err := rt.store.Unstar(r.Context(), user.ID, skill.ID)
	if errors.Is(err, database.ErrNotStarred) {
		respondError(r, w, http.StatusNotFound, codeNotFound, "Not starred", nil)
		return
	}
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.StarResponse{Starred: false, StarsCount: count})
}

// ListCategories handles GET /categories.
func (rt *Router) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := rt.store.CategoriesWithCounts(r.Context())
	if err != nil {
		respondInternal(r, w, err)
		return
	}
	if items == nil {
		items = []models.CategoryItem{}
	}
	respondJSON(w, http.StatusOK, models.CategoriesResponse{Categories: items})
}

// GetUser handles GET /users/{username}: the public profile plus the
// user's published skills and aggregate counters.
func (rt *Router) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := rt.store.UserByUsername(r.Context(), username)
	if errors.Is(err, database.ErrNotFound) {
		respondError(r, w, http.StatusNotFound, codeNotFound,
			fmt.Sprintf("User '%s' not found", username), nil)
		return
	}
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	skills, err := rt.store.SkillsByOwner(r.Context(), user.ID)
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	items := make([]models.UserSkillItem, 0, len(skills))
	var totalDownloads, totalStars int64
	for i := range skills {
		skill := &skills[i]
		totalDownloads += skill.Downloads
		totalStars += skill.StarsCount

		latest, err := rt.store.LatestVersion(r.Context(), skill.ID)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			respondInternal(r, w, err)
			return
		}

		items = append(items, models.UserSkillItem{
			Name:          skill.Name,
			Description:   metadataString(latest.Metadata, "description"),
			Downloads:     skill.Downloads,
			StarsCount:    skill.StarsCount,
			LatestVersion: latest.Version,
			UpdatedAt:     skill.UpdatedAt,
		})
	}

	respondJSON(w, http.StatusOK, models.UserResponse{
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		AvatarURL:      user.AvatarURL,
		Bio:            user.Bio,
		CreatedAt:      user.CreatedAt,
		Skills:         items,
		TotalDownloads: totalDownloads,
		TotalStars:     totalStars,
	})
}
