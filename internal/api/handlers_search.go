// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package api

import (
	"errors"
	"net/http"

	"github.com/agentskills/registry/internal/database"
	"github.com/agentskills/registry/internal/models"
	"github.com/agentskills/registry/internal/validation"
)

// searchRequest carries the validated pagination bounds.
type searchRequest struct {
	Page    int `validate:"gte=1"`
	PerPage int `validate:"gte=1,lte=100"`
}

// SearchSkills handles GET /skills. The name and category filters run in
// SQL; tag and provider filters apply afterwards against each skill's
// latest version, so the returned total counts the filtered page rather
// than the global match set.
func (rt *Router) SearchSkills(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	req := searchRequest{
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 20),
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(r, w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	// Unknown categories apply no filter.
	var categoryID string
	if categoryName := q.Get("category"); categoryName != "" {
		cat, err := rt.store.CategoryByName(ctx, categoryName)
		switch {
		case err == nil:
			categoryID = cat.ID
		case !errors.Is(err, database.ErrNotFound):
			respondInternal(r, w, err)
			return
		}
	}

	skills, err := rt.store.SearchSkills(ctx, database.SearchParams{
		Query:      q.Get("q"),
		CategoryID: categoryID,
		Sort:       q.Get("sort"),
		Page:       req.Page,
		PerPage:    req.PerPage,
	})
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	tagFilter := q.Get("tag")
	providerFilter := q.Get("provider")

	results := make([]models.SearchResultItem, 0, len(skills))
	for i := range skills {
		skill := &skills[i]

		latest, err := rt.store.LatestVersion(ctx, skill.ID)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			respondInternal(r, w, err)
			return
		}

		tags := metadataTags(latest.Metadata)
		if tagFilter != "" && !containsString(tags, tagFilter) {
			continue
		}

		providers := providersOrGeneric(latest.Providers)
		if providerFilter != "" && !containsString(providers, providerFilter) {
			continue
		}

		owner, err := rt.store.UserByID(ctx, skill.OwnerID)
		if err != nil {
			respondInternal(r, w, err)
			return
		}

		var categoryName string
		if skill.CategoryID != "" {
			cat, err := rt.store.CategoryByID(ctx, skill.CategoryID)
			if err == nil {
				categoryName = cat.Name
			} else if !errors.Is(err, database.ErrNotFound) {
				respondInternal(r, w, err)
				return
			}
		}

		results = append(results, models.SearchResultItem{
			Name:           skill.Name,
			Description:    metadataString(latest.Metadata, "description"),
			Owner:          owner.Username,
			OwnerAvatarURL: owner.AvatarURL,
			Downloads:      skill.Downloads,
			StarsCount:     skill.StarsCount,
			LatestVersion:  latest.Version,
			Category:       categoryName,
			UpdatedAt:      skill.UpdatedAt,
			Tags:           tags,
			Providers:      providers,
		})
	}

	respondJSON(w, http.StatusOK, models.SearchResponse{
		Total:   len(results),
		Page:    req.Page,
		PerPage: req.PerPage,
		Results: results,
	})
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
