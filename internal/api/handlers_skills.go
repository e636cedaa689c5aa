// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agentskills/registry/internal/bundle"
	"github.com/agentskills/registry/internal/database"
	"github.com/agentskills/registry/internal/logging"
	"github.com/agentskills/registry/internal/manifest"
	"github.com/agentskills/registry/internal/markdown"
	"github.com/agentskills/registry/internal/metrics"
	"github.com/agentskills/registry/internal/models"
	"github.com/agentskills/registry/internal/provider"
	"github.com/agentskills/registry/internal/storage"
)

// Publish handles POST /skills/publish: validates the uploaded bundle,
// uploads the blob, and records the version. The blob goes out before
// the row commits; a crash in between leaves an orphan object that the
// next publish of the same version overwrites.
func (rt *Router) Publish(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	user := userFromContext(r.Context())
	maxBundle := rt.cfg.Limits.MaxBundleSize

	file, _, err := r.FormFile("file")
	if err != nil {
		metrics.RecordPublish("rejected", 0, time.Since(start))
		respondError(r, w, http.StatusBadRequest, codeBadRequest, "Missing bundle file", err)
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, maxBundle+1))
	if err != nil {
		metrics.RecordPublish("error", 0, time.Since(start))
		respondInternal(r, w, err)
		return
	}
	if int64(len(fileBytes)) > maxBundle {
		metrics.RecordPublish("rejected", 0, time.Since(start))
		respondError(r, w, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
			fmt.Sprintf("Bundle exceeds %dMB limit", maxBundle/(1024*1024)), nil)
		return
	}

	parsed, memberPaths, err := bundle.ExtractAndParse(fileBytes, rt.cfg.Limits.MaxDecompressedSize)
	if err != nil {
		metrics.RecordPublish("rejected", 0, time.Since(start))
		var parseErr *manifest.ParseError
		if errors.As(err, &parseErr) {
			respondError(r, w, http.StatusBadRequest, codeBadRequest, parseErr.Message, nil)
			return
		}
		respondInternal(r, w, err)
		return
	}

	if parsed.Author != user.Username {
		metrics.RecordPublish("rejected", 0, time.Since(start))
		respondError(r, w, http.StatusBadRequest, codeBadRequest,
			fmt.Sprintf("Author '%s' does not match authenticated user '%s'", parsed.Author, user.Username), nil)
		return
	}

	var providers []string
	if override := r.FormValue("providers"); override != "" {
		providers = provider.Normalize(strings.Split(override, ","))
	} else {
		providers = provider.Detect(parsed.Compatibility, memberPaths)
	}

	if err := provider.ValidateConstraints(parsed.Name, providers); err != nil {
		metrics.RecordPublish("rejected", 0, time.Since(start))
		respondError(r, w, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
		return
	}

	// Unknown categories are dropped silently.
	var categoryID string
	if categoryName := r.FormValue("category"); categoryName != "" {
		cat, err := rt.store.CategoryByName(r.Context(), categoryName)
		switch {
		case err == nil:
			categoryID = cat.ID
		case !errors.Is(err, database.ErrNotFound):
			metrics.RecordPublish("error", 0, time.Since(start))
			respondInternal(r, w, err)
			return
		}
	}

	skill, err := rt.store.SkillByName(r.Context(), parsed.Name)
	switch {
	case err == nil:
		if skill.OwnerID != user.ID {
			metrics.RecordPublish("rejected", 0, time.Since(start))
			respondError(r, w, http.StatusForbidden, codeForbidden,
				fmt.Sprintf("Skill '%s' is owned by another user", parsed.Name), nil)
			return
		}
		_, err := rt.store.VersionBySkillAndVersion(r.Context(), skill.ID, parsed.Version)
		if err == nil {
			metrics.RecordPublish("conflict", 0, time.Since(start))
			respondError(r, w, http.StatusConflict, codeConflict,
				fmt.Sprintf("Version %s already exists", parsed.Version), nil)
			return
		}
		if !errors.Is(err, database.ErrNotFound) {
			metrics.RecordPublish("error", 0, time.Since(start))
			respondInternal(r, w, err)
			return
		}
	case !errors.Is(err, database.ErrNotFound):
		metrics.RecordPublish("error", 0, time.Since(start))
		respondInternal(r, w, err)
		return
	}

	sum := sha256.Sum256(fileBytes)
	checksum := hex.EncodeToString(sum[:])

	bundleKey := storage.BundleKey(parsed.Name, parsed.Version)
	err = rt.storage.Put(r.Context(), bundleKey, fileBytes)
	metrics.RecordStorageOperation("put", err)
	if err != nil {
		metrics.RecordPublish("error", 0, time.Since(start))
		respondInternal(r, w, err)
		return
	}

	fullMetadata := make(map[string]interface{}, len(parsed.Metadata)+1)
	for k, v := range parsed.Metadata {
		fullMetadata[k] = v
	}
	fullMetadata["_registry"] = map[string]interface{}{"providers": providers}

	var readmeHTML string
	if parsed.Body != "" {
		readmeHTML, err = markdown.Render(parsed.Body)
		if err != nil {
			metrics.RecordPublish("error", 0, time.Since(start))
			respondInternal(r, w, err)
			return
		}
	}

	version, err := rt.store.PublishVersion(r.Context(), database.PublishParams{
		SkillName:  parsed.Name,
		OwnerID:    user.ID,
		CategoryID: categoryID,
		Version:    parsed.Version,
		BundleKey:  bundleKey,
		Metadata:   fullMetadata,
		Checksum:   checksum,
		SizeBytes:  int64(len(fileBytes)),
		Providers:  providers,
		ReadmeRaw:  parsed.Body,
		ReadmeHTML: readmeHTML,
	})
	if errors.Is(err, database.ErrVersionExists) {
		metrics.RecordPublish("conflict", 0, time.Since(start))
		respondError(r, w, http.StatusConflict, codeConflict,
			fmt.Sprintf("Version %s already exists", parsed.Version), nil)
		return
	}
	if err != nil {
		metrics.RecordPublish("error", 0, time.Since(start))
		respondInternal(r, w, err)
		return
	}

	metrics.RecordPublish("created", int64(len(fileBytes)), time.Since(start))
	logging.Ctx(r.Context()).Info().
		Str("skill", parsed.Name).
		Str("version", parsed.Version).
		Str("owner", user.Username).
		Int("size_bytes", len(fileBytes)).
		Msg("Skill version published")

	respondJSON(w, http.StatusCreated, models.PublishResponse{
		Name:        parsed.Name,
		Version:     parsed.Version,
		Checksum:    "sha256:" + checksum,
		PublishedAt: version.PublishedAt,
		Providers:   providers,
	})
}

// GetSkill handles GET /skills/{name}.
func (rt *Router) GetSkill(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

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

	resp, err := rt.buildSkillResponse(r, skill)
	if err != nil {
		respondInternal(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// buildSkillResponse assembles the detail view for one skill row.
func (rt *Router) buildSkillResponse(r *http.Request, skill *models.Skill) (*models.SkillResponse, error) {
	ctx := r.Context()

	owner, err := rt.store.UserByID(ctx, skill.OwnerID)
	if err != nil {
		return nil, err
	}

	var categoryName string
	if skill.CategoryID != "" {
		cat, err := rt.store.CategoryByID(ctx, skill.CategoryID)
		if err == nil {
			categoryName = cat.Name
		} else if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
	}

	starredByMe := false
	if user := userFromContext(ctx); user != nil {
		starredByMe, err = rt.store.IsStarred(ctx, user.ID, skill.ID)
		if err != nil {
			return nil, err
		}
	}

	var latestDetail *models.SkillVersionDetail
	latest, err := rt.store.LatestVersion(ctx, skill.ID)
	switch {
	case err == nil:
		latestDetail = &models.SkillVersionDetail{
			Version:     latest.Version,
			Description: metadataString(latest.Metadata, "description"),
			Checksum:    "sha256:" + latest.Checksum,
			SizeBytes:   latest.SizeBytes,
			PublishedAt: latest.PublishedAt,
			Providers:   providersOrGeneric(latest.Providers),
			Metadata:    latest.Metadata,
		}
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}

	return &models.SkillResponse{
		Name:           skill.Name,
		Owner:          owner.Username,
		OwnerAvatarURL: owner.AvatarURL,
		Downloads:      skill.Downloads,
		StarsCount:     skill.StarsCount,
		StarredByMe:    starredByMe,
		Category:       categoryName,
		ReadmeHTML:     skill.ReadmeHTML,
		CreatedAt:      skill.CreatedAt,
		LatestVersion:  latestDetail,
	}, nil
}

// ListVersions handles GET /skills/{name}/versions.
func (rt *Router) ListVersions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

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

	versions, err := rt.store.VersionsBySkill(r.Context(), skill.ID)
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	summaries := make([]models.SkillVersionSummary, 0, len(versions))
	for _, v := range versions {
		summaries = append(summaries, models.SkillVersionSummary{
			Version:     v.Version,
			Checksum:    "sha256:" + v.Checksum,
			SizeBytes:   v.SizeBytes,
			PublishedAt: v.PublishedAt,
			Providers:   providersOrGeneric(v.Providers),
		})
	}

	respondJSON(w, http.StatusOK, models.SkillVersionsResponse{
		Name:     skill.Name,
		Versions: summaries,
	})
}

// Download handles GET /skills/{name}/versions/{version}/download. The
// download counter increments before the blob fetch; a storage failure
// after the increment still counts, keeping the counter non-decreasing.
func (rt *Router) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	versionStr := chi.URLParam(r, "version")

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

	version, err := rt.store.VersionBySkillAndVersion(r.Context(), skill.ID, versionStr)
	if errors.Is(err, database.ErrNotFound) {
		respondError(r, w, http.StatusNotFound, codeNotFound,
			fmt.Sprintf("Version '%s' not found", versionStr), nil)
		return
	}
	if err != nil {
		respondInternal(r, w, err)
		return
	}

	if err := rt.store.IncrementDownloads(r.Context(), skill.ID); err != nil {
		respondInternal(r, w, err)
		return
	}

	data, err := rt.storage.Get(r.Context(), version.BundleKey)
	metrics.RecordStorageOperation("get", err)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, codeInternal,
			"Failed to retrieve bundle from storage", err)
		return
	}

	metrics.RecordDownload()

	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s-%s.tar.gz"`, name, versionStr))
	w.Header().Set("X-Checksum-SHA256", version.Checksum)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write bundle response")
	}
}

// metadataString reads a string field from version metadata.
func metadataString(meta map[string]interface{}, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

// metadataTags reads the tags list from version metadata.
func metadataTags(meta map[string]interface{}) []string {
	raw, ok := meta["tags"].([]interface{})
	if !ok {
		return []string{}
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// providersOrGeneric substitutes the generic fallback for empty lists.
func providersOrGeneric(providers []string) []string {
	if len(providers) == 0 {
		return []string{provider.Generic}
	}
	return providers
}
