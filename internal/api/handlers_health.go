// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/agentskills/registry/internal/logging"
	"github.com/agentskills/registry/internal/models"
)

const healthCheckTimeout = 5 * time.Second

// Health handles GET /health. Always answers 200; a failing dependency
// flips status to "degraded" and names the broken component.
func (rt *Router) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := models.HealthResponse{
		Status:   "ok",
		Database: "connected",
		Storage:  "connected",
	}

	if err := rt.store.Health(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "error"
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Database health check failed")
	}
	if err := rt.storage.Health(ctx); err != nil {
		resp.Status = "degraded"
		resp.Storage = "error"
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Storage health check failed")
	}

	respondJSON(w, http.StatusOK, resp)
}
