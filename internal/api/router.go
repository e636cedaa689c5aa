// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package api implements the registry's HTTP surface: the publish
// pipeline, skill and version reads, search, stars, categories, user
// profiles, the GitHub token exchange, and health. Routing is chi;
// responses are JSON except bundle downloads.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentskills/registry/internal/config"
	"github.com/agentskills/registry/internal/database"
	"github.com/agentskills/registry/internal/github"
	"github.com/agentskills/registry/internal/middleware"
	"github.com/agentskills/registry/internal/storage"
)

// Router owns the handler dependencies and builds the HTTP mux.
type Router struct {
	cfg     *config.Config
	store   *database.Store
	storage storage.Storage
	github  *github.Client
}

// NewRouter wires the API against its backing services.
func NewRouter(cfg *config.Config, store *database.Store, blobs storage.Storage, gh *github.Client) *Router {
	return &Router{cfg: cfg, store: store, storage: blobs, github: gh}
}

// Routes builds the chi mux. The API mounts under the configured prefix
// (default /v1); /metrics stays at the root for scrapers.
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Checksum-SHA256"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route(rt.cfg.Server.APIPrefix, func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", rt.Health)
		r.Post("/auth/github", rt.GitHubAuth)

		r.Get("/skills", rt.SearchSkills)
		r.With(rt.RequireAuth).Post("/skills/publish", rt.Publish)

		r.Route("/skills/{name}", func(r chi.Router) {
			r.With(rt.OptionalAuth).Get("/", rt.GetSkill)
			r.Get("/versions", rt.ListVersions)
			r.Get("/versions/{version}/download", rt.Download)
			r.With(rt.RequireAuth).Post("/star", rt.StarSkill)
			r.With(rt.RequireAuth).Delete("/star", rt.UnstarSkill)
		})

		r.Get("/categories", rt.ListCategories)
		r.Get("/users/{username}", rt.GetUser)
	})

	return r
}
