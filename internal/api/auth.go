// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/agentskills/registry/internal/database"
	"github.com/agentskills/registry/internal/models"
)

type userContextKey struct{}

// userFromContext returns the authenticated user, or nil on anonymous
// requests.
func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey{}).(*models.User)
	return u
}

// bearerToken extracts the token from an Authorization header. Empty
// string means no usable credentials.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireAuth rejects requests without a valid API token.
func (rt *Router) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(r, w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized", nil)
			return
		}
		user, err := rt.store.UserByToken(r.Context(), token)
		if errors.Is(err, database.ErrNotFound) {
			respondError(r, w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized", nil)
			return
		}
		if err != nil {
			respondInternal(r, w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth resolves a token when one is presented but lets anonymous
// requests through.
func (rt *Router) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := rt.store.UserByToken(r.Context(), token)
		if err != nil {
			// Invalid tokens degrade to anonymous on read endpoints.
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
