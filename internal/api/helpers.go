// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/agentskills/registry/internal/logging"
	"github.com/agentskills/registry/internal/models"
)

// Error codes used in JSON error bodies.
const (
	codeBadRequest      = "bad_request"
	codeValidation      = "validation_error"
	codeUnauthorized    = "unauthorized"
	codeForbidden       = "forbidden"
	codeNotFound        = "not_found"
	codeConflict        = "conflict"
	codePayloadTooLarge = "payload_too_large"
	codeInternal        = "internal_error"
)

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes the error envelope. A non-nil err is logged with
// the request's correlation ID; its text never reaches the client.
func respondError(r *http.Request, w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Err(err).
			Msg("API error")
	}
	respondJSON(w, status, models.ErrorResponse{
		Error: models.APIError{Code: code, Message: message},
	})
}

// respondInternal hides infrastructure failures behind a generic 500.
func respondInternal(r *http.Request, w http.ResponseWriter, err error) {
	respondError(r, w, http.StatusInternalServerError, codeInternal, "Internal server error", err)
}

// sanitizeLogValue strips newlines to prevent log injection.
func sanitizeLogValue(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// queryInt parses an integer query parameter, falling back to def when
// absent. Malformed values return the sentinel -1 so validation can
// reject them.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

// decodeJSONBody decodes a request body into dst, limiting reads to 1 MiB.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}
