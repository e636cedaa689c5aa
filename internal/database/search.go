// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agentskills/registry/internal/models"
)

// SearchParams selects and orders one page of skills. The name match is
// case-insensitive substring; tag and provider filtering happens on the
// caller's side against each skill's latest version.
type SearchParams struct {
	Query      string
	CategoryID string
	Sort       string // "downloads", "stars", "newest", "updated" (default)
	Page       int
	PerPage    int
}

// sortClauses maps the public sort keys to ORDER BY clauses. Only values
// from this table ever reach the SQL text.
var sortClauses = map[string]string{
	"downloads": "downloads DESC",
	"stars":     "stars_count DESC",
	"newest":    "created_at DESC",
	"updated":   "updated_at DESC",
}

// SearchSkills returns one page of skills matching the query and
// category filters.
func (s *Store) SearchSkills(ctx context.Context, p SearchParams) ([]models.Skill, error) {
	start := time.Now()
	skills, err := s.searchSkills(ctx, p)
	observe("search_skills", start, err)
	return skills, err
}

func (s *Store) searchSkills(ctx context.Context, p SearchParams) ([]models.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills`
	var args []interface{}
	var where []string

	if p.Query != "" {
		where = append(where, `LOWER(name) LIKE LOWER(?)`)
		args = append(args, "%"+p.Query+"%")
	}
	if p.CategoryID != "" {
		where = append(where, `category_id = ?`)
		args = append(args, p.CategoryID)
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	order, ok := sortClauses[p.Sort]
	if !ok {
		order = sortClauses["updated"]
	}
	query += " ORDER BY " + order + " LIMIT ? OFFSET ?"
	args = append(args, p.PerPage, (p.Page-1)*p.PerPage)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var (
			sk         models.Skill
			categoryID sql.NullString
			readmeHTML sql.NullString
		)
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.OwnerID, &categoryID, &sk.Downloads,
			&sk.StarsCount, &readmeHTML, &sk.CreatedAt, &sk.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		sk.CategoryID = categoryID.String
		sk.ReadmeHTML = readmeHTML.String
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}
