// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agentskills/registry/internal/models"
)

// CategoryByName looks a category up by its unique slug.
func (s *Store) CategoryByName(ctx context.Context, name string) (*models.Category, error) {
	start := time.Now()
	var (
		c           models.Category
		description sql.NullString
		icon        sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name, label, description, icon, sort_order
		FROM categories WHERE name = ?`), name).
		Scan(&c.ID, &c.Name, &c.Label, &description, &icon, &c.SortOrder)
	observe("category_by_name", start, ignoreNotFound(translateNoRows(err)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.Description = description.String
	c.Icon = icon.String
	return &c, nil
}

// CategoryByID resolves a category ID to its record.
func (s *Store) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	start := time.Now()
	var (
		c           models.Category
		description sql.NullString
		icon        sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name, label, description, icon, sort_order
		FROM categories WHERE id = ?`), id).
		Scan(&c.ID, &c.Name, &c.Label, &description, &icon, &c.SortOrder)
	observe("category_by_id", start, ignoreNotFound(translateNoRows(err)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.Description = description.String
	c.Icon = icon.String
	return &c, nil
}

// CategoriesWithCounts lists all categories in sort order with a live
// count of the skills assigned to each.
func (s *Store) CategoriesWithCounts(ctx context.Context) ([]models.CategoryItem, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT c.name, c.label, c.icon, COUNT(sk.id)
		FROM categories c
		LEFT JOIN skills sk ON sk.category_id = c.id
		GROUP BY c.id, c.name, c.label, c.icon, c.sort_order
		ORDER BY c.sort_order`))
	observe("categories_with_counts", start, err)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryItem
	for rows.Next() {
		var (
			item models.CategoryItem
			icon sql.NullString
		)
		if err := rows.Scan(&item.Name, &item.Label, &icon, &item.SkillCount); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		item.Icon = icon.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// translateNoRows maps sql.ErrNoRows to ErrNotFound for metric filtering.
func translateNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
