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

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/agentskills/registry/internal/models"
)

const skillColumns = `id, name, owner_id, category_id, downloads, stars_count, readme_html, created_at, updated_at`

const versionColumns = `id, skill_id, version, bundle_key, metadata, checksum, size_bytes, providers, readme_raw, published_at`

func scanSkill(row *sql.Row) (*models.Skill, error) {
	var (
		sk         models.Skill
		categoryID sql.NullString
		readmeHTML sql.NullString
	)
	err := row.Scan(&sk.ID, &sk.Name, &sk.OwnerID, &categoryID, &sk.Downloads,
		&sk.StarsCount, &readmeHTML, &sk.CreatedAt, &sk.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan skill: %w", err)
	}
	sk.CategoryID = categoryID.String
	sk.ReadmeHTML = readmeHTML.String
	return &sk, nil
}

type versionScanner interface {
	Scan(dest ...interface{}) error
}

func scanVersion(row versionScanner) (*models.SkillVersion, error) {
	var (
		v         models.SkillVersion
		metaJSON  string
		provJSON  string
		readmeRaw sql.NullString
	)
	err := row.Scan(&v.ID, &v.SkillID, &v.Version, &v.BundleKey, &metaJSON,
		&v.Checksum, &v.SizeBytes, &provJSON, &readmeRaw, &v.PublishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan skill version: %w", err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &v.Metadata); err != nil {
		return nil, fmt.Errorf("decode version metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(provJSON), &v.Providers); err != nil {
		return nil, fmt.Errorf("decode version providers: %w", err)
	}
	v.ReadmeRaw = readmeRaw.String
	return &v, nil
}

// SkillByName looks a skill up by its unique name.
func (s *Store) SkillByName(ctx context.Context, name string) (*models.Skill, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+skillColumns+` FROM skills WHERE name = ?`), name)
	sk, err := scanSkill(row)
	observe("skill_by_name", start, ignoreNotFound(err))
	return sk, err
}

// SkillsByOwner lists a user's skills, most recently updated first.
func (s *Store) SkillsByOwner(ctx context.Context, ownerID string) ([]models.Skill, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+skillColumns+` FROM skills WHERE owner_id = ? ORDER BY updated_at DESC`),
		ownerID)
	observe("skills_by_owner", start, err)
	if err != nil {
		return nil, fmt.Errorf("query skills by owner: %w", err)
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

// VersionBySkillAndVersion fetches one exact version of a skill.
func (s *Store) VersionBySkillAndVersion(ctx context.Context, skillID, version string) (*models.SkillVersion, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+versionColumns+` FROM skill_versions WHERE skill_id = ? AND version = ?`),
		skillID, version)
	v, err := scanVersion(row)
	observe("version_by_skill_version", start, ignoreNotFound(err))
	return v, err
}

// LatestVersion returns the most recently published version of a skill,
// or ErrNotFound when the skill has no versions.
func (s *Store) LatestVersion(ctx context.Context, skillID string) (*models.SkillVersion, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+versionColumns+` FROM skill_versions
		WHERE skill_id = ? ORDER BY published_at DESC, id DESC LIMIT 1`),
		skillID)
	v, err := scanVersion(row)
	observe("latest_version", start, ignoreNotFound(err))
	return v, err
}

// VersionsBySkill lists all versions of a skill, newest first.
func (s *Store) VersionsBySkill(ctx context.Context, skillID string) ([]models.SkillVersion, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+versionColumns+` FROM skill_versions
		WHERE skill_id = ? ORDER BY published_at DESC, id DESC`),
		skillID)
	observe("versions_by_skill", start, err)
	if err != nil {
		return nil, fmt.Errorf("query skill versions: %w", err)
	}
	defer rows.Close()

	var versions []models.SkillVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// PublishParams carries the write set for one publish operation. The
// blob is already uploaded when this runs; the transaction makes the
// version visible.
type PublishParams struct {
	SkillName  string
	OwnerID    string
	CategoryID string // empty keeps the existing category
	Version    string
	BundleKey  string
	Metadata   map[string]interface{}
	Checksum   string
	SizeBytes  int64
	Providers  []string
	ReadmeRaw  string
	ReadmeHTML string
}

// PublishVersion atomically creates the skill row if needed, inserts the
// version, and refreshes the skill's readme cache and updated_at. Returns
// ErrVersionExists when (skill, version) is already taken.
func (s *Store) PublishVersion(ctx context.Context, p PublishParams) (*models.SkillVersion, error) {
	start := time.Now()
	v, err := s.publishVersion(ctx, p)
	observe("publish_version", start, err)
	return v, err
}

func (s *Store) publishVersion(ctx context.Context, p PublishParams) (*models.SkillVersion, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin publish transaction: %w", err)
	}
	defer rollback(tx)

	now := time.Now().UTC()

	var skillID string
	err = tx.QueryRowContext(ctx,
		s.rebind(`SELECT id FROM skills WHERE name = ?`), p.SkillName).Scan(&skillID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		skillID = uuid.New().String()
		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO skills (id, name, owner_id, category_id, downloads, stars_count, readme_html, created_at, updated_at)
			VALUES (?, ?, ?, ?, 0, 0, ?, ?, ?)`),
			skillID, p.SkillName, p.OwnerID, nullString(p.CategoryID),
			nullString(p.ReadmeHTML), now, now)
		if err != nil {
			return nil, fmt.Errorf("insert skill: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("look up skill: %w", err)
	default:
		if p.CategoryID != "" {
			if _, err := tx.ExecContext(ctx,
				s.rebind(`UPDATE skills SET category_id = ? WHERE id = ?`),
				p.CategoryID, skillID); err != nil {
				return nil, fmt.Errorf("update skill category: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			s.rebind(`UPDATE skills SET readme_html = ?, updated_at = ? WHERE id = ?`),
			nullString(p.ReadmeHTML), now, skillID); err != nil {
			return nil, fmt.Errorf("update skill readme: %w", err)
		}
	}

	metaJSON, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode version metadata: %w", err)
	}
	provJSON, err := json.Marshal(p.Providers)
	if err != nil {
		return nil, fmt.Errorf("encode version providers: %w", err)
	}

	v := &models.SkillVersion{
		ID:          uuid.New().String(),
		SkillID:     skillID,
		Version:     p.Version,
		BundleKey:   p.BundleKey,
		Metadata:    p.Metadata,
		Checksum:    p.Checksum,
		SizeBytes:   p.SizeBytes,
		Providers:   p.Providers,
		ReadmeRaw:   p.ReadmeRaw,
		PublishedAt: now,
	}
	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO skill_versions (id, skill_id, version, bundle_key, metadata, checksum, size_bytes, providers, readme_raw, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		v.ID, v.SkillID, v.Version, v.BundleKey, string(metaJSON),
		v.Checksum, v.SizeBytes, string(provJSON), nullString(v.ReadmeRaw), v.PublishedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrVersionExists
		}
		return nil, fmt.Errorf("insert skill version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit publish transaction: %w", err)
	}
	return v, nil
}

// IncrementDownloads bumps the skill's download counter atomically.
func (s *Store) IncrementDownloads(ctx context.Context, skillID string) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE skills SET downloads = downloads + 1 WHERE id = ?`), skillID)
	observe("increment_downloads", start, err)
	if err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}
	return nil
}

// IsStarred reports whether the user has starred the skill.
func (s *Store) IsStarred(ctx context.Context, userID, skillID string) (bool, error) {
	start := time.Now()
	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT 1 FROM stars WHERE user_id = ? AND skill_id = ?`),
		userID, skillID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		observe("is_starred", start, nil)
		return false, nil
	}
	observe("is_starred", start, err)
	if err != nil {
		return false, fmt.Errorf("query star: %w", err)
	}
	return true, nil
}

// Star records a (user, skill) star and increments the denormalized
// counter. Returns ErrAlreadyStarred on a duplicate, with the counter
// untouched, plus the current stars_count.
func (s *Store) Star(ctx context.Context, userID, skillID string) (int64, error) {
	start := time.Now()
	count, err := s.star(ctx, userID, skillID)
	observe("star", start, ignoreStarConflicts(err))
	return count, err
}

func (s *Store) star(ctx context.Context, userID, skillID string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin star transaction: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO stars (user_id, skill_id, created_at) VALUES (?, ?, ?)`),
		userID, skillID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyStarred
		}
		return 0, fmt.Errorf("insert star: %w", err)
	}

	var count int64
	err = tx.QueryRowContext(ctx, s.rebind(`
		UPDATE skills SET stars_count = stars_count + 1 WHERE id = ? RETURNING stars_count`),
		skillID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment stars_count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit star transaction: %w", err)
	}
	return count, nil
}

// Unstar removes a (user, skill) star and decrements the counter, floored
// at zero. Returns ErrNotStarred when no star exists.
func (s *Store) Unstar(ctx context.Context, userID, skillID string) (int64, error) {
	start := time.Now()
	count, err := s.unstar(ctx, userID, skillID)
	observe("unstar", start, ignoreStarConflicts(err))
	return count, err
}

func (s *Store) unstar(ctx context.Context, userID, skillID string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin unstar transaction: %w", err)
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx, s.rebind(`
		DELETE FROM stars WHERE user_id = ? AND skill_id = ?`),
		userID, skillID)
	if err != nil {
		return 0, fmt.Errorf("delete star: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("star rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrNotStarred
	}

	var count int64
	err = tx.QueryRowContext(ctx, s.rebind(`
		UPDATE skills
		SET stars_count = CASE WHEN stars_count > 0 THEN stars_count - 1 ELSE 0 END
		WHERE id = ? RETURNING stars_count`),
		skillID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("decrement stars_count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit unstar transaction: %w", err)
	}
	return count, nil
}

// ignoreStarConflicts keeps expected star conflicts out of error metrics.
func ignoreStarConflicts(err error) error {
	if errors.Is(err, ErrAlreadyStarred) || errors.Is(err, ErrNotStarred) {
		return nil
	}
	return err
}
