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

	"github.com/google/uuid"

	"github.com/agentskills/registry/internal/models"
)

const userColumns = `id, username, api_token, display_name, avatar_url, github_id, bio, created_at`

// scanUser reads one user row. Nullable profile columns map to zero values.
func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u           models.User
		displayName sql.NullString
		avatarURL   sql.NullString
		githubID    sql.NullInt64
		bio         sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.APIToken, &displayName, &avatarURL,
		&githubID, &bio, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.DisplayName = displayName.String
	u.AvatarURL = avatarURL.String
	u.GitHubID = githubID.Int64
	u.Bio = bio.String
	return &u, nil
}

// UserByToken resolves an API token to its user. Returns ErrNotFound for
// unknown tokens.
func (s *Store) UserByToken(ctx context.Context, token string) (*models.User, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+userColumns+` FROM users WHERE api_token = ?`), token)
	u, err := scanUser(row)
	observe("user_by_token", start, ignoreNotFound(err))
	return u, err
}

// UserByID fetches a user row by primary key.
func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	u, err := scanUser(row)
	observe("user_by_id", start, ignoreNotFound(err))
	return u, err
}

// UserByUsername looks a user up by their unique username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	u, err := scanUser(row)
	observe("user_by_username", start, ignoreNotFound(err))
	return u, err
}

// UserByGitHubID looks a user up by their linked GitHub account ID.
func (s *Store) UserByGitHubID(ctx context.Context, githubID int64) (*models.User, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+userColumns+` FROM users WHERE github_id = ?`), githubID)
	u, err := scanUser(row)
	observe("user_by_github_id", start, ignoreNotFound(err))
	return u, err
}

// CreateUser inserts a new account. ID and CreatedAt are assigned here.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	start := time.Now()
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO users (id, username, api_token, display_name, avatar_url, github_id, bio, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		u.ID, u.Username, u.APIToken,
		nullString(u.DisplayName), nullString(u.AvatarURL),
		nullInt64(u.GitHubID), nullString(u.Bio), u.CreatedAt)
	observe("create_user", start, err)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// LinkGitHub attaches a GitHub identity to an existing account and
// refreshes the profile fields from the upstream identity.
func (s *Store) LinkGitHub(ctx context.Context, userID string, githubID int64, displayName, avatarURL string) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE users SET github_id = ?, display_name = ?, avatar_url = ? WHERE id = ?`),
		githubID, nullString(displayName), nullString(avatarURL), userID)
	observe("link_github", start, err)
	if err != nil {
		return fmt.Errorf("link github identity: %w", err)
	}
	return nil
}

// UpdateUserProfile refreshes display name and avatar from the identity
// provider on each login.
func (s *Store) UpdateUserProfile(ctx context.Context, userID, displayName, avatarURL string) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE users SET display_name = ?, avatar_url = ? WHERE id = ?`),
		nullString(displayName), nullString(avatarURL), userID)
	observe("update_user_profile", start, err)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}

// ignoreNotFound keeps expected row misses out of the error metrics.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
