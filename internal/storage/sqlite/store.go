// Package sqlite provides SQLite-backed persistence for users, roles, posts,
// and comments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MisterKipper/my-site/internal/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports that a requested row does not exist.
var ErrNotFound = errors.New("sqlite: not found")

// Store wraps a migrated SQLite database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a SQLite store at path. Use ":memory:" for an
// ephemeral database in tests.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: ping db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS roles (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         TEXT NOT NULL UNIQUE,
    is_default   INTEGER NOT NULL DEFAULT 0,
    permissions  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_roles_default ON roles (is_default);

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role_id       INTEGER NOT NULL REFERENCES roles (id),
    active        INTEGER NOT NULL DEFAULT 0,
    name          TEXT NOT NULL DEFAULT '',
    location      TEXT NOT NULL DEFAULT '',
    about_me      TEXT NOT NULL DEFAULT '',
    member_since  INTEGER NOT NULL,
    last_seen     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    title     TEXT NOT NULL,
    slug      TEXT NOT NULL UNIQUE,
    author_id INTEGER NOT NULL REFERENCES users (id),
    body      TEXT NOT NULL,
    summary   TEXT NOT NULL DEFAULT '',
    timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_timestamp ON posts (timestamp DESC);

CREATE TABLE IF NOT EXISTS comments (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    post_id   INTEGER NOT NULL REFERENCES posts (id),
    author_id INTEGER NOT NULL REFERENCES users (id),
    body      TEXT NOT NULL,
    body_html TEXT NOT NULL,
    disabled  INTEGER NOT NULL DEFAULT 0,
    timestamp INTEGER NOT NULL,
    edit_time INTEGER NOT NULL DEFAULT 0,
    parent_id INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments (parent_id);
`

func (s *Store) migrate() error {
	_, err := s.sqlDB.Exec(schema)
	return err
}

func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().Unix()
}

func unixToTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("sqlite: store is not configured")
	}
	return nil
}

// SeedRoles upserts the built-in roles. It is idempotent and safe to run at
// every startup.
func (s *Store) SeedRoles(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, role := range model.BuiltinRoles() {
		_, err := s.sqlDB.ExecContext(ctx,
			`INSERT INTO roles (name, is_default, permissions) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET is_default = excluded.is_default, permissions = excluded.permissions`,
			role.Name, boolToInt(role.Default), role.Permissions,
		)
		if err != nil {
			return fmt.Errorf("sqlite: seed role %q: %w", role.Name, err)
		}
	}
	return nil
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
