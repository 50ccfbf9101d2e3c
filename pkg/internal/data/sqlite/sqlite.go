// Package sqlite implements the data contract against SQLite. Like the
// PostgreSQL adapter it stores entities as JSON documents (a TEXT column
// here) with page and post revisions in relational side tables; containment
// queries compile to json_extract path predicates.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at path, ensuring the data
// directory exists. WAL mode plus a busy timeout lets concurrent readers and
// a writer coexist; synchronous=NORMAL is safe under WAL.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open SQLite database: %w", err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Categories() data.CategoryData    { return &categoryStore{db: s.db} }
func (s *Store) Pages() data.PageData             { return &pageStore{db: s.db} }
func (s *Store) Posts() data.PostData             { return &postStore{db: s.db} }
func (s *Store) TagMaps() data.TagMapData         { return &tagMapStore{db: s.db} }
func (s *Store) Themes() data.ThemeData           { return &themeStore{db: s.db} }
func (s *Store) ThemeAssets() data.ThemeAssetData { return &themeAssetStore{db: s.db} }
func (s *Store) Uploads() data.UploadData         { return &uploadStore{db: s.db} }
func (s *Store) Users() data.WebLogUserData       { return &userStore{db: s.db} }
func (s *Store) WebLogs() data.WebLogData         { return &webLogStore{db: s.db} }

// StartUp provisions tables and indexes; safe to call on every start.
func (s *Store) StartUp(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS web_log (
			id   TEXT NOT NULL PRIMARY KEY,
			data TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS web_log_url_idx ON web_log (json_extract(data, '$.UrlBase'))`,

		`CREATE TABLE IF NOT EXISTS category (
			id         TEXT NOT NULL PRIMARY KEY,
			web_log_id TEXT NOT NULL,
			data       TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS category_web_log_idx ON category (web_log_id)`,

		`CREATE TABLE IF NOT EXISTS page (
			id         TEXT NOT NULL PRIMARY KEY,
			web_log_id TEXT NOT NULL,
			data       TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS page_web_log_idx ON page (web_log_id)`,
		`CREATE INDEX IF NOT EXISTS page_author_idx ON page (web_log_id, json_extract(data, '$.AuthorId'))`,
		`CREATE TABLE IF NOT EXISTS page_revision (
			page_id       TEXT NOT NULL,
			as_of         TEXT NOT NULL,
			revision_text TEXT NOT NULL,
			PRIMARY KEY (page_id, as_of))`,

		`CREATE TABLE IF NOT EXISTS post (
			id         TEXT NOT NULL PRIMARY KEY,
			web_log_id TEXT NOT NULL,
			data       TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS post_web_log_idx ON post (web_log_id)`,
		`CREATE INDEX IF NOT EXISTS post_status_idx ON post (web_log_id, json_extract(data, '$.Status'))`,
		`CREATE TABLE IF NOT EXISTS post_revision (
			post_id       TEXT NOT NULL,
			as_of         TEXT NOT NULL,
			revision_text TEXT NOT NULL,
			PRIMARY KEY (post_id, as_of))`,

		`CREATE TABLE IF NOT EXISTS tag_map (
			id         TEXT NOT NULL PRIMARY KEY,
			web_log_id TEXT NOT NULL,
			data       TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS tag_map_url_idx ON tag_map (web_log_id, json_extract(data, '$.UrlValue'))`,

		`CREATE TABLE IF NOT EXISTS theme (
			id   TEXT NOT NULL PRIMARY KEY,
			data TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS theme_asset (
			theme_id   TEXT NOT NULL,
			path       TEXT NOT NULL,
			updated_on TEXT NOT NULL,
			data       BLOB NOT NULL,
			PRIMARY KEY (theme_id, path))`,

		`CREATE TABLE IF NOT EXISTS upload (
			id         TEXT NOT NULL PRIMARY KEY,
			web_log_id TEXT NOT NULL,
			path       TEXT NOT NULL,
			updated_on TEXT NOT NULL,
			data       BLOB NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS upload_path_idx ON upload (web_log_id, path)`,

		`CREATE TABLE IF NOT EXISTS web_log_user (
			id         TEXT NOT NULL PRIMARY KEY,
			web_log_id TEXT NOT NULL,
			data       TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS web_log_user_email_idx ON web_log_user (web_log_id, json_extract(data, '$.Email'))`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("start up failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
