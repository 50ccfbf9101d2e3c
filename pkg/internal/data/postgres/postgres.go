// Package postgres implements the data contract against PostgreSQL.
// Entities are stored as jsonb documents, one table per entity kind, with
// page and post revisions kept in relational side tables so revision history
// can be updated by minimal delete/insert batches.
package postgres

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
)

type Store struct {
	db *gorm.DB
}

// New connects to PostgreSQL with the given connection string. The
// connection pool is owned by gorm; no other state is held, so one Store may
// serve concurrent callers.
func New(uri string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to PostgreSQL: %w", err)
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

// StartUp provisions tables and indexes; every statement is IF NOT EXISTS,
// so running it against an already-provisioned database is a no-op.
func (s *Store) StartUp(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS web_log (
			id   TEXT  NOT NULL PRIMARY KEY,
			data JSONB NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS web_log_url_idx ON web_log ((data ->> 'UrlBase'))`,

		`CREATE TABLE IF NOT EXISTS category (
			id         TEXT  NOT NULL PRIMARY KEY,
			web_log_id TEXT  NOT NULL,
			data       JSONB NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS category_web_log_idx ON category (web_log_id)`,

		`CREATE TABLE IF NOT EXISTS page (
			id         TEXT  NOT NULL PRIMARY KEY,
			web_log_id TEXT  NOT NULL,
			data       JSONB NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS page_web_log_idx ON page (web_log_id)`,
		`CREATE INDEX IF NOT EXISTS page_author_idx ON page (web_log_id, (data ->> 'AuthorId'))`,
		`CREATE TABLE IF NOT EXISTS page_revision (
			page_id       TEXT        NOT NULL,
			as_of         TIMESTAMPTZ NOT NULL,
			revision_text TEXT        NOT NULL,
			PRIMARY KEY (page_id, as_of))`,

		`CREATE TABLE IF NOT EXISTS post (
			id         TEXT  NOT NULL PRIMARY KEY,
			web_log_id TEXT  NOT NULL,
			data       JSONB NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS post_web_log_idx ON post (web_log_id)`,
		`CREATE INDEX IF NOT EXISTS post_status_idx ON post (web_log_id, (data ->> 'Status'))`,
		`CREATE INDEX IF NOT EXISTS post_category_idx ON post USING GIN ((data['CategoryIds']))`,
		`CREATE INDEX IF NOT EXISTS post_tag_idx ON post USING GIN ((data['Tags']))`,
		`CREATE TABLE IF NOT EXISTS post_revision (
			post_id       TEXT        NOT NULL,
			as_of         TIMESTAMPTZ NOT NULL,
			revision_text TEXT        NOT NULL,
			PRIMARY KEY (post_id, as_of))`,

		`CREATE TABLE IF NOT EXISTS tag_map (
			id         TEXT  NOT NULL PRIMARY KEY,
			web_log_id TEXT  NOT NULL,
			data       JSONB NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS tag_map_url_idx ON tag_map (web_log_id, (data ->> 'UrlValue'))`,

		`CREATE TABLE IF NOT EXISTS theme (
			id   TEXT  NOT NULL PRIMARY KEY,
			data JSONB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS theme_asset (
			theme_id   TEXT        NOT NULL,
			path       TEXT        NOT NULL,
			updated_on TIMESTAMPTZ NOT NULL,
			data       BYTEA       NOT NULL,
			PRIMARY KEY (theme_id, path))`,

		`CREATE TABLE IF NOT EXISTS upload (
			id         TEXT        NOT NULL PRIMARY KEY,
			web_log_id TEXT        NOT NULL,
			path       TEXT        NOT NULL,
			updated_on TIMESTAMPTZ NOT NULL,
			data       BYTEA       NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS upload_path_idx ON upload (web_log_id, path)`,

		`CREATE TABLE IF NOT EXISTS web_log_user (
			id         TEXT  NOT NULL PRIMARY KEY,
			web_log_id TEXT  NOT NULL,
			data       JSONB NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS web_log_user_email_idx ON web_log_user (web_log_id, (data ->> 'Email'))`,
	}
	for _, stmt := range ddl {
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("start up failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
