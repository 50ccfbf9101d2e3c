// Package surreal implements the data contract against SurrealDB. Entities
// are stored as whole documents (revisions embedded) and queried with
// parameterized SurrealQL; multi-record mutations run inside a single
// BEGIN/COMMIT query so they remain atomic.
package surreal

import (
	"context"
	"fmt"
	"net/url"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
)

type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

type Store struct {
	db *surrealdb.DB
}

// New connects over websocket using the surrealcbor codec; the default
// marshaler mangles time.Time values, which this contract leans on heavily.
func New(ctx context.Context, cfg Config) (*Store, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid SurrealDB URL: %w", err)
	}

	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to SurrealDB: %w", err)
	}
	if cfg.Username != "" {
		if _, err := db.SignIn(ctx, map[string]any{"user": cfg.Username, "pass": cfg.Password}); err != nil {
			return nil, fmt.Errorf("SurrealDB sign-in failed: %w", err)
		}
	}
	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("unable to select namespace/database: %w", err)
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

// StartUp defines the lookup indexes; tables themselves are created lazily on
// first insert.
func (s *Store) StartUp(ctx context.Context) error {
	indexes := []string{
		`DEFINE INDEX IF NOT EXISTS web_log_url_idx ON web_log FIELDS UrlBase`,
		`DEFINE INDEX IF NOT EXISTS category_web_log_idx ON category FIELDS WebLogId`,
		`DEFINE INDEX IF NOT EXISTS page_web_log_idx ON page FIELDS WebLogId`,
		`DEFINE INDEX IF NOT EXISTS page_author_idx ON page FIELDS WebLogId, AuthorId`,
		`DEFINE INDEX IF NOT EXISTS post_web_log_idx ON post FIELDS WebLogId`,
		`DEFINE INDEX IF NOT EXISTS post_status_idx ON post FIELDS WebLogId, Status`,
		`DEFINE INDEX IF NOT EXISTS tag_map_url_idx ON tag_map FIELDS WebLogId, UrlValue`,
		`DEFINE INDEX IF NOT EXISTS upload_path_idx ON upload FIELDS WebLogId, Path`,
		`DEFINE INDEX IF NOT EXISTS web_log_user_email_idx ON web_log_user FIELDS WebLogId, Email`,
	}
	for _, stmt := range indexes {
		if err := execute(ctx, s.db, stmt, nil); err != nil {
			return fmt.Errorf("start up failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close(context.Background())
}
