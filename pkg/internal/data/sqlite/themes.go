package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type themeStore struct {
	db *sql.DB
}

func (t *themeStore) All(ctx context.Context) ([]models.Theme, error) {
	themes, err := findDocsWhere[models.Theme](ctx, t.db, `SELECT data FROM theme ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for i := range themes {
		themes[i] = themes[i].WithoutTemplateText()
	}
	return themes, nil
}

func (t *themeStore) Delete(ctx context.Context, themeId string) (bool, error) {
	var found bool
	err := withTx(ctx, t.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM theme_asset WHERE theme_id = ?`, themeId); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM theme WHERE id = ?`, themeId)
		found, err = affected(res, err)
		return err
	})
	return found, err
}

func (t *themeStore) Exists(ctx context.Context, themeId string) (bool, error) {
	return existsWhere(ctx, t.db, `SELECT COUNT(id) FROM theme WHERE id = ?`, themeId)
}

func (t *themeStore) FindById(ctx context.Context, themeId string) (*models.Theme, error) {
	return scanDoc[models.Theme](t.db.QueryRowContext(ctx, `SELECT data FROM theme WHERE id = ?`, themeId))
}

func (t *themeStore) FindByIdWithoutText(ctx context.Context, themeId string) (*models.Theme, error) {
	theme, err := t.FindById(ctx, themeId)
	if err != nil || theme == nil {
		return theme, err
	}
	stripped := theme.WithoutTemplateText()
	return &stripped, nil
}

func (t *themeStore) Save(ctx context.Context, theme *models.Theme) error {
	doc, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(ctx,
		`INSERT INTO theme (id, data) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data`,
		theme.Id, string(doc))
	return err
}

type themeAssetStore struct {
	db *sql.DB
}

func (t *themeAssetStore) All(ctx context.Context) ([]models.ThemeAsset, error) {
	return scanAssets(ctx, t.db,
		`SELECT theme_id, path, updated_on, NULL FROM theme_asset ORDER BY theme_id, path`)
}

func (t *themeAssetStore) DeleteByTheme(ctx context.Context, themeId string) error {
	_, err := t.db.ExecContext(ctx, `DELETE FROM theme_asset WHERE theme_id = ?`, themeId)
	return err
}

func (t *themeAssetStore) FindById(ctx context.Context, themeId, path string) (*models.ThemeAsset, error) {
	assets, err := scanAssets(ctx, t.db,
		`SELECT theme_id, path, updated_on, data FROM theme_asset WHERE theme_id = ? AND path = ?`,
		themeId, path)
	if err != nil || len(assets) == 0 {
		return nil, err
	}
	return &assets[0], nil
}

func (t *themeAssetStore) FindByTheme(ctx context.Context, themeId string) ([]models.ThemeAsset, error) {
	return scanAssets(ctx, t.db,
		`SELECT theme_id, path, updated_on, NULL FROM theme_asset WHERE theme_id = ? ORDER BY path`, themeId)
}

func (t *themeAssetStore) FindByThemeWithData(ctx context.Context, themeId string) ([]models.ThemeAsset, error) {
	return scanAssets(ctx, t.db,
		`SELECT theme_id, path, updated_on, data FROM theme_asset WHERE theme_id = ? ORDER BY path`, themeId)
}

func (t *themeAssetStore) Save(ctx context.Context, asset *models.ThemeAsset) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO theme_asset (theme_id, path, updated_on, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT (theme_id, path) DO UPDATE SET updated_on = excluded.updated_on, data = excluded.data`,
		asset.ThemeId, asset.Path, instant(asset.UpdatedOn), asset.Data)
	return err
}

func scanAssets(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.ThemeAsset, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.ThemeAsset
	for rows.Next() {
		var (
			asset     models.ThemeAsset
			updatedOn string
		)
		if err := rows.Scan(&asset.ThemeId, &asset.Path, &updatedOn, &asset.Data); err != nil {
			return nil, err
		}
		if asset.UpdatedOn, err = parseInstant(updatedOn); err != nil {
			return nil, fmt.Errorf("invalid asset timestamp %q: %w", updatedOn, err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}
