package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type themeStore struct {
	db *gorm.DB
}

func (t *themeStore) All(ctx context.Context) ([]models.Theme, error) {
	themes, err := findDocsWhere[models.Theme](ctx, t.db,
		`SELECT data FROM theme ORDER BY id`)
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
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM theme_asset WHERE theme_id = ?`, themeId).Error; err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM theme WHERE id = ?`, themeId)
		found = res.RowsAffected > 0
		return res.Error
	})
	return found, err
}

func (t *themeStore) Exists(ctx context.Context, themeId string) (bool, error) {
	return existsWhere(ctx, t.db, `SELECT COUNT(id) FROM theme WHERE id = ?`, themeId)
}

func (t *themeStore) FindById(ctx context.Context, themeId string) (*models.Theme, error) {
	row := t.db.WithContext(ctx).Raw(`SELECT data FROM theme WHERE id = ?`, themeId).Row()
	return scanDoc[models.Theme](row)
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
	doc, err := marshalDoc(theme)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Exec(
		`INSERT INTO theme (id, data) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		theme.Id, doc).Error
}

type themeAssetStore struct {
	db *gorm.DB
}

func (t *themeAssetStore) All(ctx context.Context) ([]models.ThemeAsset, error) {
	return scanAssets(ctx, t.db,
		`SELECT theme_id, path, updated_on, NULL::bytea FROM theme_asset ORDER BY theme_id, path`)
}

func (t *themeAssetStore) DeleteByTheme(ctx context.Context, themeId string) error {
	return t.db.WithContext(ctx).Exec(`DELETE FROM theme_asset WHERE theme_id = ?`, themeId).Error
}

func (t *themeAssetStore) FindById(ctx context.Context, themeId, path string) (*models.ThemeAsset, error) {
	assets, err := scanAssets(ctx, t.db,
		`SELECT theme_id, path, updated_on, data FROM theme_asset WHERE theme_id = ? AND path = ?`, themeId, path)
	if err != nil || len(assets) == 0 {
		return nil, err
	}
	return &assets[0], nil
}

func (t *themeAssetStore) FindByTheme(ctx context.Context, themeId string) ([]models.ThemeAsset, error) {
	return scanAssets(ctx, t.db,
		`SELECT theme_id, path, updated_on, NULL::bytea FROM theme_asset WHERE theme_id = ? ORDER BY path`, themeId)
}

func (t *themeAssetStore) FindByThemeWithData(ctx context.Context, themeId string) ([]models.ThemeAsset, error) {
	return scanAssets(ctx, t.db,
		`SELECT theme_id, path, updated_on, data FROM theme_asset WHERE theme_id = ? ORDER BY path`, themeId)
}

func (t *themeAssetStore) Save(ctx context.Context, asset *models.ThemeAsset) error {
	return t.db.WithContext(ctx).Exec(
		`INSERT INTO theme_asset (theme_id, path, updated_on, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT (theme_id, path) DO UPDATE SET updated_on = EXCLUDED.updated_on, data = EXCLUDED.data`,
		asset.ThemeId, asset.Path, asset.UpdatedOn, asset.Data).Error
}

func scanAssets(ctx context.Context, db *gorm.DB, query string, args ...any) ([]models.ThemeAsset, error) {
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.ThemeAsset
	for rows.Next() {
		var (
			asset     models.ThemeAsset
			updatedOn time.Time
		)
		if err := rows.Scan(&asset.ThemeId, &asset.Path, &updatedOn, &asset.Data); err != nil {
			return nil, err
		}
		asset.UpdatedOn = updatedOn
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}
