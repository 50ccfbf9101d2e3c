package surreal

import (
	"context"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type themeStore struct {
	db *surrealdb.DB
}

func (t *themeStore) All(ctx context.Context) ([]models.Theme, error) {
	themes, err := queryRows[models.Theme](ctx, t.db, `SELECT * FROM theme ORDER BY Id`, nil)
	if err != nil {
		return nil, err
	}
	for i := range themes {
		themes[i] = themes[i].WithoutTemplateText()
	}
	return themes, nil
}

func (t *themeStore) Delete(ctx context.Context, themeId string) (bool, error) {
	return affected(ctx, t.db, `
		BEGIN TRANSACTION;
		DELETE theme_asset WHERE ThemeId = $theme_id;
		DELETE $theme RETURN BEFORE;
		COMMIT TRANSACTION;`,
		map[string]any{"theme_id": themeId, "theme": rid("theme", themeId)})
}

func (t *themeStore) Exists(ctx context.Context, themeId string) (bool, error) {
	count, err := countRows(ctx, t.db,
		`SELECT count() AS total FROM $theme GROUP ALL`,
		map[string]any{"theme": rid("theme", themeId)})
	return count > 0, err
}

func (t *themeStore) FindById(ctx context.Context, themeId string) (*models.Theme, error) {
	return queryOne[models.Theme](ctx, t.db,
		`SELECT * FROM $theme`, map[string]any{"theme": rid("theme", themeId)})
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
	return execute(ctx, t.db, `UPSERT $theme CONTENT $data`,
		map[string]any{"theme": rid("theme", theme.Id), "data": theme})
}

type themeAssetStore struct {
	db *surrealdb.DB
}

// assetId builds the composite record key; an asset is unique per theme and
// path.
func assetId(themeId, path string) string {
	return themeId + "/" + path
}

func (t *themeAssetStore) All(ctx context.Context) ([]models.ThemeAsset, error) {
	return queryRows[models.ThemeAsset](ctx, t.db,
		`SELECT * OMIT Data FROM theme_asset ORDER BY ThemeId, Path`, nil)
}

func (t *themeAssetStore) DeleteByTheme(ctx context.Context, themeId string) error {
	return execute(ctx, t.db,
		`DELETE theme_asset WHERE ThemeId = $theme_id`, map[string]any{"theme_id": themeId})
}

func (t *themeAssetStore) FindById(ctx context.Context, themeId, path string) (*models.ThemeAsset, error) {
	return queryOne[models.ThemeAsset](ctx, t.db,
		`SELECT * FROM $asset`, map[string]any{"asset": rid("theme_asset", assetId(themeId, path))})
}

func (t *themeAssetStore) FindByTheme(ctx context.Context, themeId string) ([]models.ThemeAsset, error) {
	return queryRows[models.ThemeAsset](ctx, t.db,
		`SELECT * OMIT Data FROM theme_asset WHERE ThemeId = $theme_id ORDER BY Path`,
		map[string]any{"theme_id": themeId})
}

func (t *themeAssetStore) FindByThemeWithData(ctx context.Context, themeId string) ([]models.ThemeAsset, error) {
	return queryRows[models.ThemeAsset](ctx, t.db,
		`SELECT * FROM theme_asset WHERE ThemeId = $theme_id ORDER BY Path`,
		map[string]any{"theme_id": themeId})
}

func (t *themeAssetStore) Save(ctx context.Context, asset *models.ThemeAsset) error {
	return execute(ctx, t.db, `UPSERT $asset CONTENT $data`,
		map[string]any{"asset": rid("theme_asset", assetId(asset.ThemeId, asset.Path)), "data": asset})
}
