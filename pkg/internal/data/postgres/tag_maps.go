package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type tagMapStore struct {
	db *gorm.DB
}

func (t *tagMapStore) Delete(ctx context.Context, tagMapId, webLogId string) (bool, error) {
	return deleteDoc(ctx, t.db, "tag_map", tagMapId, webLogId)
}

func (t *tagMapStore) FindById(ctx context.Context, tagMapId, webLogId string) (*models.TagMap, error) {
	return findDocById[models.TagMap](ctx, t.db, "tag_map", tagMapId, webLogId)
}

func (t *tagMapStore) FindByUrlValue(ctx context.Context, urlValue, webLogId string) (*models.TagMap, error) {
	row := t.db.WithContext(ctx).Raw(
		`SELECT data FROM tag_map WHERE web_log_id = ? AND data ->> 'UrlValue' = ?`, webLogId, urlValue).Row()
	return scanDoc[models.TagMap](row)
}

func (t *tagMapStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.TagMap, error) {
	return findDocsWhere[models.TagMap](ctx, t.db,
		`SELECT data FROM tag_map WHERE web_log_id = ? ORDER BY data ->> 'Tag'`, webLogId)
}

func (t *tagMapStore) FindMappingForTags(ctx context.Context, tags []string, webLogId string) ([]models.TagMap, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return findDocsWhere[models.TagMap](ctx, t.db,
		`SELECT data FROM tag_map WHERE web_log_id = ? AND data ->> 'Tag' IN ?`, webLogId, tags)
}

func (t *tagMapStore) Restore(ctx context.Context, tagMaps []models.TagMap) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tagMap := range tagMaps {
			if err := insertDoc(ctx, tx, "tag_map", tagMap.Id, tagMap.WebLogId, tagMap); err != nil {
				return err
			}
		}
		return nil
	})
}

// Save upserts the mapping by id.
func (t *tagMapStore) Save(ctx context.Context, tagMap *models.TagMap) error {
	doc, err := marshalDoc(tagMap)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Exec(
		`INSERT INTO tag_map (id, web_log_id, data) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		tagMap.Id, tagMap.WebLogId, doc).Error
}
