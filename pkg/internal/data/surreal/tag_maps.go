package surreal

import (
	"context"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type tagMapStore struct {
	db *surrealdb.DB
}

func (t *tagMapStore) Delete(ctx context.Context, tagMapId, webLogId string) (bool, error) {
	return affected(ctx, t.db,
		`DELETE $tag_map WHERE WebLogId = $web_log_id RETURN BEFORE`,
		map[string]any{"tag_map": rid("tag_map", tagMapId), "web_log_id": webLogId})
}

func (t *tagMapStore) FindById(ctx context.Context, tagMapId, webLogId string) (*models.TagMap, error) {
	return queryOne[models.TagMap](ctx, t.db,
		`SELECT * FROM $tag_map WHERE WebLogId = $web_log_id`,
		map[string]any{"tag_map": rid("tag_map", tagMapId), "web_log_id": webLogId})
}

func (t *tagMapStore) FindByUrlValue(ctx context.Context, urlValue, webLogId string) (*models.TagMap, error) {
	return queryOne[models.TagMap](ctx, t.db,
		`SELECT * FROM tag_map WHERE WebLogId = $web_log_id AND UrlValue = $url_value`,
		map[string]any{"web_log_id": webLogId, "url_value": urlValue})
}

func (t *tagMapStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.TagMap, error) {
	return queryRows[models.TagMap](ctx, t.db,
		`SELECT * FROM tag_map WHERE WebLogId = $web_log_id ORDER BY Tag`,
		map[string]any{"web_log_id": webLogId})
}

func (t *tagMapStore) FindMappingForTags(ctx context.Context, tags []string, webLogId string) ([]models.TagMap, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return queryRows[models.TagMap](ctx, t.db,
		`SELECT * FROM tag_map WHERE WebLogId = $web_log_id AND Tag IN $tags`,
		map[string]any{"web_log_id": webLogId, "tags": tags})
}

func (t *tagMapStore) Restore(ctx context.Context, tagMaps []models.TagMap) error {
	docs := make([]restoreDoc, len(tagMaps))
	for i, tagMap := range tagMaps {
		docs[i] = restoreDoc{id: rid("tag_map", tagMap.Id), doc: tagMap}
	}
	return restore(ctx, t.db, docs)
}

// Save upserts the mapping by id.
func (t *tagMapStore) Save(ctx context.Context, tagMap *models.TagMap) error {
	return execute(ctx, t.db, `UPSERT $tag_map CONTENT $data`,
		map[string]any{"tag_map": rid("tag_map", tagMap.Id), "data": tagMap})
}
