package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type tagMapStore struct {
	db *sql.DB
}

func (t *tagMapStore) Delete(ctx context.Context, tagMapId, webLogId string) (bool, error) {
	return deleteDoc(ctx, t.db, "tag_map", tagMapId, webLogId)
}

func (t *tagMapStore) FindById(ctx context.Context, tagMapId, webLogId string) (*models.TagMap, error) {
	return findDocById[models.TagMap](ctx, t.db, "tag_map", tagMapId, webLogId)
}

func (t *tagMapStore) FindByUrlValue(ctx context.Context, urlValue, webLogId string) (*models.TagMap, error) {
	return scanDoc[models.TagMap](t.db.QueryRowContext(ctx,
		`SELECT data FROM tag_map WHERE web_log_id = ? AND json_extract(data, '$.UrlValue') = ?`,
		webLogId, urlValue))
}

func (t *tagMapStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.TagMap, error) {
	return findDocsWhere[models.TagMap](ctx, t.db,
		`SELECT data FROM tag_map WHERE web_log_id = ? ORDER BY json_extract(data, '$.Tag')`, webLogId)
}

func (t *tagMapStore) FindMappingForTags(ctx context.Context, tags []string, webLogId string) ([]models.TagMap, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	stmt := fmt.Sprintf(
		`SELECT data FROM tag_map WHERE web_log_id = ? AND json_extract(data, '$.Tag') IN (%s)`,
		placeholders(len(tags)))
	return findDocsWhere[models.TagMap](ctx, t.db, stmt, append([]any{webLogId}, anySlice(tags)...)...)
}

func (t *tagMapStore) Restore(ctx context.Context, tagMaps []models.TagMap) error {
	return withTx(ctx, t.db, func(tx *sql.Tx) error {
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
	doc, err := json.Marshal(tagMap)
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(ctx,
		`INSERT INTO tag_map (id, web_log_id, data) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data`,
		tagMap.Id, tagMap.WebLogId, string(doc))
	return err
}
