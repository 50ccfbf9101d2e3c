package surreal

import (
	"context"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type uploadStore struct {
	db *surrealdb.DB
}

func (u *uploadStore) Add(ctx context.Context, upload *models.Upload) error {
	_, err := surrealdb.Create[models.Upload](ctx, u.db, rid("upload", upload.Id), upload)
	return err
}

func (u *uploadStore) Delete(ctx context.Context, uploadId, webLogId string) (string, error) {
	type pathRow struct {
		Path string `json:"Path"`
	}
	row, err := queryOne[pathRow](ctx, u.db,
		`SELECT Path FROM $upload WHERE WebLogId = $web_log_id`,
		map[string]any{"upload": rid("upload", uploadId), "web_log_id": webLogId})
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", data.ErrNotFound
	}
	if err := execute(ctx, u.db, `DELETE $upload`,
		map[string]any{"upload": rid("upload", uploadId)}); err != nil {
		return "", err
	}
	return row.Path, nil
}

func (u *uploadStore) FindByPath(ctx context.Context, path, webLogId string) (*models.Upload, error) {
	return queryOne[models.Upload](ctx, u.db,
		`SELECT * FROM upload WHERE WebLogId = $web_log_id AND Path = $path`,
		map[string]any{"web_log_id": webLogId, "path": path})
}

func (u *uploadStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.Upload, error) {
	return queryRows[models.Upload](ctx, u.db,
		`SELECT * OMIT Data FROM upload WHERE WebLogId = $web_log_id ORDER BY Path`,
		map[string]any{"web_log_id": webLogId})
}

func (u *uploadStore) FindByWebLogWithData(ctx context.Context, webLogId string) ([]models.Upload, error) {
	return queryRows[models.Upload](ctx, u.db,
		`SELECT * FROM upload WHERE WebLogId = $web_log_id ORDER BY Path`,
		map[string]any{"web_log_id": webLogId})
}

func (u *uploadStore) Restore(ctx context.Context, uploads []models.Upload) error {
	docs := make([]restoreDoc, len(uploads))
	for i := range uploads {
		docs[i] = restoreDoc{id: rid("upload", uploads[i].Id), doc: uploads[i]}
	}
	return restore(ctx, u.db, docs)
}
