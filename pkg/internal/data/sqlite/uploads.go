package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type uploadStore struct {
	db *sql.DB
}

func (u *uploadStore) Add(ctx context.Context, upload *models.Upload) error {
	_, err := u.db.ExecContext(ctx,
		`INSERT INTO upload (id, web_log_id, path, updated_on, data) VALUES (?, ?, ?, ?, ?)`,
		upload.Id, upload.WebLogId, upload.Path, instant(upload.UpdatedOn), upload.Data)
	return err
}

func (u *uploadStore) Delete(ctx context.Context, uploadId, webLogId string) (string, error) {
	path, err := scanNullableString(u.db.QueryRowContext(ctx,
		`SELECT path FROM upload WHERE id = ? AND web_log_id = ?`, uploadId, webLogId))
	if err != nil {
		return "", err
	}
	if path == nil {
		return "", data.ErrNotFound
	}
	if _, err := u.db.ExecContext(ctx,
		`DELETE FROM upload WHERE id = ? AND web_log_id = ?`, uploadId, webLogId); err != nil {
		return "", err
	}
	return *path, nil
}

func (u *uploadStore) FindByPath(ctx context.Context, path, webLogId string) (*models.Upload, error) {
	uploads, err := scanUploads(ctx, u.db,
		`SELECT id, web_log_id, path, updated_on, data FROM upload WHERE web_log_id = ? AND path = ?`,
		webLogId, path)
	if err != nil || len(uploads) == 0 {
		return nil, err
	}
	return &uploads[0], nil
}

func (u *uploadStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.Upload, error) {
	return scanUploads(ctx, u.db,
		`SELECT id, web_log_id, path, updated_on, NULL FROM upload WHERE web_log_id = ? ORDER BY path`,
		webLogId)
}

func (u *uploadStore) FindByWebLogWithData(ctx context.Context, webLogId string) ([]models.Upload, error) {
	return scanUploads(ctx, u.db,
		`SELECT id, web_log_id, path, updated_on, data FROM upload WHERE web_log_id = ? ORDER BY path`,
		webLogId)
}

func (u *uploadStore) Restore(ctx context.Context, uploads []models.Upload) error {
	return withTx(ctx, u.db, func(tx *sql.Tx) error {
		for _, upload := range uploads {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO upload (id, web_log_id, path, updated_on, data) VALUES (?, ?, ?, ?, ?)`,
				upload.Id, upload.WebLogId, upload.Path, instant(upload.UpdatedOn), upload.Data); err != nil {
				return err
			}
		}
		return nil
	})
}

func scanUploads(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.Upload, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []models.Upload
	for rows.Next() {
		var (
			upload    models.Upload
			updatedOn string
		)
		if err := rows.Scan(&upload.Id, &upload.WebLogId, &upload.Path, &updatedOn, &upload.Data); err != nil {
			return nil, err
		}
		if upload.UpdatedOn, err = parseInstant(updatedOn); err != nil {
			return nil, fmt.Errorf("invalid upload timestamp %q: %w", updatedOn, err)
		}
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}
