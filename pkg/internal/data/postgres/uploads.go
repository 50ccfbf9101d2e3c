package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type uploadStore struct {
	db *gorm.DB
}

func (u *uploadStore) Add(ctx context.Context, upload *models.Upload) error {
	return u.db.WithContext(ctx).Exec(
		`INSERT INTO upload (id, web_log_id, path, updated_on, data) VALUES (?, ?, ?, ?, ?)`,
		upload.Id, upload.WebLogId, upload.Path, upload.UpdatedOn, upload.Data).Error
}

func (u *uploadStore) Delete(ctx context.Context, uploadId, webLogId string) (string, error) {
	path, err := scanNullableString(u.db.WithContext(ctx).Raw(
		`SELECT path FROM upload WHERE id = ? AND web_log_id = ?`, uploadId, webLogId).Row())
	if err != nil {
		return "", err
	}
	if path == nil {
		return "", data.ErrNotFound
	}
	if err := u.db.WithContext(ctx).Exec(
		`DELETE FROM upload WHERE id = ? AND web_log_id = ?`, uploadId, webLogId).Error; err != nil {
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
		`SELECT id, web_log_id, path, updated_on, NULL::bytea FROM upload WHERE web_log_id = ? ORDER BY path`,
		webLogId)
}

func (u *uploadStore) FindByWebLogWithData(ctx context.Context, webLogId string) ([]models.Upload, error) {
	return scanUploads(ctx, u.db,
		`SELECT id, web_log_id, path, updated_on, data FROM upload WHERE web_log_id = ? ORDER BY path`,
		webLogId)
}

func (u *uploadStore) Restore(ctx context.Context, uploads []models.Upload) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, upload := range uploads {
			if err := tx.Exec(
				`INSERT INTO upload (id, web_log_id, path, updated_on, data) VALUES (?, ?, ?, ?, ?)`,
				upload.Id, upload.WebLogId, upload.Path, upload.UpdatedOn, upload.Data).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func scanUploads(ctx context.Context, db *gorm.DB, query string, args ...any) ([]models.Upload, error) {
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []models.Upload
	for rows.Next() {
		var (
			upload    models.Upload
			updatedOn time.Time
		)
		if err := rows.Scan(&upload.Id, &upload.WebLogId, &upload.Path, &updatedOn, &upload.Data); err != nil {
			return nil, err
		}
		upload.UpdatedOn = updatedOn
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}
