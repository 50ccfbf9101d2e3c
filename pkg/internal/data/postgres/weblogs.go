package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type webLogStore struct {
	db *gorm.DB
}

func (w *webLogStore) Add(ctx context.Context, webLog *models.WebLog) error {
	doc, err := marshalDoc(webLog)
	if err != nil {
		return err
	}
	return w.db.WithContext(ctx).Exec(`INSERT INTO web_log (id, data) VALUES (?, ?)`, webLog.Id, doc).Error
}

func (w *webLogStore) All(ctx context.Context) ([]models.WebLog, error) {
	return findDocsWhere[models.WebLog](ctx, w.db, `SELECT data FROM web_log ORDER BY LOWER(data ->> 'Name')`)
}

// Delete removes the web log and everything scoped to it in one transaction;
// a failure in any table rolls the whole cascade back.
func (w *webLogStore) Delete(ctx context.Context, webLogId string) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cascade := []string{
			`DELETE FROM post_revision WHERE post_id IN (SELECT id FROM post WHERE web_log_id = ?)`,
			`DELETE FROM page_revision WHERE page_id IN (SELECT id FROM page WHERE web_log_id = ?)`,
			`DELETE FROM post WHERE web_log_id = ?`,
			`DELETE FROM page WHERE web_log_id = ?`,
			`DELETE FROM category WHERE web_log_id = ?`,
			`DELETE FROM tag_map WHERE web_log_id = ?`,
			`DELETE FROM upload WHERE web_log_id = ?`,
			`DELETE FROM web_log_user WHERE web_log_id = ?`,
		}
		for _, stmt := range cascade {
			if err := tx.Exec(stmt, webLogId).Error; err != nil {
				return err
			}
		}
		return tx.Exec(`DELETE FROM web_log WHERE id = ?`, webLogId).Error
	})
}

func (w *webLogStore) FindByHost(ctx context.Context, url string) (*models.WebLog, error) {
	row := w.db.WithContext(ctx).Raw(`SELECT data FROM web_log WHERE data ->> 'UrlBase' = ?`, url).Row()
	return scanDoc[models.WebLog](row)
}

func (w *webLogStore) FindById(ctx context.Context, id string) (*models.WebLog, error) {
	row := w.db.WithContext(ctx).Raw(`SELECT data FROM web_log WHERE id = ?`, id).Row()
	return scanDoc[models.WebLog](row)
}

func (w *webLogStore) UpdateRedirectRules(ctx context.Context, webLog *models.WebLog) error {
	return w.patch(ctx, webLog.Id, map[string]any{"RedirectRules": webLog.RedirectRules})
}

func (w *webLogStore) UpdateRssOptions(ctx context.Context, webLog *models.WebLog) error {
	return w.patch(ctx, webLog.Id, map[string]any{"Rss": webLog.Rss})
}

func (w *webLogStore) UpdateSettings(ctx context.Context, webLog *models.WebLog) error {
	doc, err := marshalDoc(webLog)
	if err != nil {
		return err
	}
	res := w.db.WithContext(ctx).Exec(`UPDATE web_log SET data = ? WHERE id = ?`, doc, webLog.Id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (w *webLogStore) patch(ctx context.Context, id string, patch map[string]any) error {
	doc, err := marshalDoc(patch)
	if err != nil {
		return err
	}
	return w.db.WithContext(ctx).Exec(`UPDATE web_log SET data = data || ? WHERE id = ?`, doc, id).Error
}
