package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type webLogStore struct {
	db *sql.DB
}

func (w *webLogStore) Add(ctx context.Context, webLog *models.WebLog) error {
	doc, err := json.Marshal(webLog)
	if err != nil {
		return err
	}
	_, err = w.db.ExecContext(ctx, `INSERT INTO web_log (id, data) VALUES (?, ?)`, webLog.Id, string(doc))
	return err
}

func (w *webLogStore) All(ctx context.Context) ([]models.WebLog, error) {
	return findDocsWhere[models.WebLog](ctx, w.db,
		`SELECT data FROM web_log ORDER BY LOWER(json_extract(data, '$.Name'))`)
}

// Delete removes the web log and everything scoped to it in one transaction;
// a failure in any table rolls the whole cascade back.
func (w *webLogStore) Delete(ctx context.Context, webLogId string) error {
	return withTx(ctx, w.db, func(tx *sql.Tx) error {
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
			if _, err := tx.ExecContext(ctx, stmt, webLogId); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM web_log WHERE id = ?`, webLogId)
		return err
	})
}

func (w *webLogStore) FindByHost(ctx context.Context, url string) (*models.WebLog, error) {
	return scanDoc[models.WebLog](w.db.QueryRowContext(ctx,
		`SELECT data FROM web_log WHERE json_extract(data, '$.UrlBase') = ?`, url))
}

func (w *webLogStore) FindById(ctx context.Context, id string) (*models.WebLog, error) {
	return scanDoc[models.WebLog](w.db.QueryRowContext(ctx, `SELECT data FROM web_log WHERE id = ?`, id))
}

func (w *webLogStore) UpdateRedirectRules(ctx context.Context, webLog *models.WebLog) error {
	return w.patch(ctx, webLog.Id, map[string]any{"RedirectRules": webLog.RedirectRules})
}

func (w *webLogStore) UpdateRssOptions(ctx context.Context, webLog *models.WebLog) error {
	return w.patch(ctx, webLog.Id, map[string]any{"Rss": webLog.Rss})
}

func (w *webLogStore) UpdateSettings(ctx context.Context, webLog *models.WebLog) error {
	doc, err := json.Marshal(webLog)
	if err != nil {
		return err
	}
	res, err := w.db.ExecContext(ctx, `UPDATE web_log SET data = ? WHERE id = ?`, string(doc), webLog.Id)
	found, err := affected(res, err)
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}

func (w *webLogStore) patch(ctx context.Context, id string, patch map[string]any) error {
	doc, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	_, err = w.db.ExecContext(ctx, `UPDATE web_log SET data = json_patch(data, ?) WHERE id = ?`, string(doc), id)
	return err
}
