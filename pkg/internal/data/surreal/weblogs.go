package surreal

import (
	"context"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type webLogStore struct {
	db *surrealdb.DB
}

func (w *webLogStore) Add(ctx context.Context, webLog *models.WebLog) error {
	_, err := surrealdb.Create[models.WebLog](ctx, w.db, rid("web_log", webLog.Id), webLog)
	return err
}

func (w *webLogStore) All(ctx context.Context) ([]models.WebLog, error) {
	return queryRows[models.WebLog](ctx, w.db, `SELECT * FROM web_log ORDER BY Name COLLATE`, nil)
}

// Delete removes the web log and everything scoped to it in one transaction.
func (w *webLogStore) Delete(ctx context.Context, webLogId string) error {
	return execute(ctx, w.db, `
		BEGIN TRANSACTION;
		DELETE post WHERE WebLogId = $web_log_id;
		DELETE page WHERE WebLogId = $web_log_id;
		DELETE category WHERE WebLogId = $web_log_id;
		DELETE tag_map WHERE WebLogId = $web_log_id;
		DELETE upload WHERE WebLogId = $web_log_id;
		DELETE web_log_user WHERE WebLogId = $web_log_id;
		DELETE $web_log;
		COMMIT TRANSACTION;`,
		map[string]any{"web_log_id": webLogId, "web_log": rid("web_log", webLogId)})
}

func (w *webLogStore) FindByHost(ctx context.Context, url string) (*models.WebLog, error) {
	return queryOne[models.WebLog](ctx, w.db,
		`SELECT * FROM web_log WHERE UrlBase = $url`, map[string]any{"url": url})
}

func (w *webLogStore) FindById(ctx context.Context, id string) (*models.WebLog, error) {
	return queryOne[models.WebLog](ctx, w.db,
		`SELECT * FROM $web_log`, map[string]any{"web_log": rid("web_log", id)})
}

func (w *webLogStore) UpdateRedirectRules(ctx context.Context, webLog *models.WebLog) error {
	return w.patch(ctx, webLog.Id, map[string]any{"RedirectRules": webLog.RedirectRules})
}

func (w *webLogStore) UpdateRssOptions(ctx context.Context, webLog *models.WebLog) error {
	return w.patch(ctx, webLog.Id, map[string]any{"Rss": webLog.Rss})
}

func (w *webLogStore) UpdateSettings(ctx context.Context, webLog *models.WebLog) error {
	found, err := affected(ctx, w.db,
		`UPDATE $web_log CONTENT $data RETURN AFTER`,
		map[string]any{"web_log": rid("web_log", webLog.Id), "data": webLog})
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}

func (w *webLogStore) patch(ctx context.Context, id string, patch map[string]any) error {
	return execute(ctx, w.db, `UPDATE $web_log MERGE $patch`,
		map[string]any{"web_log": rid("web_log", id), "patch": patch})
}
