package surreal

import (
	"context"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type pageStore struct {
	db *surrealdb.DB
}

// pagesPerAdminPage is the fixed size of the page-list admin view.
const pagesPerAdminPage = 25

func (p *pageStore) Add(ctx context.Context, page *models.Page) error {
	_, err := surrealdb.Create[models.Page](ctx, p.db, rid("page", page.Id), page)
	return err
}

func (p *pageStore) All(ctx context.Context, webLogId string) ([]models.Page, error) {
	return queryRows[models.Page](ctx, p.db,
		`SELECT * OMIT Text, Metadata, PriorPermalinks, Revisions FROM page
		  WHERE WebLogId = $web_log_id
		  ORDER BY Title COLLATE`,
		map[string]any{"web_log_id": webLogId})
}

func (p *pageStore) CountAll(ctx context.Context, webLogId string) (int64, error) {
	return countRows(ctx, p.db,
		`SELECT count() AS total FROM page WHERE WebLogId = $web_log_id GROUP ALL`,
		map[string]any{"web_log_id": webLogId})
}

func (p *pageStore) CountListed(ctx context.Context, webLogId string) (int64, error) {
	return countRows(ctx, p.db,
		`SELECT count() AS total FROM page
		  WHERE WebLogId = $web_log_id AND IsInPageList = true
		  GROUP ALL`,
		map[string]any{"web_log_id": webLogId})
}

func (p *pageStore) Delete(ctx context.Context, pageId, webLogId string) (bool, error) {
	return affected(ctx, p.db,
		`DELETE $page WHERE WebLogId = $web_log_id RETURN BEFORE`,
		map[string]any{"page": rid("page", pageId), "web_log_id": webLogId})
}

func (p *pageStore) FindById(ctx context.Context, pageId, webLogId string) (*models.Page, error) {
	return queryOne[models.Page](ctx, p.db,
		`SELECT * OMIT Revisions FROM $page WHERE WebLogId = $web_log_id`,
		map[string]any{"page": rid("page", pageId), "web_log_id": webLogId})
}

func (p *pageStore) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogId string) (*string, error) {
	return findPermalink(ctx, p.db, "page", permalinks, webLogId)
}

func (p *pageStore) FindFullById(ctx context.Context, pageId, webLogId string) (*models.Page, error) {
	page, err := queryOne[models.Page](ctx, p.db,
		`SELECT * FROM $page WHERE WebLogId = $web_log_id`,
		map[string]any{"page": rid("page", pageId), "web_log_id": webLogId})
	if err != nil || page == nil {
		return page, err
	}
	data.SortRevisions(page.Revisions)
	return page, nil
}

func (p *pageStore) FindFullByWebLog(ctx context.Context, webLogId string) ([]models.Page, error) {
	pages, err := queryRows[models.Page](ctx, p.db,
		`SELECT * FROM page WHERE WebLogId = $web_log_id`,
		map[string]any{"web_log_id": webLogId})
	if err != nil {
		return nil, err
	}
	for i := range pages {
		data.SortRevisions(pages[i].Revisions)
	}
	return pages, nil
}

func (p *pageStore) FindListed(ctx context.Context, webLogId string) ([]models.Page, error) {
	return queryRows[models.Page](ctx, p.db,
		`SELECT * OMIT Text, Revisions FROM page
		  WHERE WebLogId = $web_log_id AND IsInPageList = true
		  ORDER BY Title COLLATE`,
		map[string]any{"web_log_id": webLogId})
}

func (p *pageStore) FindPageOfPages(ctx context.Context, webLogId string, pageNbr int) ([]models.Page, error) {
	return queryRows[models.Page](ctx, p.db,
		`SELECT * OMIT Metadata, PriorPermalinks, Revisions FROM page
		  WHERE WebLogId = $web_log_id
		  ORDER BY Title COLLATE
		  LIMIT $limit START $start`,
		map[string]any{
			"web_log_id": webLogId,
			"limit":      pagesPerAdminPage + 1,
			"start":      (pageNbr - 1) * pagesPerAdminPage,
		})
}

func (p *pageStore) Restore(ctx context.Context, pages []models.Page) error {
	docs := make([]restoreDoc, len(pages))
	for i := range pages {
		docs[i] = restoreDoc{id: rid("page", pages[i].Id), doc: pages[i]}
	}
	return restore(ctx, p.db, docs)
}

func (p *pageStore) Update(ctx context.Context, page *models.Page) error {
	found, err := affected(ctx, p.db,
		`UPDATE $page CONTENT $data WHERE WebLogId = $web_log_id RETURN AFTER`,
		map[string]any{"page": rid("page", page.Id), "data": page, "web_log_id": page.WebLogId})
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}

func (p *pageStore) UpdatePriorPermalinks(ctx context.Context, pageId, webLogId string, permalinks []string) (bool, error) {
	return affected(ctx, p.db,
		`UPDATE $page MERGE $patch WHERE WebLogId = $web_log_id RETURN AFTER`,
		map[string]any{
			"page":       rid("page", pageId),
			"patch":      map[string]any{"PriorPermalinks": permalinks},
			"web_log_id": webLogId,
		})
}

type permalinkRow struct {
	Permalink string `json:"Permalink"`
}

// findPermalink resolves any of the given prior permalinks to the current
// one; shared by pages and posts.
func findPermalink(ctx context.Context, db *surrealdb.DB, table string, permalinks []string, webLogId string) (*string, error) {
	if len(permalinks) == 0 {
		return nil, nil
	}
	row, err := queryOne[permalinkRow](ctx, db,
		`SELECT Permalink FROM `+table+`
		  WHERE WebLogId = $web_log_id AND PriorPermalinks CONTAINSANY $permalinks
		  LIMIT 1`,
		map[string]any{"web_log_id": webLogId, "permalinks": permalinks})
	if err != nil || row == nil {
		return nil, err
	}
	return &row.Permalink, nil
}
