package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type pageStore struct {
	db *sql.DB
}

// pagesPerAdminPage is the fixed size of the page-list admin view.
const pagesPerAdminPage = 25

// pageDoc strips the revision list before the page is serialized; revisions
// are stored relationally and re-attached on full reads.
func pageDoc(page *models.Page) models.Page {
	doc := *page
	doc.Revisions = nil
	return doc
}

func (p *pageStore) Add(ctx context.Context, page *models.Page) error {
	return withTx(ctx, p.db, func(tx *sql.Tx) error {
		if err := insertDoc(ctx, tx, "page", page.Id, page.WebLogId, pageDoc(page)); err != nil {
			return err
		}
		return insertRevisions(ctx, tx, "page_revision", "page_id", page.Id, page.Revisions)
	})
}

func (p *pageStore) All(ctx context.Context, webLogId string) ([]models.Page, error) {
	pages, err := findDocsWhere[models.Page](ctx, p.db,
		`SELECT data FROM page WHERE web_log_id = ? ORDER BY LOWER(json_extract(data, '$.Title'))`, webLogId)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		pages[i].Text = ""
		pages[i].Metadata = nil
		pages[i].PriorPermalinks = nil
	}
	return pages, nil
}

func (p *pageStore) CountAll(ctx context.Context, webLogId string) (int64, error) {
	return countWhere(ctx, p.db, `SELECT COUNT(id) FROM page WHERE web_log_id = ?`, webLogId)
}

func (p *pageStore) CountListed(ctx context.Context, webLogId string) (int64, error) {
	return countWhere(ctx, p.db,
		`SELECT COUNT(id) FROM page WHERE web_log_id = ? AND json_extract(data, '$.IsInPageList') = 1`,
		webLogId)
}

func (p *pageStore) Delete(ctx context.Context, pageId, webLogId string) (bool, error) {
	var found bool
	err := withTx(ctx, p.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM page_revision WHERE page_id IN (SELECT id FROM page WHERE id = ? AND web_log_id = ?)`,
			pageId, webLogId); err != nil {
			return err
		}
		var err error
		found, err = deleteDoc(ctx, tx, "page", pageId, webLogId)
		return err
	})
	return found, err
}

func (p *pageStore) FindById(ctx context.Context, pageId, webLogId string) (*models.Page, error) {
	return findDocById[models.Page](ctx, p.db, "page", pageId, webLogId)
}

func (p *pageStore) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogId string) (*string, error) {
	return findPermalink(ctx, p.db, "page", permalinks, webLogId)
}

func (p *pageStore) FindFullById(ctx context.Context, pageId, webLogId string) (*models.Page, error) {
	page, err := p.FindById(ctx, pageId, webLogId)
	if err != nil || page == nil {
		return page, err
	}
	page.Revisions, err = findRevisions(ctx, p.db, "page_revision", "page_id", page.Id)
	return page, err
}

func (p *pageStore) FindFullByWebLog(ctx context.Context, webLogId string) ([]models.Page, error) {
	pages, err := findDocsWhere[models.Page](ctx, p.db,
		`SELECT data FROM page WHERE web_log_id = ?`, webLogId)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		if pages[i].Revisions, err = findRevisions(ctx, p.db, "page_revision", "page_id", pages[i].Id); err != nil {
			return nil, err
		}
	}
	return pages, nil
}

func (p *pageStore) FindListed(ctx context.Context, webLogId string) ([]models.Page, error) {
	pages, err := findDocsByContains[models.Page](ctx, p.db, "page", webLogId,
		map[string]any{"IsInPageList": true}, `LOWER(json_extract(data, '$.Title'))`)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		pages[i].Text = ""
	}
	return pages, nil
}

func (p *pageStore) FindPageOfPages(ctx context.Context, webLogId string, pageNbr int) ([]models.Page, error) {
	pages, err := findDocsWhere[models.Page](ctx, p.db,
		`SELECT data FROM page WHERE web_log_id = ?
		  ORDER BY LOWER(json_extract(data, '$.Title'))
		  LIMIT ? OFFSET ?`,
		webLogId, pagesPerAdminPage+1, (pageNbr-1)*pagesPerAdminPage)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		pages[i].Metadata = nil
		pages[i].PriorPermalinks = nil
	}
	return pages, nil
}

func (p *pageStore) Restore(ctx context.Context, pages []models.Page) error {
	return withTx(ctx, p.db, func(tx *sql.Tx) error {
		for i := range pages {
			page := &pages[i]
			if err := insertDoc(ctx, tx, "page", page.Id, page.WebLogId, pageDoc(page)); err != nil {
				return err
			}
			if err := insertRevisions(ctx, tx, "page_revision", "page_id", page.Id, page.Revisions); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update replaces the document and reconciles revision rows. The document
// write carries the tenant predicate; when it matches nothing, the revision
// side table is never touched.
func (p *pageStore) Update(ctx context.Context, page *models.Page) error {
	return withTx(ctx, p.db, func(tx *sql.Tx) error {
		found, err := updateDoc(ctx, tx, "page", page.Id, page.WebLogId, pageDoc(page))
		if err != nil {
			return err
		}
		if !found {
			return data.ErrNotFound
		}
		oldRevs, err := findRevisions(ctx, tx, "page_revision", "page_id", page.Id)
		if err != nil {
			return err
		}
		return applyRevisionDiff(ctx, tx, "page_revision", "page_id", page.Id, oldRevs, page.Revisions)
	})
}

func (p *pageStore) UpdatePriorPermalinks(ctx context.Context, pageId, webLogId string, permalinks []string) (bool, error) {
	return patchDoc(ctx, p.db, "page", pageId, webLogId, map[string]any{"PriorPermalinks": permalinks})
}

// findPermalink resolves any of the given prior permalinks to the current
// one; shared by pages and posts.
func findPermalink(ctx context.Context, db *sql.DB, table string, permalinks []string, webLogId string) (*string, error) {
	if len(permalinks) == 0 {
		return nil, nil
	}
	stmt := fmt.Sprintf(
		`SELECT json_extract(data, '$.Permalink') FROM %s
		  WHERE web_log_id = ?
		    AND EXISTS (SELECT 1 FROM json_each(data, '$.PriorPermalinks') WHERE value IN (%s))`,
		table, placeholders(len(permalinks)))
	return scanNullableString(db.QueryRowContext(ctx, stmt, append([]any{webLogId}, anySlice(permalinks)...)...))
}
