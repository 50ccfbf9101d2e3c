package surreal

import (
	"context"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type categoryStore struct {
	db *surrealdb.DB
}

func (c *categoryStore) Add(ctx context.Context, cat *models.Category) error {
	existing, err := c.FindByWebLog(ctx, cat.WebLogId)
	if err != nil {
		return err
	}
	if data.WouldCycle(append(existing, *cat), cat.Id, cat.ParentId) {
		return data.Conflict("category parent assignment would create a cycle")
	}
	_, err = surrealdb.Create[models.Category](ctx, c.db, rid("category", cat.Id), cat)
	return err
}

func (c *categoryStore) CountAll(ctx context.Context, webLogId string) (int64, error) {
	return countRows(ctx, c.db,
		`SELECT count() AS total FROM category WHERE WebLogId = $web_log_id GROUP ALL`,
		map[string]any{"web_log_id": webLogId})
}

func (c *categoryStore) CountTopLevel(ctx context.Context, webLogId string) (int64, error) {
	return countRows(ctx, c.db,
		`SELECT count() AS total FROM category
		  WHERE WebLogId = $web_log_id AND (ParentId = NONE OR ParentId = NULL)
		  GROUP ALL`,
		map[string]any{"web_log_id": webLogId})
}

func (c *categoryStore) Delete(ctx context.Context, catId, webLogId string) (data.CategoryDeleteResult, error) {
	cat, err := c.FindById(ctx, catId, webLogId)
	if err != nil {
		return data.CategoryNotFound, err
	}
	if cat == nil {
		return data.CategoryNotFound, nil
	}

	children, err := countRows(ctx, c.db,
		`SELECT count() AS total FROM category
		  WHERE WebLogId = $web_log_id AND ParentId = $cat_id
		  GROUP ALL`,
		map[string]any{"web_log_id": webLogId, "cat_id": catId})
	if err != nil {
		return data.CategoryNotFound, err
	}

	// Re-parent children, strip the id from posts, and remove the category in
	// one transaction.
	err = execute(ctx, c.db, `
		BEGIN TRANSACTION;
		UPDATE category SET ParentId = $parent_id WHERE WebLogId = $web_log_id AND ParentId = $cat_id;
		UPDATE post SET CategoryIds -= $cat_id WHERE WebLogId = $web_log_id AND CategoryIds CONTAINS $cat_id;
		DELETE $category;
		COMMIT TRANSACTION;`,
		map[string]any{
			"web_log_id": webLogId,
			"cat_id":     catId,
			"parent_id":  cat.ParentId,
			"category":   rid("category", catId),
		})
	if err != nil {
		return data.CategoryNotFound, err
	}
	if children > 0 {
		return data.CategoryReassigned, nil
	}
	return data.CategoryDeleted, nil
}

func (c *categoryStore) FindAllForView(ctx context.Context, webLogId string) ([]models.DisplayCategory, error) {
	cats, err := c.FindByWebLog(ctx, webLogId)
	if err != nil {
		return nil, err
	}
	ordered, err := data.OrderByHierarchy(cats)
	if err != nil {
		return nil, err
	}
	for i, it := range ordered {
		count, err := countRows(ctx, c.db,
			`SELECT count() AS total FROM post
			  WHERE WebLogId = $web_log_id AND Status = $status AND CategoryIds CONTAINSANY $cat_ids
			  GROUP ALL`,
			map[string]any{
				"web_log_id": webLogId,
				"status":     models.Published,
				"cat_ids":    data.SubtreeIds(ordered, it),
			})
		if err != nil {
			return nil, err
		}
		ordered[i].PostCount = int(count)
	}
	return ordered, nil
}

func (c *categoryStore) FindById(ctx context.Context, catId, webLogId string) (*models.Category, error) {
	return queryOne[models.Category](ctx, c.db,
		`SELECT * FROM $category WHERE WebLogId = $web_log_id`,
		map[string]any{"category": rid("category", catId), "web_log_id": webLogId})
}

func (c *categoryStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.Category, error) {
	return queryRows[models.Category](ctx, c.db,
		`SELECT * FROM category WHERE WebLogId = $web_log_id ORDER BY Name COLLATE`,
		map[string]any{"web_log_id": webLogId})
}

func (c *categoryStore) Restore(ctx context.Context, cats []models.Category) error {
	docs := make([]restoreDoc, len(cats))
	for i, cat := range cats {
		docs[i] = restoreDoc{id: rid("category", cat.Id), doc: cat}
	}
	return restore(ctx, c.db, docs)
}

func (c *categoryStore) Update(ctx context.Context, cat *models.Category) error {
	existing, err := c.FindByWebLog(ctx, cat.WebLogId)
	if err != nil {
		return err
	}
	if data.WouldCycle(existing, cat.Id, cat.ParentId) {
		return data.Conflict("category parent assignment would create a cycle")
	}
	found, err := affected(ctx, c.db,
		`UPDATE $category CONTENT $data WHERE WebLogId = $web_log_id RETURN AFTER`,
		map[string]any{"category": rid("category", cat.Id), "data": cat, "web_log_id": cat.WebLogId})
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}
