package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type categoryStore struct {
	db *sql.DB
}

func (c *categoryStore) Add(ctx context.Context, cat *models.Category) error {
	existing, err := c.FindByWebLog(ctx, cat.WebLogId)
	if err != nil {
		return err
	}
	if data.WouldCycle(append(existing, *cat), cat.Id, cat.ParentId) {
		return data.Conflict("category parent assignment would create a cycle")
	}
	return insertDoc(ctx, c.db, "category", cat.Id, cat.WebLogId, cat)
}

func (c *categoryStore) CountAll(ctx context.Context, webLogId string) (int64, error) {
	return countWhere(ctx, c.db, `SELECT COUNT(id) FROM category WHERE web_log_id = ?`, webLogId)
}

func (c *categoryStore) CountTopLevel(ctx context.Context, webLogId string) (int64, error) {
	return countWhere(ctx, c.db,
		`SELECT COUNT(id) FROM category WHERE web_log_id = ? AND json_extract(data, '$.ParentId') IS NULL`,
		webLogId)
}

func (c *categoryStore) Delete(ctx context.Context, catId, webLogId string) (data.CategoryDeleteResult, error) {
	cat, err := c.FindById(ctx, catId, webLogId)
	if err != nil {
		return data.CategoryNotFound, err
	}
	if cat == nil {
		return data.CategoryNotFound, nil
	}

	children, err := countWhere(ctx, c.db,
		`SELECT COUNT(id) FROM category WHERE web_log_id = ? AND json_extract(data, '$.ParentId') = ?`,
		webLogId, catId)
	if err != nil {
		return data.CategoryNotFound, err
	}

	err = withTx(ctx, c.db, func(tx *sql.Tx) error {
		if children > 0 {
			patch, err := json.Marshal(map[string]any{"ParentId": cat.ParentId})
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE category SET data = json_patch(data, ?)
				  WHERE web_log_id = ? AND json_extract(data, '$.ParentId') = ?`,
				string(patch), webLogId, catId); err != nil {
				return err
			}
		}
		// Strip the category from every post that carries it.
		if _, err := tx.ExecContext(ctx,
			`UPDATE post
			    SET data = json_set(data, '$.CategoryIds',
			          json((SELECT json_group_array(value)
			                  FROM json_each(data, '$.CategoryIds')
			                 WHERE value <> ?)))
			  WHERE web_log_id = ?
			    AND EXISTS (SELECT 1 FROM json_each(data, '$.CategoryIds') WHERE value = ?)`,
			catId, webLogId, catId); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM category WHERE id = ? AND web_log_id = ?`, catId, webLogId)
		return err
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
		ids := data.SubtreeIds(ordered, it)
		stmt := fmt.Sprintf(
			`SELECT COUNT(DISTINCT id) FROM post
			  WHERE web_log_id = ?
			    AND json_extract(data, '$.Status') = ?
			    AND EXISTS (SELECT 1 FROM json_each(data, '$.CategoryIds') WHERE value IN (%s))`,
			placeholders(len(ids)))
		count, err := countWhere(ctx, c.db, stmt,
			append([]any{webLogId, models.Published}, anySlice(ids)...)...)
		if err != nil {
			return nil, err
		}
		ordered[i].PostCount = int(count)
	}
	return ordered, nil
}

func (c *categoryStore) FindById(ctx context.Context, catId, webLogId string) (*models.Category, error) {
	return findDocById[models.Category](ctx, c.db, "category", catId, webLogId)
}

func (c *categoryStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.Category, error) {
	return findDocsByContains[models.Category](ctx, c.db, "category", webLogId,
		map[string]any{}, `LOWER(json_extract(data, '$.Name'))`)
}

func (c *categoryStore) Restore(ctx context.Context, cats []models.Category) error {
	return withTx(ctx, c.db, func(tx *sql.Tx) error {
		for _, cat := range cats {
			if err := insertDoc(ctx, tx, "category", cat.Id, cat.WebLogId, cat); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *categoryStore) Update(ctx context.Context, cat *models.Category) error {
	existing, err := c.FindByWebLog(ctx, cat.WebLogId)
	if err != nil {
		return err
	}
	if data.WouldCycle(existing, cat.Id, cat.ParentId) {
		return data.Conflict("category parent assignment would create a cycle")
	}
	found, err := updateDoc(ctx, c.db, "category", cat.Id, cat.WebLogId, cat)
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}
