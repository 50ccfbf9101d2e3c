package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type postStore struct {
	db *sql.DB
}

func postDoc(post *models.Post) models.Post {
	doc := *post
	doc.Revisions = nil
	return doc
}

func (p *postStore) Add(ctx context.Context, post *models.Post) error {
	return withTx(ctx, p.db, func(tx *sql.Tx) error {
		if err := insertDoc(ctx, tx, "post", post.Id, post.WebLogId, postDoc(post)); err != nil {
			return err
		}
		return insertRevisions(ctx, tx, "post_revision", "post_id", post.Id, post.Revisions)
	})
}

func (p *postStore) CountByStatus(ctx context.Context, status models.PostStatus, webLogId string) (int64, error) {
	return countWhere(ctx, p.db,
		`SELECT COUNT(id) FROM post WHERE web_log_id = ? AND json_extract(data, '$.Status') = ?`,
		webLogId, status)
}

func (p *postStore) Delete(ctx context.Context, postId, webLogId string) (bool, error) {
	var found bool
	err := withTx(ctx, p.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM post_revision WHERE post_id IN (SELECT id FROM post WHERE id = ? AND web_log_id = ?)`,
			postId, webLogId); err != nil {
			return err
		}
		var err error
		found, err = deleteDoc(ctx, tx, "post", postId, webLogId)
		return err
	})
	return found, err
}

func (p *postStore) FindById(ctx context.Context, postId, webLogId string) (*models.Post, error) {
	return findDocById[models.Post](ctx, p.db, "post", postId, webLogId)
}

func (p *postStore) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogId string) (*string, error) {
	return findPermalink(ctx, p.db, "post", permalinks, webLogId)
}

func (p *postStore) FindFullById(ctx context.Context, postId, webLogId string) (*models.Post, error) {
	post, err := p.FindById(ctx, postId, webLogId)
	if err != nil || post == nil {
		return post, err
	}
	post.Revisions, err = findRevisions(ctx, p.db, "post_revision", "post_id", post.Id)
	return post, err
}

func (p *postStore) FindFullByWebLog(ctx context.Context, webLogId string) ([]models.Post, error) {
	posts, err := findDocsWhere[models.Post](ctx, p.db,
		`SELECT data FROM post WHERE web_log_id = ?`, webLogId)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Revisions, err = findRevisions(ctx, p.db, "post_revision", "post_id", posts[i].Id); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (p *postStore) FindPageOfCategorizedPosts(ctx context.Context, webLogId string, categoryIds []string, pageNbr, postsPerPage int) ([]models.Post, error) {
	stmt := fmt.Sprintf(
		`SELECT data FROM post
		  WHERE web_log_id = ?
		    AND json_extract(data, '$.Status') = ?
		    AND EXISTS (SELECT 1 FROM json_each(data, '$.CategoryIds') WHERE value IN (%s))
		  ORDER BY %s DESC
		  LIMIT ? OFFSET ?`,
		placeholders(len(categoryIds)), orderInstant(`json_extract(data, '$.PublishedOn')`))
	args := append([]any{webLogId, models.Published}, anySlice(categoryIds)...)
	args = append(args, postsPerPage+1, (pageNbr-1)*postsPerPage)
	return findDocsWhere[models.Post](ctx, p.db, stmt, args...)
}

func (p *postStore) FindPageOfPosts(ctx context.Context, webLogId string, pageNbr, postsPerPage int) ([]models.Post, error) {
	stmt := fmt.Sprintf(
		`SELECT data FROM post
		  WHERE web_log_id = ?
		  ORDER BY %s DESC NULLS FIRST, %s DESC
		  LIMIT ? OFFSET ?`,
		orderInstant(`json_extract(data, '$.PublishedOn')`), orderInstant(`json_extract(data, '$.UpdatedOn')`))
	return findDocsWhere[models.Post](ctx, p.db, stmt,
		webLogId, postsPerPage+1, (pageNbr-1)*postsPerPage)
}

func (p *postStore) FindPageOfPublishedPosts(ctx context.Context, webLogId string, pageNbr, postsPerPage int) ([]models.Post, error) {
	stmt := fmt.Sprintf(
		`SELECT data FROM post
		  WHERE web_log_id = ? AND json_extract(data, '$.Status') = ?
		  ORDER BY %s DESC
		  LIMIT ? OFFSET ?`,
		orderInstant(`json_extract(data, '$.PublishedOn')`))
	return findDocsWhere[models.Post](ctx, p.db, stmt,
		webLogId, models.Published, postsPerPage+1, (pageNbr-1)*postsPerPage)
}

func (p *postStore) FindPageOfTaggedPosts(ctx context.Context, webLogId, tag string, pageNbr, postsPerPage int) ([]models.Post, error) {
	stmt := fmt.Sprintf(
		`SELECT data FROM post
		  WHERE web_log_id = ?
		    AND json_extract(data, '$.Status') = ?
		    AND EXISTS (SELECT 1 FROM json_each(data, '$.Tags') WHERE value = ?)
		  ORDER BY %s DESC
		  LIMIT ? OFFSET ?`,
		orderInstant(`json_extract(data, '$.PublishedOn')`))
	return findDocsWhere[models.Post](ctx, p.db, stmt,
		webLogId, models.Published, tag, postsPerPage+1, (pageNbr-1)*postsPerPage)
}

func (p *postStore) FindSurroundingPosts(ctx context.Context, webLogId string, publishedOn time.Time) (*models.Post, *models.Post, error) {
	published := orderInstant(`json_extract(data, '$.PublishedOn')`)
	pivot := orderInstant(`?`)
	older, err := findDocsWhere[models.Post](ctx, p.db, fmt.Sprintf(
		`SELECT data FROM post
		  WHERE web_log_id = ?
		    AND json_extract(data, '$.Status') = ?
		    AND %s < %s
		  ORDER BY %s DESC
		  LIMIT 1`, published, pivot, published),
		webLogId, models.Published, instant(publishedOn))
	if err != nil {
		return nil, nil, err
	}
	newer, err := findDocsWhere[models.Post](ctx, p.db, fmt.Sprintf(
		`SELECT data FROM post
		  WHERE web_log_id = ?
		    AND json_extract(data, '$.Status') = ?
		    AND %s > %s
		  ORDER BY %s ASC
		  LIMIT 1`, published, pivot, published),
		webLogId, models.Published, instant(publishedOn))
	if err != nil {
		return nil, nil, err
	}
	return first(older), first(newer), nil
}

func (p *postStore) Restore(ctx context.Context, posts []models.Post) error {
	return withTx(ctx, p.db, func(tx *sql.Tx) error {
		for i := range posts {
			post := &posts[i]
			if err := insertDoc(ctx, tx, "post", post.Id, post.WebLogId, postDoc(post)); err != nil {
				return err
			}
			if err := insertRevisions(ctx, tx, "post_revision", "post_id", post.Id, post.Revisions); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update replaces the document and reconciles revision rows. The document
// write carries the tenant predicate; when it matches nothing, the revision
// side table is never touched.
func (p *postStore) Update(ctx context.Context, post *models.Post) error {
	return withTx(ctx, p.db, func(tx *sql.Tx) error {
		found, err := updateDoc(ctx, tx, "post", post.Id, post.WebLogId, postDoc(post))
		if err != nil {
			return err
		}
		if !found {
			return data.ErrNotFound
		}
		oldRevs, err := findRevisions(ctx, tx, "post_revision", "post_id", post.Id)
		if err != nil {
			return err
		}
		return applyRevisionDiff(ctx, tx, "post_revision", "post_id", post.Id, oldRevs, post.Revisions)
	})
}

func (p *postStore) UpdatePriorPermalinks(ctx context.Context, postId, webLogId string, permalinks []string) (bool, error) {
	return patchDoc(ctx, p.db, "post", postId, webLogId, map[string]any{"PriorPermalinks": permalinks})
}

func first(posts []models.Post) *models.Post {
	if len(posts) == 0 {
		return nil
	}
	return &posts[0]
}
