package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type postStore struct {
	db *gorm.DB
}

func postDoc(post *models.Post) models.Post {
	doc := *post
	doc.Revisions = nil
	return doc
}

func (p *postStore) Add(ctx context.Context, post *models.Post) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertDoc(ctx, tx, "post", post.Id, post.WebLogId, postDoc(post)); err != nil {
			return err
		}
		return insertRevisions(tx, "post_revision", "post_id", post.Id, post.Revisions)
	})
}

func (p *postStore) CountByStatus(ctx context.Context, status models.PostStatus, webLogId string) (int64, error) {
	return countWhere(ctx, p.db,
		`SELECT COUNT(id) FROM post WHERE web_log_id = ? AND data ->> 'Status' = ?`, webLogId, status)
}

func (p *postStore) Delete(ctx context.Context, postId, webLogId string) (bool, error) {
	var found bool
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM post_revision WHERE post_id IN (SELECT id FROM post WHERE id = ? AND web_log_id = ?)`,
			postId, webLogId).Error; err != nil {
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
	return findDocsWhere[models.Post](ctx, p.db,
		`SELECT data FROM post
		  WHERE web_log_id = ?
		    AND data ->> 'Status' = ?
		    AND EXISTS (SELECT 1 FROM jsonb_array_elements_text(data -> 'CategoryIds') el WHERE el IN ?)
		  ORDER BY (data ->> 'PublishedOn')::timestamptz DESC
		  LIMIT ? OFFSET ?`,
		webLogId, models.Published, categoryIds, postsPerPage+1, (pageNbr-1)*postsPerPage)
}

func (p *postStore) FindPageOfPosts(ctx context.Context, webLogId string, pageNbr, postsPerPage int) ([]models.Post, error) {
	return findDocsWhere[models.Post](ctx, p.db,
		`SELECT data FROM post
		  WHERE web_log_id = ?
		  ORDER BY (data ->> 'PublishedOn')::timestamptz DESC NULLS FIRST,
		           (data ->> 'UpdatedOn')::timestamptz DESC
		  LIMIT ? OFFSET ?`,
		webLogId, postsPerPage+1, (pageNbr-1)*postsPerPage)
}

func (p *postStore) FindPageOfPublishedPosts(ctx context.Context, webLogId string, pageNbr, postsPerPage int) ([]models.Post, error) {
	return findDocsWhere[models.Post](ctx, p.db,
		`SELECT data FROM post
		  WHERE web_log_id = ? AND data ->> 'Status' = ?
		  ORDER BY (data ->> 'PublishedOn')::timestamptz DESC
		  LIMIT ? OFFSET ?`,
		webLogId, models.Published, postsPerPage+1, (pageNbr-1)*postsPerPage)
}

func (p *postStore) FindPageOfTaggedPosts(ctx context.Context, webLogId, tag string, pageNbr, postsPerPage int) ([]models.Post, error) {
	return findDocsWhere[models.Post](ctx, p.db,
		`SELECT data FROM post
		  WHERE web_log_id = ?
		    AND data ->> 'Status' = ?
		    AND EXISTS (SELECT 1 FROM jsonb_array_elements_text(data -> 'Tags') el WHERE el = ?)
		  ORDER BY (data ->> 'PublishedOn')::timestamptz DESC
		  LIMIT ? OFFSET ?`,
		webLogId, models.Published, tag, postsPerPage+1, (pageNbr-1)*postsPerPage)
}

func (p *postStore) FindSurroundingPosts(ctx context.Context, webLogId string, publishedOn time.Time) (*models.Post, *models.Post, error) {
	older, err := findDocsWhere[models.Post](ctx, p.db,
		`SELECT data FROM post
		  WHERE web_log_id = ?
		    AND data ->> 'Status' = ?
		    AND (data ->> 'PublishedOn')::timestamptz < ?
		  ORDER BY (data ->> 'PublishedOn')::timestamptz DESC
		  LIMIT 1`,
		webLogId, models.Published, publishedOn)
	if err != nil {
		return nil, nil, err
	}
	newer, err := findDocsWhere[models.Post](ctx, p.db,
		`SELECT data FROM post
		  WHERE web_log_id = ?
		    AND data ->> 'Status' = ?
		    AND (data ->> 'PublishedOn')::timestamptz > ?
		  ORDER BY (data ->> 'PublishedOn')::timestamptz ASC
		  LIMIT 1`,
		webLogId, models.Published, publishedOn)
	if err != nil {
		return nil, nil, err
	}
	return first(older), first(newer), nil
}

func (p *postStore) Restore(ctx context.Context, posts []models.Post) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range posts {
			post := &posts[i]
			if err := insertDoc(ctx, tx, "post", post.Id, post.WebLogId, postDoc(post)); err != nil {
				return err
			}
			if err := insertRevisions(tx, "post_revision", "post_id", post.Id, post.Revisions); err != nil {
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
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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
		return applyRevisionDiff(tx, "post_revision", "post_id", post.Id, oldRevs, post.Revisions)
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
