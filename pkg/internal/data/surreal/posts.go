package surreal

import (
	"context"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type postStore struct {
	db *surrealdb.DB
}

func (p *postStore) Add(ctx context.Context, post *models.Post) error {
	_, err := surrealdb.Create[models.Post](ctx, p.db, rid("post", post.Id), post)
	return err
}

func (p *postStore) CountByStatus(ctx context.Context, status models.PostStatus, webLogId string) (int64, error) {
	return countRows(ctx, p.db,
		`SELECT count() AS total FROM post
		  WHERE WebLogId = $web_log_id AND Status = $status
		  GROUP ALL`,
		map[string]any{"web_log_id": webLogId, "status": status})
}

func (p *postStore) Delete(ctx context.Context, postId, webLogId string) (bool, error) {
	return affected(ctx, p.db,
		`DELETE $post WHERE WebLogId = $web_log_id RETURN BEFORE`,
		map[string]any{"post": rid("post", postId), "web_log_id": webLogId})
}

func (p *postStore) FindById(ctx context.Context, postId, webLogId string) (*models.Post, error) {
	return queryOne[models.Post](ctx, p.db,
		`SELECT * OMIT Revisions FROM $post WHERE WebLogId = $web_log_id`,
		map[string]any{"post": rid("post", postId), "web_log_id": webLogId})
}

func (p *postStore) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogId string) (*string, error) {
	return findPermalink(ctx, p.db, "post", permalinks, webLogId)
}

func (p *postStore) FindFullById(ctx context.Context, postId, webLogId string) (*models.Post, error) {
	post, err := queryOne[models.Post](ctx, p.db,
		`SELECT * FROM $post WHERE WebLogId = $web_log_id`,
		map[string]any{"post": rid("post", postId), "web_log_id": webLogId})
	if err != nil || post == nil {
		return post, err
	}
	data.SortRevisions(post.Revisions)
	return post, nil
}

func (p *postStore) FindFullByWebLog(ctx context.Context, webLogId string) ([]models.Post, error) {
	posts, err := queryRows[models.Post](ctx, p.db,
		`SELECT * FROM post WHERE WebLogId = $web_log_id`,
		map[string]any{"web_log_id": webLogId})
	if err != nil {
		return nil, err
	}
	for i := range posts {
		data.SortRevisions(posts[i].Revisions)
	}
	return posts, nil
}

func (p *postStore) FindPageOfCategorizedPosts(ctx context.Context, webLogId string, categoryIds []string, pageNbr, postsPerPage int) ([]models.Post, error) {
	return queryRows[models.Post](ctx, p.db,
		`SELECT * OMIT Revisions FROM post
		  WHERE WebLogId = $web_log_id AND Status = $status AND CategoryIds CONTAINSANY $cat_ids
		  ORDER BY PublishedOn DESC
		  LIMIT $limit START $start`,
		map[string]any{
			"web_log_id": webLogId,
			"status":     models.Published,
			"cat_ids":    categoryIds,
			"limit":      postsPerPage + 1,
			"start":      (pageNbr - 1) * postsPerPage,
		})
}

func (p *postStore) FindPageOfPosts(ctx context.Context, webLogId string, pageNbr, postsPerPage int) ([]models.Post, error) {
	// Drafts have no publish instant; coalescing to a far-future date sorts
	// them ahead of every published post.
	return queryRows[models.Post](ctx, p.db,
		`SELECT *, PublishedOn ?? d"9999-12-31T00:00:00Z" AS PublishSort OMIT Revisions FROM post
		  WHERE WebLogId = $web_log_id
		  ORDER BY PublishSort DESC, UpdatedOn DESC
		  LIMIT $limit START $start`,
		map[string]any{
			"web_log_id": webLogId,
			"limit":      postsPerPage + 1,
			"start":      (pageNbr - 1) * postsPerPage,
		})
}

func (p *postStore) FindPageOfPublishedPosts(ctx context.Context, webLogId string, pageNbr, postsPerPage int) ([]models.Post, error) {
	return queryRows[models.Post](ctx, p.db,
		`SELECT * OMIT Revisions FROM post
		  WHERE WebLogId = $web_log_id AND Status = $status
		  ORDER BY PublishedOn DESC
		  LIMIT $limit START $start`,
		map[string]any{
			"web_log_id": webLogId,
			"status":     models.Published,
			"limit":      postsPerPage + 1,
			"start":      (pageNbr - 1) * postsPerPage,
		})
}

func (p *postStore) FindPageOfTaggedPosts(ctx context.Context, webLogId, tag string, pageNbr, postsPerPage int) ([]models.Post, error) {
	return queryRows[models.Post](ctx, p.db,
		`SELECT * OMIT Revisions FROM post
		  WHERE WebLogId = $web_log_id AND Status = $status AND Tags CONTAINS $tag
		  ORDER BY PublishedOn DESC
		  LIMIT $limit START $start`,
		map[string]any{
			"web_log_id": webLogId,
			"status":     models.Published,
			"tag":        tag,
			"limit":      postsPerPage + 1,
			"start":      (pageNbr - 1) * postsPerPage,
		})
}

func (p *postStore) FindSurroundingPosts(ctx context.Context, webLogId string, publishedOn time.Time) (*models.Post, *models.Post, error) {
	older, err := queryOne[models.Post](ctx, p.db,
		`SELECT * OMIT Revisions FROM post
		  WHERE WebLogId = $web_log_id AND Status = $status AND PublishedOn < $published_on
		  ORDER BY PublishedOn DESC
		  LIMIT 1`,
		map[string]any{"web_log_id": webLogId, "status": models.Published, "published_on": publishedOn})
	if err != nil {
		return nil, nil, err
	}
	newer, err := queryOne[models.Post](ctx, p.db,
		`SELECT * OMIT Revisions FROM post
		  WHERE WebLogId = $web_log_id AND Status = $status AND PublishedOn > $published_on
		  ORDER BY PublishedOn ASC
		  LIMIT 1`,
		map[string]any{"web_log_id": webLogId, "status": models.Published, "published_on": publishedOn})
	if err != nil {
		return nil, nil, err
	}
	return older, newer, nil
}

func (p *postStore) Restore(ctx context.Context, posts []models.Post) error {
	docs := make([]restoreDoc, len(posts))
	for i := range posts {
		docs[i] = restoreDoc{id: rid("post", posts[i].Id), doc: posts[i]}
	}
	return restore(ctx, p.db, docs)
}

func (p *postStore) Update(ctx context.Context, post *models.Post) error {
	found, err := affected(ctx, p.db,
		`UPDATE $post CONTENT $data WHERE WebLogId = $web_log_id RETURN AFTER`,
		map[string]any{"post": rid("post", post.Id), "data": post, "web_log_id": post.WebLogId})
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}

func (p *postStore) UpdatePriorPermalinks(ctx context.Context, postId, webLogId string, permalinks []string) (bool, error) {
	return affected(ctx, p.db,
		`UPDATE $post MERGE $patch WHERE WebLogId = $web_log_id RETURN AFTER`,
		map[string]any{
			"post":       rid("post", postId),
			"patch":      map[string]any{"PriorPermalinks": permalinks},
			"web_log_id": webLogId,
		})
}
