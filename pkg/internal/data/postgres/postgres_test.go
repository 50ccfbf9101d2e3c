package postgres

// These tests need a live PostgreSQL server; set INKWELL_TEST_PG_URI to run
// them. Ids are fresh per run so leftover rows from a prior run cannot
// interfere, and each test deletes its web log on cleanup.

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("INKWELL_TEST_PG_URI")
	if uri == "" {
		t.Skip("INKWELL_TEST_PG_URI not set")
	}
	s, err := New(uri)
	require.NoError(t, err)
	require.NoError(t, s.StartUp(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func addTestWebLog(t *testing.T, s *Store) string {
	t.Helper()
	ctx := context.Background()
	webLogId := models.NewId()
	require.NoError(t, s.WebLogs().Add(ctx, &models.WebLog{
		Id:           webLogId,
		Name:         "Integration " + webLogId[:8],
		Slug:         "integration",
		DefaultPage:  "posts",
		PostsPerPage: 10,
		ThemeId:      "default",
		UrlBase:      "https://" + webLogId[:8] + ".example.com",
		TimeZone:     "America/Denver",
		Uploads:      models.UploadToDatabase,
	}))
	t.Cleanup(func() { _ = s.WebLogs().Delete(ctx, webLogId) })
	return webLogId
}

func TestWebLogRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	webLogId := addTestWebLog(t, s)

	found, err := s.WebLogs().FindById(ctx, webLogId)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "America/Denver", found.TimeZone)

	found.Name = "Renamed"
	require.NoError(t, s.WebLogs().UpdateSettings(ctx, found))

	renamed, err := s.WebLogs().FindById(ctx, webLogId)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)

	ghost := *found
	ghost.Id = models.NewId()
	assert.ErrorIs(t, s.WebLogs().UpdateSettings(ctx, &ghost), data.ErrNotFound)
}

func TestPageRevisions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	webLogId := addTestWebLog(t, s)

	asOf := time.Date(2024, 1, 1, 9, 0, 0, 123_456_000, time.UTC)
	page := &models.Page{
		Id:          models.NewId(),
		WebLogId:    webLogId,
		AuthorId:    models.NewId(),
		Title:       "About",
		Permalink:   "about",
		PublishedOn: asOf,
		UpdatedOn:   asOf,
		Text:        "Markdown: about",
		Revisions:   []models.Revision{{AsOf: asOf, Text: "Markdown: about"}},
	}
	require.NoError(t, s.Pages().Add(ctx, page))

	plain, err := s.Pages().FindById(ctx, page.Id, webLogId)
	require.NoError(t, err)
	require.NotNil(t, plain)
	assert.Empty(t, plain.Revisions)

	full, err := s.Pages().FindFullById(ctx, page.Id, webLogId)
	require.NoError(t, err)
	require.Len(t, full.Revisions, 1)
	assert.True(t, asOf.Equal(full.Revisions[0].AsOf), "sub-second precision survives")
}

func TestUpdateIsTenantScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	webLogId := addTestWebLog(t, s)

	asOf := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	post := &models.Post{
		Id:          models.NewId(),
		WebLogId:    webLogId,
		AuthorId:    models.NewId(),
		Status:      models.Published,
		Title:       "Original",
		Permalink:   models.NewId(),
		PublishedOn: &asOf,
		UpdatedOn:   asOf,
		Text:        "Markdown: original body",
		Revisions:   []models.Revision{{AsOf: asOf, Text: "Markdown: original body"}},
	}
	require.NoError(t, s.Posts().Add(ctx, post))

	// The same id under another tenant must reach neither the document nor
	// its revision history.
	foreign := *post
	foreign.WebLogId = models.NewId()
	foreign.Text = "Markdown: rewritten body"
	foreign.Revisions = []models.Revision{{AsOf: asOf.Add(time.Hour), Text: "Markdown: rewritten body"}}
	assert.ErrorIs(t, s.Posts().Update(ctx, &foreign), data.ErrNotFound)

	kept, err := s.Posts().FindFullById(ctx, post.Id, webLogId)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "Markdown: original body", kept.Text)
	require.Len(t, kept.Revisions, 1)
	assert.Equal(t, "Markdown: original body", kept.Revisions[0].Text)
}

func TestCategoryDeleteReassigns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	webLogId := addTestWebLog(t, s)

	parentId, childId := models.NewId(), models.NewId()
	require.NoError(t, s.Categories().Add(ctx, &models.Category{
		Id: parentId, WebLogId: webLogId, Name: "Parent", Slug: "parent",
	}))
	require.NoError(t, s.Categories().Add(ctx, &models.Category{
		Id: childId, WebLogId: webLogId, Name: "Child", Slug: "child", ParentId: lo.ToPtr(parentId),
	}))

	result, err := s.Categories().Delete(ctx, parentId, webLogId)
	require.NoError(t, err)
	assert.Equal(t, data.CategoryReassigned, result)

	child, err := s.Categories().FindById(ctx, childId, webLogId)
	require.NoError(t, err)
	require.NotNil(t, child)
	assert.Nil(t, child.ParentId)
}

func TestPostPublishedPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	webLogId := addTestWebLog(t, s)

	authorId := models.NewId()
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		publishedOn := base.AddDate(0, 0, i)
		require.NoError(t, s.Posts().Add(ctx, &models.Post{
			Id:          models.NewId(),
			WebLogId:    webLogId,
			AuthorId:    authorId,
			Status:      models.Published,
			Title:       "Post",
			Permalink:   models.NewId(),
			PublishedOn: &publishedOn,
			UpdatedOn:   publishedOn,
			Text:        "Markdown: post",
			Revisions:   []models.Revision{{AsOf: publishedOn, Text: "Markdown: post"}},
		}))
	}

	posts, err := s.Posts().FindPageOfPublishedPosts(ctx, webLogId, 1, 2)
	require.NoError(t, err)
	require.Len(t, posts, 3, "one extra row signals a following page")
	require.NotNil(t, posts[0].PublishedOn)
	require.NotNil(t, posts[1].PublishedOn)
	assert.True(t, posts[0].PublishedOn.After(*posts[1].PublishedOn))
}
