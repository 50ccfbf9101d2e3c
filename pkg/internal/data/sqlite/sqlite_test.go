package sqlite

import (
	"context"
	"path/filepath"
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
	s, err := New(filepath.Join(t.TempDir(), "inkwell.db"))
	require.NoError(t, err)
	require.NoError(t, s.StartUp(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testWebLog(id, name, urlBase string) *models.WebLog {
	return &models.WebLog{
		Id:           id,
		Name:         name,
		Slug:         "test-log",
		DefaultPage:  "posts",
		PostsPerPage: 10,
		ThemeId:      "default",
		UrlBase:      urlBase,
		TimeZone:     "America/Denver",
		Uploads:      models.UploadToDatabase,
	}
}

func TestStartUpIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.StartUp(context.Background()))
}

func TestWebLogRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	webLog := testWebLog("wl1", "beta log", "https://beta.example.com")
	require.NoError(t, s.WebLogs().Add(ctx, webLog))
	require.NoError(t, s.WebLogs().Add(ctx, testWebLog("wl2", "Alpha Log", "https://alpha.example.com")))

	found, err := s.WebLogs().FindById(ctx, "wl1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "beta log", found.Name)
	assert.Equal(t, "America/Denver", found.TimeZone)

	byHost, err := s.WebLogs().FindByHost(ctx, "https://alpha.example.com")
	require.NoError(t, err)
	require.NotNil(t, byHost)
	assert.Equal(t, "wl2", byHost.Id)

	missing, err := s.WebLogs().FindById(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := s.WebLogs().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha Log", all[0].Name, "ordering ignores case")
	assert.Equal(t, "beta log", all[1].Name)
}

func TestWebLogUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	webLog := testWebLog("wl1", "Test", "https://test.example.com")
	require.NoError(t, s.WebLogs().Add(ctx, webLog))

	webLog.Rss = models.RssOptions{IsFeedEnabled: true, FeedName: "feed.xml", ItemsInFeed: lo.ToPtr(20)}
	require.NoError(t, s.WebLogs().UpdateRssOptions(ctx, webLog))

	webLog.RedirectRules = []models.RedirectRule{{From: "/old", To: "/new"}}
	require.NoError(t, s.WebLogs().UpdateRedirectRules(ctx, webLog))

	found, err := s.WebLogs().FindById(ctx, "wl1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Rss.IsFeedEnabled)
	require.NotNil(t, found.Rss.ItemsInFeed)
	assert.Equal(t, 20, *found.Rss.ItemsInFeed)
	require.Len(t, found.RedirectRules, 1)
	assert.Equal(t, "Test", found.Name, "patches leave other fields alone")

	found.Name = "Renamed"
	require.NoError(t, s.WebLogs().UpdateSettings(ctx, found))

	renamed, err := s.WebLogs().FindById(ctx, "wl1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)

	ghost := testWebLog("ghost", "Ghost", "https://ghost.example.com")
	assert.ErrorIs(t, s.WebLogs().UpdateSettings(ctx, ghost), data.ErrNotFound)
}

func TestWebLogDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WebLogs().Add(ctx, testWebLog("wl1", "Test", "https://test.example.com")))
	require.NoError(t, s.Categories().Add(ctx, &models.Category{Id: "c1", WebLogId: "wl1", Name: "News", Slug: "news"}))
	require.NoError(t, s.Pages().Add(ctx, testPage("pg1", "wl1", "About", "about")))
	require.NoError(t, s.Posts().Add(ctx, testPost("p1", "wl1", "First", "first", published(t, "2024-01-01T12:00:00Z"))))
	require.NoError(t, s.Users().Add(ctx, testUser("u1", "wl1", "one@example.com")))

	require.NoError(t, s.WebLogs().Delete(ctx, "wl1"))

	webLog, err := s.WebLogs().FindById(ctx, "wl1")
	require.NoError(t, err)
	assert.Nil(t, webLog)

	cats, err := s.Categories().FindByWebLog(ctx, "wl1")
	require.NoError(t, err)
	assert.Empty(t, cats)

	pageCount, err := s.Pages().CountAll(ctx, "wl1")
	require.NoError(t, err)
	assert.Zero(t, pageCount)

	revCount, err := countWhere(ctx, s.db, `SELECT COUNT(*) FROM page_revision`)
	require.NoError(t, err)
	assert.Zero(t, revCount, "revision rows go with the web log")
}

func TestCategoryHierarchyAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fav := &models.Category{Id: "fav", WebLogId: "wl1", Name: "Favorites", Slug: "favorites"}
	spit := &models.Category{Id: "spit", WebLogId: "wl1", Name: "Spitball", Slug: "spitball", ParentId: lo.ToPtr("fav")}
	require.NoError(t, s.Categories().Add(ctx, fav))
	require.NoError(t, s.Categories().Add(ctx, spit))

	countAll, err := s.Categories().CountAll(ctx, "wl1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, countAll)

	topLevel, err := s.Categories().CountTopLevel(ctx, "wl1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, topLevel)

	otherTenant, err := s.Categories().FindById(ctx, "fav", "wl2")
	require.NoError(t, err)
	assert.Nil(t, otherTenant, "tenant scoping")

	// Re-parenting the root under its child must be rejected.
	fav.ParentId = lo.ToPtr("spit")
	err = s.Categories().Update(ctx, fav)
	var conflict *data.ConflictError
	require.ErrorAs(t, err, &conflict)
	fav.ParentId = nil

	post := testPost("p1", "wl1", "Categorized", "categorized", published(t, "2024-02-01T08:00:00Z"))
	post.CategoryIds = []string{"fav", "other"}
	require.NoError(t, s.Posts().Add(ctx, post))

	result, err := s.Categories().Delete(ctx, "fav", "wl1")
	require.NoError(t, err)
	assert.Equal(t, data.CategoryReassigned, result)

	child, err := s.Categories().FindById(ctx, "spit", "wl1")
	require.NoError(t, err)
	require.NotNil(t, child)
	assert.Nil(t, child.ParentId, "children move up to the deleted category's parent")

	updated, err := s.Posts().FindById(ctx, "p1", "wl1")
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, updated.CategoryIds, "deleted category leaves posts")

	result, err = s.Categories().Delete(ctx, "fav", "wl1")
	require.NoError(t, err)
	assert.Equal(t, data.CategoryNotFound, result)

	result, err = s.Categories().Delete(ctx, "spit", "wl1")
	require.NoError(t, err)
	assert.Equal(t, data.CategoryDeleted, result)
}

func TestCategoryFindAllForView(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Categories().Add(ctx, &models.Category{Id: "fav", WebLogId: "wl1", Name: "Favorites", Slug: "favorites"}))
	require.NoError(t, s.Categories().Add(ctx, &models.Category{Id: "spit", WebLogId: "wl1", Name: "Spitball", Slug: "spitball", ParentId: lo.ToPtr("fav")}))

	inChild := testPost("p1", "wl1", "In Child", "in-child", published(t, "2024-02-01T08:00:00Z"))
	inChild.CategoryIds = []string{"spit"}
	require.NoError(t, s.Posts().Add(ctx, inChild))

	draft := testPost("p2", "wl1", "Draft", "draft", nil)
	draft.Status = models.Draft
	draft.CategoryIds = []string{"fav"}
	require.NoError(t, s.Posts().Add(ctx, draft))

	view, err := s.Categories().FindAllForView(ctx, "wl1")
	require.NoError(t, err)
	require.Len(t, view, 2)

	assert.Equal(t, "Favorites", view[0].Name)
	assert.Equal(t, 1, view[0].PostCount, "descendant posts count; drafts do not")
	assert.Equal(t, "Spitball", view[1].Name)
	assert.Equal(t, []string{"Favorites"}, view[1].ParentNames)
	assert.Equal(t, 1, view[1].PostCount)
}

func testPage(id, webLogId, title, permalink string) *models.Page {
	asOf := time.Date(2024, 1, 1, 9, 0, 0, 123_456_789, time.UTC)
	return &models.Page{
		Id:          id,
		WebLogId:    webLogId,
		AuthorId:    "u1",
		Title:       title,
		Permalink:   permalink,
		PublishedOn: asOf,
		UpdatedOn:   asOf,
		Text:        "Markdown: body of " + title,
		Metadata:    []models.MetaItem{{Name: "Rating", Value: "G"}},
		Revisions:   []models.Revision{{AsOf: asOf, Text: "Markdown: body of " + title}},
	}
}

func TestPageRevisionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page := testPage("pg1", "wl1", "About", "about")
	require.NoError(t, s.Pages().Add(ctx, page))

	plain, err := s.Pages().FindById(ctx, "pg1", "wl1")
	require.NoError(t, err)
	require.NotNil(t, plain)
	assert.Empty(t, plain.Revisions, "revisions live in the side table")
	assert.Equal(t, "Markdown: body of About", plain.Text)

	full, err := s.Pages().FindFullById(ctx, "pg1", "wl1")
	require.NoError(t, err)
	require.NotNil(t, full)
	require.Len(t, full.Revisions, 1)
	assert.Equal(t, page.Revisions[0].AsOf, full.Revisions[0].AsOf, "sub-second precision survives")

	// Editing adds a revision; the old one stays.
	newRev := models.Revision{AsOf: page.Revisions[0].AsOf.Add(time.Hour), Text: "Markdown: edited"}
	full.Text = newRev.Text
	full.Revisions = append([]models.Revision{newRev}, full.Revisions...)
	require.NoError(t, s.Pages().Update(ctx, full))

	edited, err := s.Pages().FindFullById(ctx, "pg1", "wl1")
	require.NoError(t, err)
	require.Len(t, edited.Revisions, 2)
	assert.Equal(t, "Markdown: edited", edited.Revisions[0].Text, "newest first")
}

func TestPageLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	about := testPage("pg1", "wl1", "about us", "about")
	about.IsInPageList = true
	require.NoError(t, s.Pages().Add(ctx, about))
	require.NoError(t, s.Pages().Add(ctx, testPage("pg2", "wl1", "Contact", "contact")))

	all, err := s.Pages().All(ctx, "wl1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "about us", all[0].Title, "ordering ignores case")
	assert.Empty(t, all[0].Text)
	assert.Empty(t, all[0].Metadata)

	listed, err := s.Pages().FindListed(ctx, "wl1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "pg1", listed[0].Id)
	assert.Empty(t, listed[0].Text)

	listedCount, err := s.Pages().CountListed(ctx, "wl1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, listedCount)

	pageOf, err := s.Pages().FindPageOfPages(ctx, "wl1", 1)
	require.NoError(t, err)
	assert.Len(t, pageOf, 2)
	assert.NotEmpty(t, pageOf[0].Text, "admin page list keeps the text")
}

func TestPagePermalinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page := testPage("pg1", "wl1", "About", "about-us")
	require.NoError(t, s.Pages().Add(ctx, page))

	found, err := s.Pages().UpdatePriorPermalinks(ctx, "pg1", "wl1", []string{"about", "who-we-are"})
	require.NoError(t, err)
	assert.True(t, found)

	current, err := s.Pages().FindCurrentPermalink(ctx, []string{"who-we-are"}, "wl1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "about-us", *current)

	none, err := s.Pages().FindCurrentPermalink(ctx, []string{"never-existed"}, "wl1")
	require.NoError(t, err)
	assert.Nil(t, none)

	deleted, err := s.Pages().Delete(ctx, "pg1", "wl1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Pages().Delete(ctx, "pg1", "wl1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testPost(id, webLogId, title, permalink string, publishedOn *time.Time) *models.Post {
	updated := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if publishedOn != nil {
		updated = *publishedOn
	}
	status := models.Published
	if publishedOn == nil {
		status = models.Draft
	}
	return &models.Post{
		Id:          id,
		WebLogId:    webLogId,
		AuthorId:    "u1",
		Status:      status,
		Title:       title,
		Permalink:   permalink,
		PublishedOn: publishedOn,
		UpdatedOn:   updated,
		Text:        "Markdown: " + title,
		Revisions:   []models.Revision{{AsOf: updated, Text: "Markdown: " + title}},
	}
}

func published(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &parsed
}

func TestPostPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Posts().Add(ctx, testPost("p1", "wl1", "Oldest", "oldest", published(t, "2024-01-01T08:00:00Z"))))
	require.NoError(t, s.Posts().Add(ctx, testPost("p2", "wl1", "Newest", "newest", published(t, "2024-03-01T08:00:00Z"))))
	require.NoError(t, s.Posts().Add(ctx, testPost("p3", "wl1", "Middle", "middle", published(t, "2024-02-01T08:00:00Z"))))
	require.NoError(t, s.Posts().Add(ctx, testPost("d1", "wl1", "Draft", "draft", nil)))

	publishedCount, err := s.Posts().CountByStatus(ctx, models.Published, "wl1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, publishedCount)

	posts, err := s.Posts().FindPageOfPublishedPosts(ctx, "wl1", 1, 2)
	require.NoError(t, err)
	require.Len(t, posts, 3, "one extra row signals a following page")
	assert.Equal(t, []string{"p2", "p3", "p1"},
		lo.Map(posts, func(p models.Post, _ int) string { return p.Id }))

	admin, err := s.Posts().FindPageOfPosts(ctx, "wl1", 1, 10)
	require.NoError(t, err)
	require.Len(t, admin, 4)
	assert.Equal(t, "d1", admin[0].Id, "drafts sort ahead of published posts")
}

func TestPostFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tagged := testPost("p1", "wl1", "Tagged", "tagged", published(t, "2024-02-01T08:00:00Z"))
	tagged.Tags = []string{"go", "sqlite"}
	tagged.CategoryIds = []string{"c1"}
	require.NoError(t, s.Posts().Add(ctx, tagged))

	other := testPost("p2", "wl1", "Other", "other", published(t, "2024-02-02T08:00:00Z"))
	other.Tags = []string{"misc"}
	require.NoError(t, s.Posts().Add(ctx, other))

	byTag, err := s.Posts().FindPageOfTaggedPosts(ctx, "wl1", "go", 1, 10)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "p1", byTag[0].Id)

	byCat, err := s.Posts().FindPageOfCategorizedPosts(ctx, "wl1", []string{"c1", "c2"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "p1", byCat[0].Id)
}

func TestPostSurrounding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Posts().Add(ctx, testPost("p1", "wl1", "First", "first", published(t, "2024-01-01T08:00:00Z"))))
	require.NoError(t, s.Posts().Add(ctx, testPost("p2", "wl1", "Second", "second", published(t, "2024-02-01T08:00:00Z"))))
	require.NoError(t, s.Posts().Add(ctx, testPost("p3", "wl1", "Third", "third", published(t, "2024-03-01T08:00:00Z"))))

	older, newer, err := s.Posts().FindSurroundingPosts(ctx, "wl1", *published(t, "2024-02-01T08:00:00Z"))
	require.NoError(t, err)
	require.NotNil(t, older)
	require.NotNil(t, newer)
	assert.Equal(t, "p1", older.Id)
	assert.Equal(t, "p3", newer.Id)

	older, newer, err = s.Posts().FindSurroundingPosts(ctx, "wl1", *published(t, "2024-01-01T08:00:00Z"))
	require.NoError(t, err)
	assert.Nil(t, older)
	require.NotNil(t, newer)
	assert.Equal(t, "p2", newer.Id)
}

func TestUpdateIsTenantScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	asOf := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	post := testPost("p1", "wl1", "Original", "original", published(t, "2024-01-01T09:00:00Z"))
	post.Text = "Markdown: original body"
	post.Revisions = []models.Revision{{AsOf: asOf, Text: "Markdown: original body"}}
	require.NoError(t, s.Posts().Add(ctx, post))

	// The same id under another tenant must reach neither the document nor
	// its revision history.
	foreign := *post
	foreign.WebLogId = "wl2"
	foreign.Text = "Markdown: rewritten body"
	foreign.Revisions = []models.Revision{{AsOf: asOf.Add(time.Hour), Text: "Markdown: rewritten body"}}
	assert.ErrorIs(t, s.Posts().Update(ctx, &foreign), data.ErrNotFound)

	kept, err := s.Posts().FindFullById(ctx, "p1", "wl1")
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "Markdown: original body", kept.Text)
	require.Len(t, kept.Revisions, 1)
	assert.Equal(t, "Markdown: original body", kept.Revisions[0].Text)

	page := testPage("pg1", "wl1", "About", "about")
	require.NoError(t, s.Pages().Add(ctx, page))

	foreignPage := *page
	foreignPage.WebLogId = "wl2"
	foreignPage.Revisions = []models.Revision{{AsOf: asOf.Add(time.Hour), Text: "Markdown: rewritten page"}}
	assert.ErrorIs(t, s.Pages().Update(ctx, &foreignPage), data.ErrNotFound)

	keptPage, err := s.Pages().FindFullById(ctx, "pg1", "wl1")
	require.NoError(t, err)
	require.NotNil(t, keptPage)
	require.Len(t, keptPage.Revisions, 1)
	assert.Equal(t, page.Revisions[0].Text, keptPage.Revisions[0].Text)
}

func TestTagMapUpsertAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tagMap := &models.TagMap{Id: "tm1", WebLogId: "wl1", Tag: "f#", UrlValue: "f-sharp"}
	require.NoError(t, s.TagMaps().Save(ctx, tagMap))

	tagMap.UrlValue = "fsharp"
	require.NoError(t, s.TagMaps().Save(ctx, tagMap))

	byUrl, err := s.TagMaps().FindByUrlValue(ctx, "fsharp", "wl1")
	require.NoError(t, err)
	require.NotNil(t, byUrl)
	assert.Equal(t, "f#", byUrl.Tag)

	require.NoError(t, s.TagMaps().Save(ctx, &models.TagMap{Id: "tm2", WebLogId: "wl1", Tag: "c#", UrlValue: "c-sharp"}))

	mapped, err := s.TagMaps().FindMappingForTags(ctx, []string{"f#", "unmapped"}, "wl1")
	require.NoError(t, err)
	require.Len(t, mapped, 1)
	assert.Equal(t, "tm1", mapped[0].Id)

	deleted, err := s.TagMaps().Delete(ctx, "tm1", "wl1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.TagMaps().Delete(ctx, "tm1", "wl1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestThemeLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	theme := &models.Theme{
		Id:      "default",
		Name:    "Default",
		Version: "1.0.0",
		Templates: []models.ThemeTemplate{
			{Name: "layout", Text: "{{ content }}"},
			{Name: "single-post", Text: "{{ post.Text }}"},
		},
	}
	require.NoError(t, s.Themes().Save(ctx, theme))

	exists, err := s.Themes().Exists(ctx, "default")
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := s.Themes().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Templates, 2)
	assert.Empty(t, all[0].Templates[0].Text, "list views drop template text")

	full, err := s.Themes().FindById(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "{{ content }}", full.Templates[0].Text)

	asset := &models.ThemeAsset{
		ThemeId:   "default",
		Path:      "style.css",
		UpdatedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Data:      []byte("body { margin: 0 }"),
	}
	require.NoError(t, s.ThemeAssets().Save(ctx, asset))

	withoutData, err := s.ThemeAssets().FindByTheme(ctx, "default")
	require.NoError(t, err)
	require.Len(t, withoutData, 1)
	assert.Nil(t, withoutData[0].Data)

	withData, err := s.ThemeAssets().FindByThemeWithData(ctx, "default")
	require.NoError(t, err)
	require.Len(t, withData, 1)
	assert.Equal(t, []byte("body { margin: 0 }"), withData[0].Data)

	deleted, err := s.Themes().Delete(ctx, "default")
	require.NoError(t, err)
	assert.True(t, deleted)

	orphans, err := s.ThemeAssets().FindByTheme(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, orphans, "assets go with the theme")
}

func TestUploadLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	upload := &models.Upload{
		Id:        "up1",
		WebLogId:  "wl1",
		Path:      "2024/01/photo.jpg",
		UpdatedOn: time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC),
		Data:      []byte{0xff, 0xd8, 0xff},
	}
	require.NoError(t, s.Uploads().Add(ctx, upload))

	byPath, err := s.Uploads().FindByPath(ctx, "2024/01/photo.jpg", "wl1")
	require.NoError(t, err)
	require.NotNil(t, byPath)
	assert.Equal(t, upload.Data, byPath.Data)
	assert.True(t, upload.UpdatedOn.Equal(byPath.UpdatedOn))

	listed, err := s.Uploads().FindByWebLog(ctx, "wl1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].Data)

	path, err := s.Uploads().Delete(ctx, "up1", "wl1")
	require.NoError(t, err)
	assert.Equal(t, "2024/01/photo.jpg", path)

	_, err = s.Uploads().Delete(ctx, "up1", "wl1")
	assert.ErrorIs(t, err, data.ErrNotFound)
}

func testUser(id, webLogId, email string) *models.WebLogUser {
	return &models.WebLogUser{
		Id:          id,
		WebLogId:    webLogId,
		Email:       email,
		FirstName:   "Test",
		LastName:    "Author",
		AccessLevel: models.AccessAuthor,
		CreatedOn:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := testUser("u1", "wl1", "author@example.com")
	require.NoError(t, s.Users().Add(ctx, user))

	byEmail, err := s.Users().FindByEmail(ctx, "author@example.com", "wl1")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "u1", byEmail.Id)

	names, err := s.Users().FindNames(ctx, "wl1", []string{"u1", "unknown"})
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "Test Author", names[0].Name)

	require.NoError(t, s.Users().SetLastSeen(ctx, "u1", "wl1"))
	seen, err := s.Users().FindById(ctx, "u1", "wl1")
	require.NoError(t, err)
	assert.NotNil(t, seen.LastSeenOn)

	assert.ErrorIs(t, s.Users().SetLastSeen(ctx, "ghost", "wl1"), data.ErrNotFound)

	ghost := testUser("ghost", "wl1", "ghost@example.com")
	assert.ErrorIs(t, s.Users().Update(ctx, ghost), data.ErrNotFound)
}

func TestUserDeleteRefusesWithContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().Add(ctx, testUser("u1", "wl1", "author@example.com")))
	require.NoError(t, s.Posts().Add(ctx, testPost("p1", "wl1", "Theirs", "theirs", published(t, "2024-01-01T08:00:00Z"))))

	err := s.Users().Delete(ctx, "u1", "wl1")
	var conflict *data.ConflictError
	require.ErrorAs(t, err, &conflict)

	deleted, err := s.Posts().Delete(ctx, "p1", "wl1")
	require.NoError(t, err)
	assert.True(t, deleted)

	require.NoError(t, s.Users().Delete(ctx, "u1", "wl1"))
	assert.ErrorIs(t, s.Users().Delete(ctx, "u1", "wl1"), data.ErrNotFound)
}
