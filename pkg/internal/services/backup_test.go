package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/data/sqlite"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

func newStore(t *testing.T) data.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "inkwell.db"))
	require.NoError(t, err)
	require.NoError(t, s.StartUp(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedWebLog(t *testing.T, store data.Store, webLogId string) {
	t.Helper()
	ctx := context.Background()
	asOf := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.WebLogs().Add(ctx, &models.WebLog{
		Id:           webLogId,
		Name:         "Archive Test",
		Slug:         "archive-test",
		DefaultPage:  "posts",
		PostsPerPage: 10,
		ThemeId:      "default",
		UrlBase:      "https://archive.example.com",
		TimeZone:     "America/Denver",
		Uploads:      models.UploadToDatabase,
	}))
	require.NoError(t, store.Users().Add(ctx, &models.WebLogUser{
		Id: "u1", WebLogId: webLogId, Email: "author@example.com",
		FirstName: "Arch", LastName: "Ivist",
		AccessLevel: models.AccessAuthor, CreatedOn: asOf,
	}))
	require.NoError(t, store.Categories().Add(ctx, &models.Category{
		Id: "c1", WebLogId: webLogId, Name: "News", Slug: "news",
	}))
	require.NoError(t, store.TagMaps().Save(ctx, &models.TagMap{
		Id: "tm1", WebLogId: webLogId, Tag: "f#", UrlValue: "f-sharp",
	}))
	require.NoError(t, store.Pages().Add(ctx, &models.Page{
		Id: "pg1", WebLogId: webLogId, AuthorId: "u1",
		Title: "About", Permalink: "about",
		PublishedOn: asOf, UpdatedOn: asOf,
		Text:      "Markdown: about",
		Revisions: []models.Revision{{AsOf: asOf, Text: "Markdown: about"}},
	}))
	require.NoError(t, store.Posts().Add(ctx, &models.Post{
		Id: "p1", WebLogId: webLogId, AuthorId: "u1",
		Status: models.Published, Title: "First", Permalink: "first",
		PublishedOn: &asOf, UpdatedOn: asOf,
		Text:        "Markdown: first",
		CategoryIds: []string{"c1"}, Tags: []string{"f#"},
		Revisions: []models.Revision{{AsOf: asOf, Text: "Markdown: first"}},
	}))
	require.NoError(t, store.Uploads().Add(ctx, &models.Upload{
		Id: "up1", WebLogId: webLogId, Path: "2024/05/photo.jpg",
		UpdatedOn: asOf, Data: []byte{0xff, 0xd8, 0xff, 0x00},
	}))
}

func TestBackupUnknownWebLog(t *testing.T) {
	store := newStore(t)
	_, err := Backup(context.Background(), store, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newStore(t)
	seedWebLog(t, source, "wl1")

	archive, err := Backup(ctx, source, "wl1")
	require.NoError(t, err)
	require.Len(t, archive.Users, 1)
	require.Len(t, archive.Categories, 1)
	require.Len(t, archive.TagMaps, 1)
	require.Len(t, archive.Pages, 1)
	require.Len(t, archive.Posts, 1)
	require.Len(t, archive.Uploads, 1)
	assert.NotEmpty(t, archive.Pages[0].Revisions, "full pages carry revisions")
	assert.NotEmpty(t, archive.Posts[0].Revisions, "full posts carry revisions")
	assert.NotEmpty(t, archive.Uploads[0].Data)

	// Through the file form and into a fresh store.
	path := filepath.Join(t.TempDir(), "archive.json")
	require.NoError(t, WriteArchive(path, archive))
	loaded, err := ReadArchive(path)
	require.NoError(t, err)
	assert.Equal(t, archive.Uploads[0].Data, loaded.Uploads[0].Data, "binary payloads survive the file form")

	target := newStore(t)
	require.NoError(t, Restore(ctx, target, loaded))

	webLog, err := target.WebLogs().FindById(ctx, "wl1")
	require.NoError(t, err)
	require.NotNil(t, webLog)
	assert.Equal(t, "Archive Test", webLog.Name)

	post, err := target.Posts().FindFullById(ctx, "p1", "wl1")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Len(t, post.Revisions, 1)
	assert.Equal(t, []string{"c1"}, post.CategoryIds)

	upload, err := target.Uploads().FindByPath(ctx, "2024/05/photo.jpg", "wl1")
	require.NoError(t, err)
	require.NotNil(t, upload)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0x00}, upload.Data)
}

func TestRestoreRejectsInvalidWebLog(t *testing.T) {
	store := newStore(t)
	archive := &models.Archive{WebLog: models.WebLog{Id: "wl1", Name: "No slug"}}
	err := Restore(context.Background(), store, archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}
