// Package data declares the storage contract implemented by every backend
// adapter, along with the backend-independent pieces of the domain: the
// revision diff and the category hierarchy resolver.
package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

// ErrNotFound reports an operation whose target entity does not exist for
// the given tenant. Find operations never return it; they signal absence
// with a nil result instead.
var ErrNotFound = errors.New("entity not found")

// ConflictError reports a write rejected because it would violate a domain
// rule, such as deleting a user who still has content attributed to them or
// assigning a category parent that would close a cycle.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func conflictf(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// Conflict wraps a domain-rule violation message as an error.
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

type CategoryDeleteResult int

const (
	// CategoryNotFound means no category matched; nothing was written.
	CategoryNotFound CategoryDeleteResult = iota
	// CategoryDeleted means the category had no children.
	CategoryDeleted
	// CategoryReassigned means the category's children were re-parented to
	// its former parent before it was deleted.
	CategoryReassigned
)

type WebLogData interface {
	Add(ctx context.Context, webLog *models.WebLog) error
	All(ctx context.Context) ([]models.WebLog, error)
	// Delete removes the web log and every entity scoped to it, including
	// revision rows, in a single transaction. Already-clean child tables do
	// not surface errors.
	Delete(ctx context.Context, webLogId string) error
	FindByHost(ctx context.Context, url string) (*models.WebLog, error)
	FindById(ctx context.Context, id string) (*models.WebLog, error)
	UpdateRedirectRules(ctx context.Context, webLog *models.WebLog) error
	UpdateRssOptions(ctx context.Context, webLog *models.WebLog) error
	UpdateSettings(ctx context.Context, webLog *models.WebLog) error
}

type CategoryData interface {
	Add(ctx context.Context, cat *models.Category) error
	CountAll(ctx context.Context, webLogId string) (int64, error)
	CountTopLevel(ctx context.Context, webLogId string) (int64, error)
	// Delete removes the category, re-parents its children to its former
	// parent, and strips its id from every post that carries it, all in one
	// transaction. The result tells the caller which branch occurred.
	Delete(ctx context.Context, catId, webLogId string) (CategoryDeleteResult, error)
	FindAllForView(ctx context.Context, webLogId string) ([]models.DisplayCategory, error)
	FindById(ctx context.Context, catId, webLogId string) (*models.Category, error)
	FindByWebLog(ctx context.Context, webLogId string) ([]models.Category, error)
	Restore(ctx context.Context, cats []models.Category) error
	Update(ctx context.Context, cat *models.Category) error
}

type PageData interface {
	Add(ctx context.Context, page *models.Page) error
	// All returns the tenant's pages without their text, metadata, revisions,
	// or prior permalinks, ordered by title.
	All(ctx context.Context, webLogId string) ([]models.Page, error)
	CountAll(ctx context.Context, webLogId string) (int64, error)
	CountListed(ctx context.Context, webLogId string) (int64, error)
	Delete(ctx context.Context, pageId, webLogId string) (bool, error)
	// FindById returns the page without its revision list.
	FindById(ctx context.Context, pageId, webLogId string) (*models.Page, error)
	// FindCurrentPermalink resolves a historical permalink to the page's
	// current one.
	FindCurrentPermalink(ctx context.Context, permalinks []string, webLogId string) (*string, error)
	FindFullById(ctx context.Context, pageId, webLogId string) (*models.Page, error)
	FindFullByWebLog(ctx context.Context, webLogId string) ([]models.Page, error)
	FindListed(ctx context.Context, webLogId string) ([]models.Page, error)
	FindPageOfPages(ctx context.Context, webLogId string, pageNbr int) ([]models.Page, error)
	Restore(ctx context.Context, pages []models.Page) error
	// Update replaces the stored page and reconciles its revision history;
	// ErrNotFound when the id does not resolve for the tenant.
	Update(ctx context.Context, page *models.Page) error
	UpdatePriorPermalinks(ctx context.Context, pageId, webLogId string, permalinks []string) (bool, error)
}

type PostData interface {
	Add(ctx context.Context, post *models.Post) error
	CountByStatus(ctx context.Context, status models.PostStatus, webLogId string) (int64, error)
	Delete(ctx context.Context, postId, webLogId string) (bool, error)
	FindById(ctx context.Context, postId, webLogId string) (*models.Post, error)
	FindCurrentPermalink(ctx context.Context, permalinks []string, webLogId string) (*string, error)
	FindFullById(ctx context.Context, postId, webLogId string) (*models.Post, error)
	FindFullByWebLog(ctx context.Context, webLogId string) ([]models.Post, error)
	// Page-of queries fetch perPage+1 rows so callers can detect a following
	// page without a count query.
	FindPageOfCategorizedPosts(ctx context.Context, webLogId string, categoryIds []string, pageNbr, postsPerPage int) ([]models.Post, error)
	FindPageOfPosts(ctx context.Context, webLogId string, pageNbr, postsPerPage int) ([]models.Post, error)
	FindPageOfPublishedPosts(ctx context.Context, webLogId string, pageNbr, postsPerPage int) ([]models.Post, error)
	FindPageOfTaggedPosts(ctx context.Context, webLogId, tag string, pageNbr, postsPerPage int) ([]models.Post, error)
	// FindSurroundingPosts returns the published posts on either side of the
	// given publish instant.
	FindSurroundingPosts(ctx context.Context, webLogId string, publishedOn time.Time) (older *models.Post, newer *models.Post, err error)
	Restore(ctx context.Context, posts []models.Post) error
	// Update replaces the stored post and reconciles its revision history;
	// ErrNotFound when the id does not resolve for the tenant.
	Update(ctx context.Context, post *models.Post) error
	UpdatePriorPermalinks(ctx context.Context, postId, webLogId string, permalinks []string) (bool, error)
}

type TagMapData interface {
	Delete(ctx context.Context, tagMapId, webLogId string) (bool, error)
	FindById(ctx context.Context, tagMapId, webLogId string) (*models.TagMap, error)
	FindByUrlValue(ctx context.Context, urlValue, webLogId string) (*models.TagMap, error)
	FindByWebLog(ctx context.Context, webLogId string) ([]models.TagMap, error)
	FindMappingForTags(ctx context.Context, tags []string, webLogId string) ([]models.TagMap, error)
	Restore(ctx context.Context, tagMaps []models.TagMap) error
	Save(ctx context.Context, tagMap *models.TagMap) error
}

type ThemeData interface {
	// All returns every theme with template text stripped.
	All(ctx context.Context) ([]models.Theme, error)
	Delete(ctx context.Context, themeId string) (bool, error)
	Exists(ctx context.Context, themeId string) (bool, error)
	FindById(ctx context.Context, themeId string) (*models.Theme, error)
	FindByIdWithoutText(ctx context.Context, themeId string) (*models.Theme, error)
	Save(ctx context.Context, theme *models.Theme) error
}

type ThemeAssetData interface {
	All(ctx context.Context) ([]models.ThemeAsset, error)
	DeleteByTheme(ctx context.Context, themeId string) error
	FindById(ctx context.Context, themeId, path string) (*models.ThemeAsset, error)
	FindByTheme(ctx context.Context, themeId string) ([]models.ThemeAsset, error)
	FindByThemeWithData(ctx context.Context, themeId string) ([]models.ThemeAsset, error)
	Save(ctx context.Context, asset *models.ThemeAsset) error
}

type UploadData interface {
	Add(ctx context.Context, upload *models.Upload) error
	// Delete returns the path of the removed upload, or ErrNotFound when the
	// id does not resolve for the tenant.
	Delete(ctx context.Context, uploadId, webLogId string) (string, error)
	FindByPath(ctx context.Context, path, webLogId string) (*models.Upload, error)
	FindByWebLog(ctx context.Context, webLogId string) ([]models.Upload, error)
	FindByWebLogWithData(ctx context.Context, webLogId string) ([]models.Upload, error)
	Restore(ctx context.Context, uploads []models.Upload) error
}

type WebLogUserData interface {
	Add(ctx context.Context, user *models.WebLogUser) error
	// Delete refuses with a ConflictError when the user still has pages or
	// posts attributed to them.
	Delete(ctx context.Context, userId, webLogId string) error
	FindByEmail(ctx context.Context, email, webLogId string) (*models.WebLogUser, error)
	FindById(ctx context.Context, userId, webLogId string) (*models.WebLogUser, error)
	FindByWebLog(ctx context.Context, webLogId string) ([]models.WebLogUser, error)
	FindNames(ctx context.Context, webLogId string, userIds []string) ([]models.UserName, error)
	Restore(ctx context.Context, users []models.WebLogUser) error
	// SetLastSeen patches only the LastSeenOn field.
	SetLastSeen(ctx context.Context, userId, webLogId string) error
	Update(ctx context.Context, user *models.WebLogUser) error
}

// Store is the single surface external callers depend upon. One concrete
// adapter per backend implements it; callers never see backend types.
type Store interface {
	Categories() CategoryData
	Pages() PageData
	Posts() PostData
	TagMaps() TagMapData
	Themes() ThemeData
	ThemeAssets() ThemeAssetData
	Uploads() UploadData
	Users() WebLogUserData
	WebLogs() WebLogData

	// StartUp ensures required tables and indexes exist; it is idempotent
	// and safe to call on every process start.
	StartUp(ctx context.Context) error
	Close() error
}
