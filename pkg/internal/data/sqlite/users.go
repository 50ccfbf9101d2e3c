package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type userStore struct {
	db *sql.DB
}

func (u *userStore) Add(ctx context.Context, user *models.WebLogUser) error {
	return insertDoc(ctx, u.db, "web_log_user", user.Id, user.WebLogId, user)
}

func (u *userStore) Delete(ctx context.Context, userId, webLogId string) error {
	user, err := u.FindById(ctx, userId, webLogId)
	if err != nil {
		return err
	}
	if user == nil {
		return data.ErrNotFound
	}
	authored, err := countWhere(ctx, u.db,
		`SELECT (SELECT COUNT(id) FROM page WHERE web_log_id = ? AND json_extract(data, '$.AuthorId') = ?)
		      + (SELECT COUNT(id) FROM post WHERE web_log_id = ? AND json_extract(data, '$.AuthorId') = ?)`,
		webLogId, userId, webLogId, userId)
	if err != nil {
		return err
	}
	if authored > 0 {
		return data.Conflict("user has pages or posts; they cannot be deleted")
	}
	_, err = deleteDoc(ctx, u.db, "web_log_user", userId, webLogId)
	return err
}

func (u *userStore) FindByEmail(ctx context.Context, email, webLogId string) (*models.WebLogUser, error) {
	return scanDoc[models.WebLogUser](u.db.QueryRowContext(ctx,
		`SELECT data FROM web_log_user WHERE web_log_id = ? AND json_extract(data, '$.Email') = ?`,
		webLogId, email))
}

func (u *userStore) FindById(ctx context.Context, userId, webLogId string) (*models.WebLogUser, error) {
	return findDocById[models.WebLogUser](ctx, u.db, "web_log_user", userId, webLogId)
}

func (u *userStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.WebLogUser, error) {
	return findDocsWhere[models.WebLogUser](ctx, u.db,
		`SELECT data FROM web_log_user WHERE web_log_id = ?
		  ORDER BY LOWER(json_extract(data, '$.PreferredName')), LOWER(json_extract(data, '$.LastName'))`,
		webLogId)
}

func (u *userStore) FindNames(ctx context.Context, webLogId string, userIds []string) ([]models.UserName, error) {
	if len(userIds) == 0 {
		return nil, nil
	}
	stmt := `SELECT data FROM web_log_user WHERE web_log_id = ? AND id IN (` + placeholders(len(userIds)) + `)`
	users, err := findDocsWhere[models.WebLogUser](ctx, u.db, stmt,
		append([]any{webLogId}, anySlice(userIds)...)...)
	if err != nil {
		return nil, err
	}
	names := make([]models.UserName, len(users))
	for i, user := range users {
		names[i] = models.UserName{Id: user.Id, Name: user.DisplayName()}
	}
	return names, nil
}

func (u *userStore) Restore(ctx context.Context, users []models.WebLogUser) error {
	return withTx(ctx, u.db, func(tx *sql.Tx) error {
		for _, user := range users {
			if err := insertDoc(ctx, tx, "web_log_user", user.Id, user.WebLogId, user); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *userStore) SetLastSeen(ctx context.Context, userId, webLogId string) error {
	found, err := patchDoc(ctx, u.db, "web_log_user", userId, webLogId,
		map[string]any{"LastSeenOn": time.Now().UTC()})
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}

func (u *userStore) Update(ctx context.Context, user *models.WebLogUser) error {
	found, err := updateDoc(ctx, u.db, "web_log_user", user.Id, user.WebLogId, user)
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}
