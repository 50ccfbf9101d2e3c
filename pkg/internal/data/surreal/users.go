package surreal

import (
	"context"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

type userStore struct {
	db *surrealdb.DB
}

func (u *userStore) Add(ctx context.Context, user *models.WebLogUser) error {
	_, err := surrealdb.Create[models.WebLogUser](ctx, u.db, rid("web_log_user", user.Id), user)
	return err
}

func (u *userStore) Delete(ctx context.Context, userId, webLogId string) error {
	user, err := u.FindById(ctx, userId, webLogId)
	if err != nil {
		return err
	}
	if user == nil {
		return data.ErrNotFound
	}
	params := map[string]any{"web_log_id": webLogId, "author_id": userId}
	pages, err := countRows(ctx, u.db,
		`SELECT count() AS total FROM page
		  WHERE WebLogId = $web_log_id AND AuthorId = $author_id
		  GROUP ALL`, params)
	if err != nil {
		return err
	}
	posts, err := countRows(ctx, u.db,
		`SELECT count() AS total FROM post
		  WHERE WebLogId = $web_log_id AND AuthorId = $author_id
		  GROUP ALL`, params)
	if err != nil {
		return err
	}
	if pages+posts > 0 {
		return data.Conflict("user has pages or posts; they cannot be deleted")
	}
	return execute(ctx, u.db, `DELETE $user`,
		map[string]any{"user": rid("web_log_user", userId)})
}

func (u *userStore) FindByEmail(ctx context.Context, email, webLogId string) (*models.WebLogUser, error) {
	return queryOne[models.WebLogUser](ctx, u.db,
		`SELECT * FROM web_log_user WHERE WebLogId = $web_log_id AND Email = $email`,
		map[string]any{"web_log_id": webLogId, "email": email})
}

func (u *userStore) FindById(ctx context.Context, userId, webLogId string) (*models.WebLogUser, error) {
	return queryOne[models.WebLogUser](ctx, u.db,
		`SELECT * FROM $user WHERE WebLogId = $web_log_id`,
		map[string]any{"user": rid("web_log_user", userId), "web_log_id": webLogId})
}

func (u *userStore) FindByWebLog(ctx context.Context, webLogId string) ([]models.WebLogUser, error) {
	return queryRows[models.WebLogUser](ctx, u.db,
		`SELECT * FROM web_log_user
		  WHERE WebLogId = $web_log_id
		  ORDER BY PreferredName COLLATE, LastName COLLATE`,
		map[string]any{"web_log_id": webLogId})
}

func (u *userStore) FindNames(ctx context.Context, webLogId string, userIds []string) ([]models.UserName, error) {
	if len(userIds) == 0 {
		return nil, nil
	}
	users, err := queryRows[models.WebLogUser](ctx, u.db,
		`SELECT * FROM web_log_user WHERE WebLogId = $web_log_id AND Id IN $user_ids`,
		map[string]any{"web_log_id": webLogId, "user_ids": userIds})
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
	docs := make([]restoreDoc, len(users))
	for i, user := range users {
		docs[i] = restoreDoc{id: rid("web_log_user", user.Id), doc: user}
	}
	return restore(ctx, u.db, docs)
}

func (u *userStore) SetLastSeen(ctx context.Context, userId, webLogId string) error {
	found, err := affected(ctx, u.db,
		`UPDATE $user MERGE $patch WHERE WebLogId = $web_log_id RETURN AFTER`,
		map[string]any{
			"user":       rid("web_log_user", userId),
			"patch":      map[string]any{"LastSeenOn": time.Now().UTC()},
			"web_log_id": webLogId,
		})
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}

func (u *userStore) Update(ctx context.Context, user *models.WebLogUser) error {
	found, err := affected(ctx, u.db,
		`UPDATE $user CONTENT $data WHERE WebLogId = $web_log_id RETURN AFTER`,
		map[string]any{"user": rid("web_log_user", user.Id), "data": user, "web_log_id": user.WebLogId})
	if err != nil {
		return err
	}
	if !found {
		return data.ErrNotFound
	}
	return nil
}
