package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document primitives shared by every entity store in this package. Each
// document table has the shape (id, web_log_id, data jsonb); web_log and
// theme omit the tenant column and use the *Global variants.

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func marshalDoc(entity any) (datatypes.JSON, error) {
	doc, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize document: %w", err)
	}
	return datatypes.JSON(doc), nil
}

func insertDoc(ctx context.Context, db *gorm.DB, table, id, webLogId string, entity any) error {
	doc, err := marshalDoc(entity)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (id, web_log_id, data) VALUES (?, ?, ?)`, table)
	return db.WithContext(ctx).Exec(stmt, id, webLogId, doc).Error
}

// updateDoc replaces the whole stored document. Returns whether a row
// matched; no optimistic-concurrency check is made, so the last writer wins.
func updateDoc(ctx context.Context, db *gorm.DB, table, id, webLogId string, entity any) (bool, error) {
	doc, err := marshalDoc(entity)
	if err != nil {
		return false, err
	}
	stmt := fmt.Sprintf(`UPDATE %s SET data = ? WHERE id = ? AND web_log_id = ?`, table)
	res := db.WithContext(ctx).Exec(stmt, doc, id, webLogId)
	return res.RowsAffected > 0, res.Error
}

// patchDoc merges the given partial document into the stored one, leaving
// all other fields untouched.
func patchDoc(ctx context.Context, db *gorm.DB, table, id, webLogId string, patch any) (bool, error) {
	doc, err := marshalDoc(patch)
	if err != nil {
		return false, err
	}
	stmt := fmt.Sprintf(`UPDATE %s SET data = data || ? WHERE id = ? AND web_log_id = ?`, table)
	res := db.WithContext(ctx).Exec(stmt, doc, id, webLogId)
	return res.RowsAffected > 0, res.Error
}

func deleteDoc(ctx context.Context, db *gorm.DB, table, id, webLogId string) (bool, error) {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND web_log_id = ?`, table)
	res := db.WithContext(ctx).Exec(stmt, id, webLogId)
	return res.RowsAffected > 0, res.Error
}

// findDocById looks an entity up by id with the tenant key as part of the
// predicate itself, so a wrong-tenant id behaves exactly like a missing one.
func findDocById[T any](ctx context.Context, db *gorm.DB, table, id, webLogId string) (*T, error) {
	stmt := fmt.Sprintf(`SELECT data FROM %s WHERE id = ? AND web_log_id = ?`, table)
	return scanDoc[T](db.WithContext(ctx).Raw(stmt, id, webLogId).Row())
}

// findDocsWhere runs a query whose SELECT column is the document itself and
// deserializes every row.
func findDocsWhere[T any](ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var entity T
		if err := json.Unmarshal(raw, &entity); err != nil {
			return nil, fmt.Errorf("unable to deserialize document: %w", err)
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// findDocsByContains matches documents that are supersets of the given
// partial document, compiled to a jsonb containment predicate.
func findDocsByContains[T any](ctx context.Context, db *gorm.DB, table, webLogId string, pattern any, orderBy string) ([]T, error) {
	doc, err := marshalDoc(pattern)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf(`SELECT data FROM %s WHERE web_log_id = ? AND data @> ?`, table)
	if orderBy != "" {
		stmt += " ORDER BY " + orderBy
	}
	return findDocsWhere[T](ctx, db, stmt, webLogId, doc)
}

func countWhere(ctx context.Context, db *gorm.DB, query string, args ...any) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(query, args...).Scan(&count).Error
	return count, err
}

func existsWhere(ctx context.Context, db *gorm.DB, query string, args ...any) (bool, error) {
	count, err := countWhere(ctx, db, query, args...)
	return count > 0, err
}

func scanNullableString(row *sql.Row) (*string, error) {
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &value, nil
}

func scanDoc[T any](row *sql.Row) (*T, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var entity T
	if err := json.Unmarshal(raw, &entity); err != nil {
		return nil, fmt.Errorf("unable to deserialize document: %w", err)
	}
	return &entity, nil
}
