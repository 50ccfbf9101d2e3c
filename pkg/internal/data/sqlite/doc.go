package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Document primitives shared by every entity store in this package. The
// document column is TEXT holding JSON; json_extract and json_patch supply
// the path predicates and merge behavior the contract requires.

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// instant formats a time for storage and comparison. RFC3339 with a fixed
// nine-digit fraction keeps lexicographic order equal to chronological order
// and retains sub-second precision.
const instantFormat = "2006-01-02T15:04:05.000000000Z07:00"

func instant(t time.Time) string {
	return t.UTC().Format(instantFormat)
}

func parseInstant(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

func insertDoc(ctx context.Context, db executor, table, id, webLogId string, entity any) error {
	doc, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("unable to serialize document: %w", err)
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (id, web_log_id, data) VALUES (?, ?, ?)`, table)
	_, err = db.ExecContext(ctx, stmt, id, webLogId, string(doc))
	return err
}

// updateDoc replaces the whole stored document; the last writer wins.
func updateDoc(ctx context.Context, db executor, table, id, webLogId string, entity any) (bool, error) {
	doc, err := json.Marshal(entity)
	if err != nil {
		return false, fmt.Errorf("unable to serialize document: %w", err)
	}
	stmt := fmt.Sprintf(`UPDATE %s SET data = ? WHERE id = ? AND web_log_id = ?`, table)
	res, err := db.ExecContext(ctx, stmt, string(doc), id, webLogId)
	return affected(res, err)
}

// patchDoc merges a partial document into the stored one via json_patch
// (RFC 7396); untouched fields are preserved.
func patchDoc(ctx context.Context, db executor, table, id, webLogId string, patch any) (bool, error) {
	doc, err := json.Marshal(patch)
	if err != nil {
		return false, fmt.Errorf("unable to serialize patch: %w", err)
	}
	stmt := fmt.Sprintf(`UPDATE %s SET data = json_patch(data, ?) WHERE id = ? AND web_log_id = ?`, table)
	res, err := db.ExecContext(ctx, stmt, string(doc), id, webLogId)
	return affected(res, err)
}

func deleteDoc(ctx context.Context, db executor, table, id, webLogId string) (bool, error) {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND web_log_id = ?`, table)
	res, err := db.ExecContext(ctx, stmt, id, webLogId)
	return affected(res, err)
}

func findDocById[T any](ctx context.Context, db *sql.DB, table, id, webLogId string) (*T, error) {
	stmt := fmt.Sprintf(`SELECT data FROM %s WHERE id = ? AND web_log_id = ?`, table)
	return scanDoc[T](db.QueryRowContext(ctx, stmt, id, webLogId))
}

func findDocsWhere[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var entity T
		if err := json.Unmarshal([]byte(raw), &entity); err != nil {
			return nil, fmt.Errorf("unable to deserialize document: %w", err)
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// findDocsByContains matches documents that are supersets of the given
// pattern, compiled to one json_extract equality per pattern field. Keys are
// sorted so the generated SQL is stable.
func findDocsByContains[T any](ctx context.Context, db *sql.DB, table, webLogId string, pattern map[string]any, orderBy string) ([]T, error) {
	where, args := containsClauses(pattern)
	stmt := fmt.Sprintf(`SELECT data FROM %s WHERE web_log_id = ?%s`, table, where)
	if orderBy != "" {
		stmt += " ORDER BY " + orderBy
	}
	return findDocsWhere[T](ctx, db, stmt, append([]any{webLogId}, args...)...)
}

func containsClauses(pattern map[string]any) (string, []any) {
	keys := make([]string, 0, len(pattern))
	for key := range pattern {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var (
		clauses strings.Builder
		args    []any
	)
	for _, key := range keys {
		clauses.WriteString(fmt.Sprintf(" AND json_extract(data, '$.%s') = ?", key))
		args = append(args, pattern[key])
	}
	return clauses.String(), args
}

// orderInstant wraps a stored RFC 3339 value so comparisons and ordering work
// regardless of fraction width; strftime normalizes to milliseconds.
func orderInstant(expr string) string {
	return fmt.Sprintf("strftime('%%Y-%%m-%%dT%%H:%%M:%%f', %s)", expr)
}

// placeholders renders "?, ?, ..." for n values; database/sql does not expand
// slice parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func anySlice[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func countWhere(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func existsWhere(ctx context.Context, db *sql.DB, query string, args ...any) (bool, error) {
	count, err := countWhere(ctx, db, query, args...)
	return count > 0, err
}

func scanDoc[T any](row *sql.Row) (*T, error) {
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var entity T
	if err := json.Unmarshal([]byte(raw), &entity); err != nil {
		return nil, fmt.Errorf("unable to deserialize document: %w", err)
	}
	return &entity, nil
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

func affected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// executor and querier are satisfied by both *sql.DB and *sql.Tx so the
// primitives work inside and outside transactions.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// withTx runs fn inside a transaction, rolling back on error so multi-table
// mutations are all-or-nothing.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
