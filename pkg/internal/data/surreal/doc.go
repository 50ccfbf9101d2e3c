package surreal

import (
	"context"
	"fmt"
	"strings"

	surrealdb "github.com/surrealdb/surrealdb.go"
	smodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Query helpers shared by every entity store. All queries are parameterized;
// user-provided values never reach the query text.

func rid(table, id string) smodels.RecordID {
	return smodels.NewRecordID(table, id)
}

// queryRows runs a query and returns the row set of its final statement, so
// it also serves BEGIN/COMMIT transactions whose last statement returns rows.
func queryRows[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	res, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, err
	}
	if res == nil || len(*res) == 0 {
		return nil, nil
	}
	return (*res)[len(*res)-1].Result, nil
}

func queryOne[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	rows, err := queryRows[T](ctx, db, query, params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

type countRow struct {
	Total int64 `json:"total"`
}

// countRows expects a `SELECT count() AS total ... GROUP ALL` query; an empty
// result set means zero.
func countRows(ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (int64, error) {
	rows, err := queryRows[countRow](ctx, db, query, params)
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	return rows[0].Total, nil
}

func execute(ctx context.Context, db *surrealdb.DB, query string, params map[string]any) error {
	_, err := surrealdb.Query[any](ctx, db, query, params)
	return err
}

// affected reports whether the final statement of the query touched any
// record; mutations use RETURN BEFORE/AFTER so the row set reflects that.
func affected(ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (bool, error) {
	rows, err := queryRows[any](ctx, db, query, params)
	return len(rows) > 0, err
}

type restoreDoc struct {
	id  smodels.RecordID
	doc any
}

// restore creates every document in one transaction; a duplicate id fails the
// whole batch.
func restore(ctx context.Context, db *surrealdb.DB, docs []restoreDoc) error {
	if len(docs) == 0 {
		return nil
	}
	var b strings.Builder
	params := make(map[string]any, len(docs)*2)
	b.WriteString("BEGIN TRANSACTION;\n")
	for i, d := range docs {
		r, c := fmt.Sprintf("r%d", i), fmt.Sprintf("d%d", i)
		fmt.Fprintf(&b, "CREATE $%s CONTENT $%s;\n", r, c)
		params[r] = d.id
		params[c] = d.doc
	}
	b.WriteString("COMMIT TRANSACTION;")
	return execute(ctx, db, b.String(), params)
}
