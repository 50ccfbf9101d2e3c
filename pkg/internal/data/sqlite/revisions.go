package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

// Revision rows live in side tables; as_of is stored as fixed-width RFC 3339
// text so equality and ordering both work on the raw column.

func findRevisions(ctx context.Context, db querier, table, idCol, ownerId string) ([]models.Revision, error) {
	stmt := fmt.Sprintf(`SELECT as_of, revision_text FROM %s WHERE %s = ? ORDER BY as_of DESC`, table, idCol)
	rows, err := db.QueryContext(ctx, stmt, ownerId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []models.Revision
	for rows.Next() {
		var asOf, text string
		if err := rows.Scan(&asOf, &text); err != nil {
			return nil, err
		}
		parsed, err := parseInstant(asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid revision timestamp %q: %w", asOf, err)
		}
		revs = append(revs, models.Revision{AsOf: parsed, Text: text})
	}
	return revs, rows.Err()
}

func insertRevisions(ctx context.Context, tx *sql.Tx, table, idCol, ownerId string, revs []models.Revision) error {
	stmt := fmt.Sprintf(`INSERT INTO %s (%s, as_of, revision_text) VALUES (?, ?, ?)`, table, idCol)
	for _, rev := range revs {
		if _, err := tx.ExecContext(ctx, stmt, ownerId, instant(rev.AsOf), rev.Text); err != nil {
			return err
		}
	}
	return nil
}

// applyRevisionDiff reconciles stored revision rows with newRevs inside the
// caller's transaction; an empty diff issues no statements.
func applyRevisionDiff(ctx context.Context, tx *sql.Tx, table, idCol, ownerId string, oldRevs, newRevs []models.Revision) error {
	toDelete, toAdd := data.DiffRevisions(oldRevs, newRevs)
	if len(toDelete) == 0 && len(toAdd) == 0 {
		return nil
	}
	delStmt := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND as_of = ?`, table, idCol)
	for _, rev := range toDelete {
		if _, err := tx.ExecContext(ctx, delStmt, ownerId, instant(rev.AsOf)); err != nil {
			return err
		}
	}
	return insertRevisions(ctx, tx, table, idCol, ownerId, toAdd)
}
