package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

// Revision rows live in side tables (page_revision, post_revision) rather
// than inside the jsonb document, so history updates can be expressed as
// minimal delete/insert batches.

func findRevisions(ctx context.Context, db *gorm.DB, table, idCol, ownerId string) ([]models.Revision, error) {
	stmt := fmt.Sprintf(`SELECT as_of, revision_text FROM %s WHERE %s = ? ORDER BY as_of DESC`, table, idCol)
	rows, err := db.WithContext(ctx).Raw(stmt, ownerId).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []models.Revision
	for rows.Next() {
		var (
			asOf time.Time
			text string
		)
		if err := rows.Scan(&asOf, &text); err != nil {
			return nil, err
		}
		revs = append(revs, models.Revision{AsOf: asOf, Text: text})
	}
	return revs, rows.Err()
}

func insertRevisions(tx *gorm.DB, table, idCol, ownerId string, revs []models.Revision) error {
	stmt := fmt.Sprintf(`INSERT INTO %s (%s, as_of, revision_text) VALUES (?, ?, ?)`, table, idCol)
	for _, rev := range revs {
		if err := tx.Exec(stmt, ownerId, rev.AsOf, rev.Text).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyRevisionDiff reconciles the stored revision rows with newRevs inside
// the caller's transaction. An empty diff issues no statements.
func applyRevisionDiff(tx *gorm.DB, table, idCol, ownerId string, oldRevs, newRevs []models.Revision) error {
	toDelete, toAdd := data.DiffRevisions(oldRevs, newRevs)
	if len(toDelete) == 0 && len(toAdd) == 0 {
		return nil
	}
	delStmt := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND as_of = ?`, table, idCol)
	for _, rev := range toDelete {
		if err := tx.Exec(delStmt, ownerId, rev.AsOf).Error; err != nil {
			return err
		}
	}
	return insertRevisions(tx, table, idCol, ownerId, toAdd)
}
