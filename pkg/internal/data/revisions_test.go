package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

func rev(asOf time.Time, text string) models.Revision {
	return models.Revision{AsOf: asOf, Text: text}
}

func TestDiffRevisionsNoChange(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	revs := []models.Revision{rev(base, "Markdown: one"), rev(base.Add(time.Hour), "Markdown: two")}

	toDelete, toAdd := DiffRevisions(revs, revs)
	assert.Empty(t, toDelete)
	assert.Empty(t, toAdd)
}

func TestDiffRevisionsAddOnly(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldRevs := []models.Revision{rev(base, "Markdown: one")}
	newRevs := append([]models.Revision{rev(base.Add(time.Minute), "Markdown: two")}, oldRevs...)

	toDelete, toAdd := DiffRevisions(oldRevs, newRevs)
	assert.Empty(t, toDelete)
	require.Len(t, toAdd, 1)
	assert.Equal(t, "Markdown: two", toAdd[0].Text)
}

func TestDiffRevisionsTextChangeReplaces(t *testing.T) {
	asOf := time.Date(2024, 3, 1, 12, 0, 0, 500_000_000, time.UTC)
	oldRevs := []models.Revision{rev(asOf, "Markdown: draft")}
	newRevs := []models.Revision{rev(asOf, "Markdown: final")}

	toDelete, toAdd := DiffRevisions(oldRevs, newRevs)
	require.Len(t, toDelete, 1)
	require.Len(t, toAdd, 1)
	assert.Equal(t, "Markdown: draft", toDelete[0].Text)
	assert.Equal(t, "Markdown: final", toAdd[0].Text)
}

func TestDiffRevisionsSubSecondInstantsAreDistinct(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldRevs := []models.Revision{rev(base, "Markdown: one")}
	newRevs := []models.Revision{rev(base.Add(time.Microsecond), "Markdown: one")}

	toDelete, toAdd := DiffRevisions(oldRevs, newRevs)
	assert.Len(t, toDelete, 1)
	assert.Len(t, toAdd, 1)
}

func TestSortRevisionsNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	revs := []models.Revision{
		rev(base, "Markdown: oldest"),
		rev(base.Add(2*time.Hour), "Markdown: newest"),
		rev(base.Add(time.Hour), "Markdown: middle"),
	}

	SortRevisions(revs)
	assert.Equal(t, "Markdown: newest", revs[0].Text)
	assert.Equal(t, "Markdown: middle", revs[1].Text)
	assert.Equal(t, "Markdown: oldest", revs[2].Text)
}
