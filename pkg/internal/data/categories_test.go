package data

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

func cat(id, name string, parentId *string) models.Category {
	return models.Category{Id: id, WebLogId: "test", Name: name, Slug: name, ParentId: parentId}
}

func TestOrderByHierarchyDepthFirst(t *testing.T) {
	// Input is sorted by name, the order adapters feed it in.
	cats := []models.Category{
		cat("fav", "Favorites", nil),
		cat("moon", "Moonshot", lo.ToPtr("spit")),
		cat("proj", "Projects", nil),
		cat("spit", "Spitball", lo.ToPtr("fav")),
	}

	ordered, err := OrderByHierarchy(cats)
	require.NoError(t, err)
	require.Len(t, ordered, 4)

	assert.Equal(t, "Favorites", ordered[0].Name)
	assert.Empty(t, ordered[0].ParentNames)

	assert.Equal(t, "Spitball", ordered[1].Name)
	assert.Equal(t, []string{"Favorites"}, ordered[1].ParentNames)

	assert.Equal(t, "Moonshot", ordered[2].Name)
	assert.Equal(t, []string{"Favorites", "Spitball"}, ordered[2].ParentNames)

	assert.Equal(t, "Projects", ordered[3].Name)
	assert.Empty(t, ordered[3].ParentNames)
}

func TestOrderByHierarchyPreservesSiblingOrder(t *testing.T) {
	cats := []models.Category{
		cat("a", "Alpha", nil),
		cat("b", "Beta", nil),
		cat("c", "Gamma", nil),
	}

	ordered, err := OrderByHierarchy(cats)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"},
		lo.Map(ordered, func(c models.DisplayCategory, _ int) string { return c.Name }))
}

func TestOrderByHierarchyDanglingParentIsConflict(t *testing.T) {
	cats := []models.Category{
		cat("a", "Alpha", nil),
		cat("b", "Beta", lo.ToPtr("gone")),
	}

	_, err := OrderByHierarchy(cats)
	require.Error(t, err)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestSubtreeIds(t *testing.T) {
	cats := []models.Category{
		cat("fav", "Favorites", nil),
		cat("moon", "Moonshot", lo.ToPtr("spit")),
		cat("spit", "Spitball", lo.ToPtr("fav")),
	}
	ordered, err := OrderByHierarchy(cats)
	require.NoError(t, err)

	fav, ok := lo.Find(ordered, func(c models.DisplayCategory) bool { return c.Id == "fav" })
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"fav", "spit", "moon"}, SubtreeIds(ordered, fav))

	spit, ok := lo.Find(ordered, func(c models.DisplayCategory) bool { return c.Id == "spit" })
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"spit", "moon"}, SubtreeIds(ordered, spit))

	moon, ok := lo.Find(ordered, func(c models.DisplayCategory) bool { return c.Id == "moon" })
	require.True(t, ok)
	assert.Equal(t, []string{"moon"}, SubtreeIds(ordered, moon))
}

func TestWouldCycle(t *testing.T) {
	cats := []models.Category{
		cat("a", "Alpha", nil),
		cat("b", "Beta", lo.ToPtr("a")),
		cat("c", "Gamma", lo.ToPtr("b")),
	}

	assert.True(t, WouldCycle(cats, "a", lo.ToPtr("c")), "re-parenting the root under its deepest child")
	assert.True(t, WouldCycle(cats, "b", lo.ToPtr("b")), "self parent")
	assert.False(t, WouldCycle(cats, "c", lo.ToPtr("a")), "moving a leaf up the chain")
	assert.False(t, WouldCycle(cats, "a", nil), "clearing the parent")
	assert.False(t, WouldCycle(cats, "b", lo.ToPtr("missing")), "dangling parent is not a cycle")
}

func TestWouldCycleCorruptChainTerminates(t *testing.T) {
	// x and y already point at each other; the walk must not loop.
	cats := []models.Category{
		cat("x", "X", lo.ToPtr("y")),
		cat("y", "Y", lo.ToPtr("x")),
		cat("z", "Z", nil),
	}
	assert.False(t, WouldCycle(cats, "z", lo.ToPtr("missing")))
	assert.True(t, WouldCycle(cats, "z", lo.ToPtr("x")), "walking into a corrupt chain reports the cycle")
}
