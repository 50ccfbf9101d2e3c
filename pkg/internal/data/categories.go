package data

import (
	"github.com/samber/lo"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

// OrderByHierarchy arranges a tenant's categories into a forest, depth first,
// decorating each with its ancestor name chain (root first). Input order is
// preserved among siblings, so callers pass categories already sorted by
// name. Categories whose ParentId chain never reaches a root — dangling or
// cyclic links — cannot be placed; they are reported as a conflict instead of
// retried forever.
func OrderByHierarchy(cats []models.Category) ([]models.DisplayCategory, error) {
	remaining := make(map[string]models.Category, len(cats))
	for _, cat := range cats {
		remaining[cat.Id] = cat
	}

	var ordered []models.DisplayCategory

	var attach func(parentId *string, parentNames []string)
	attach = func(parentId *string, parentNames []string) {
		for _, cat := range cats {
			current, ok := remaining[cat.Id]
			if !ok || !sameParent(current.ParentId, parentId) {
				continue
			}
			delete(remaining, current.Id)
			ordered = append(ordered, models.DisplayCategory{
				Id:          current.Id,
				Slug:        current.Slug,
				Name:        current.Name,
				Description: current.Description,
				ParentNames: parentNames,
			})
			attach(&current.Id, append(append([]string{}, parentNames...), current.Name))
		}
	}
	attach(nil, nil)

	if len(remaining) > 0 {
		return nil, conflictf("category hierarchy cannot be resolved; %d categories have cyclic or dangling parents", len(remaining))
	}
	return ordered, nil
}

// SubtreeIds returns the effective id set for a category in the ordered
// forest: the category itself plus every category whose ancestor chain
// includes it.
func SubtreeIds(ordered []models.DisplayCategory, cat models.DisplayCategory) []string {
	ids := []string{cat.Id}
	for _, other := range ordered {
		if other.Id != cat.Id && lo.Contains(other.ParentNames, cat.Name) {
			ids = append(ids, other.Id)
		}
	}
	return ids
}

// WouldCycle reports whether assigning parentId to the category catId would
// close a cycle, walking the ancestor chain with a visited set so a corrupt
// chain cannot loop the walk itself.
func WouldCycle(cats []models.Category, catId string, parentId *string) bool {
	byId := lo.SliceToMap(cats, func(c models.Category) (string, models.Category) { return c.Id, c })
	seen := map[string]bool{catId: true}
	for current := parentId; current != nil; {
		if seen[*current] {
			return true
		}
		seen[*current] = true
		parent, ok := byId[*current]
		if !ok {
			return false
		}
		current = parent.ParentId
	}
	return false
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
