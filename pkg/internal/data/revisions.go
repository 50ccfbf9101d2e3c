package data

import (
	"sort"

	"github.com/samber/lo"

	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

// revisionKey identifies a revision structurally: same instant and same text
// means same revision.
type revisionKey struct {
	asOf int64
	text string
}

func keyOf(rev models.Revision) revisionKey {
	return revisionKey{asOf: rev.AsOf.UnixNano(), text: rev.Text}
}

// DiffRevisions computes the minimal change set turning oldRevs into newRevs:
// toDelete holds revisions present only in the old list, toAdd those present
// only in the new one. It is a pure function; callers that receive two empty
// slices must issue no statements at all. Applying the diff reconstructs the
// new list as a set, with read order re-derived newest first by AsOf.
func DiffRevisions(oldRevs, newRevs []models.Revision) (toDelete, toAdd []models.Revision) {
	oldKeys := lo.SliceToMap(oldRevs, func(rev models.Revision) (revisionKey, struct{}) {
		return keyOf(rev), struct{}{}
	})
	newKeys := lo.SliceToMap(newRevs, func(rev models.Revision) (revisionKey, struct{}) {
		return keyOf(rev), struct{}{}
	})

	toDelete = lo.Filter(oldRevs, func(rev models.Revision, _ int) bool {
		_, ok := newKeys[keyOf(rev)]
		return !ok
	})
	toAdd = lo.Filter(newRevs, func(rev models.Revision, _ int) bool {
		_, ok := oldKeys[keyOf(rev)]
		return !ok
	})
	return toDelete, toAdd
}

// SortRevisions orders a revision list newest first by AsOf, the order in
// which revision history is always read.
func SortRevisions(revs []models.Revision) {
	sort.SliceStable(revs, func(i, j int) bool {
		return revs[i].AsOf.After(revs[j].AsOf)
	})
}
