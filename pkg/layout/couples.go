package layout

import (
	"github.com/kintree/kintree/pkg/tree"
)

// buildCouples groups children under parent-couple keys. A child contributes
// to a couple only when it has exactly two biological parents; the key is
// the sorted, pipe-joined parent pair.
//
// Couple keys are returned in first-seen order over the sorted child-id
// scan, which is the deterministic order colors are assigned in.
func buildCouples(t *tree.Tree) ([]string, map[string][]string) {
	parents := tree.BiologicalParentsOf(t)

	var keys []string
	children := make(map[string][]string)
	for _, child := range t.PersonIDs() {
		ps := parents[child]
		if len(ps) != 2 {
			continue
		}
		key := tree.PairKey(ps[0], ps[1])
		if _, ok := children[key]; !ok {
			keys = append(keys, key)
		}
		children[key] = append(children[key], child)
	}
	return keys, children
}

// assignCoupleColors maps each couple key to the next palette color in
// first-seen order, cycling via modulo once the palette is exhausted.
// Assignment always happens; whether colors are used downstream is the
// caller's call (at least two couples must exist).
func assignCoupleColors(coupleKeys []string) map[string]string {
	colors := make(map[string]string, len(coupleKeys))
	for i, key := range coupleKeys {
		colors[key] = CouplePalette[i%len(CouplePalette)]
	}
	return colors
}

// detectForks selects, per couple, the primary edge that carries the merged
// fork and marks every other parent→child edge of that couple hidden.
//
// A couple participates only when both parent nodes and at least one child
// node have known centers; otherwise the couple is skipped entirely and its
// edges render normally. The primary is the first biological-parent edge
// (in sorted relationship-id order) from either parent to a shared child.
func detectForks(
	t *tree.Tree,
	coupleKeys []string,
	coupleChildren map[string][]string,
	centers map[string]tree.Position,
) (map[string]*ForkInfo, map[string]bool) {
	primary := make(map[string]*ForkInfo)
	hidden := make(map[string]bool)

	relIDs := t.RelationshipIDs()
	for _, key := range coupleKeys {
		pa, pb := tree.SplitPairKey(key)
		if _, ok := centers[pa]; !ok {
			continue
		}
		if _, ok := centers[pb]; !ok {
			continue
		}

		kids := coupleChildren[key]
		childSet := make(map[string]bool, len(kids))
		anyPlaced := false
		for _, c := range kids {
			childSet[c] = true
			if _, ok := centers[c]; ok {
				anyPlaced = true
			}
		}
		if !anyPlaced {
			continue
		}

		var fork *ForkInfo
		for _, rid := range relIDs {
			r := t.Relationships[rid]
			if r == nil || r.Type != tree.TypeBiologicalParent {
				continue
			}
			if r.SourcePersonID != pa && r.SourcePersonID != pb {
				continue
			}
			if !childSet[r.TargetPersonID] {
				continue
			}
			if fork == nil {
				fork = &ForkInfo{
					ParentIDs:   []string{pa, pb},
					ParentNames: []string{t.Person(pa).DisplayName(), t.Person(pb).DisplayName()},
					ChildIDs:    kids,
					ChildNames:  displayNames(t, kids),
				}
				primary[rid] = fork
			} else {
				hidden[rid] = true
			}
		}
	}
	return primary, hidden
}

func displayNames(t *tree.Tree, ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = t.Person(id).DisplayName()
	}
	return names
}
