package tree

import (
	"slices"
)

// SiblingType classifies an inferred sibling pair by shared parent count.
type SiblingType string

// Inferred sibling types.
const (
	FullSibling SiblingType = "full_sibling"
	HalfSibling SiblingType = "half_sibling"
)

// InferredSibling is a derived sibling connection between two persons who
// share at least one biological parent and have no explicit sibling edge.
// It is never persisted; the layout engine recomputes it on every run.
//
// PersonAID < PersonBID always holds, so the pair is canonical.
type InferredSibling struct {
	PersonAID       string      `json:"person_a_id"`
	PersonBID       string      `json:"person_b_id"`
	Type            SiblingType `json:"type"`
	SharedParentIDs []string    `json:"shared_parent_ids"`
}

// EdgeID returns the synthetic, deterministic edge id for the pair.
func (s InferredSibling) EdgeID() string {
	return "inferred-sibling:" + PairKey(s.PersonAID, s.PersonBID)
}

// InferSiblings derives implicit sibling pairs from shared biological parents.
//
// For every unordered pair of persons with at least one shared biological
// parent: two shared parents yield a full sibling, exactly one a half
// sibling. Pairs already connected by an explicit sibling-type relationship
// (biological, half, or step, in either direction) are skipped so derived
// edges never duplicate or contradict stored ones.
//
// The result is deterministic: pairs are emitted in sorted person-id order,
// and SharedParentIDs are sorted.
func InferSiblings(t *Tree) []InferredSibling {
	bioParents := BiologicalParentsOf(t)

	// Explicit sibling edges suppress inference for their pair.
	explicit := make(map[string]bool)
	for _, id := range t.RelationshipIDs() {
		r := t.Relationships[id]
		if r != nil && r.Type.IsSibling() {
			explicit[PairKey(r.SourcePersonID, r.TargetPersonID)] = true
		}
	}

	ids := t.PersonIDs()
	var out []InferredSibling
	for i := 0; i < len(ids); i++ {
		a := ids[i]
		if len(bioParents[a]) == 0 {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			b := ids[j]
			shared := intersectSorted(bioParents[a], bioParents[b])
			if len(shared) == 0 || explicit[PairKey(a, b)] {
				continue
			}
			typ := HalfSibling
			if len(shared) >= 2 {
				typ = FullSibling
			}
			out = append(out, InferredSibling{
				PersonAID:       a,
				PersonBID:       b,
				Type:            typ,
				SharedParentIDs: shared,
			})
		}
	}
	return out
}

// BiologicalParentsOf builds the child → sorted biological parent ids index.
// Built once in relationship-id order, then only queried. Sibling inference
// and couple grouping both start from this index.
func BiologicalParentsOf(t *Tree) map[string][]string {
	parents := make(map[string][]string)
	for _, id := range t.RelationshipIDs() {
		r := t.Relationships[id]
		if r == nil || r.Type != TypeBiologicalParent {
			continue
		}
		if !slices.Contains(parents[r.TargetPersonID], r.SourcePersonID) {
			parents[r.TargetPersonID] = append(parents[r.TargetPersonID], r.SourcePersonID)
		}
	}
	for child := range parents {
		slices.Sort(parents[child])
	}
	return parents
}

// intersectSorted returns the sorted intersection of two sorted id slices.
func intersectSorted(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
