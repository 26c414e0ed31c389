package layout

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/kintree/kintree/pkg/tree"
)

// partnerPairs collects all partner relationships as canonical id pairs,
// deduplicated and in sorted order.
func partnerPairs(t *tree.Tree) [][2]string {
	seen := make(map[string]bool)
	var pairs [][2]string
	for _, id := range t.RelationshipIDs() {
		r := t.Relationships[id]
		if r == nil || !r.Type.IsPartner() {
			continue
		}
		key := tree.PairKey(r.SourcePersonID, r.TargetPersonID)
		if seen[key] {
			continue
		}
		seen[key] = true
		a, b := tree.SplitPairKey(key)
		pairs = append(pairs, [2]string{a, b})
	}
	return pairs
}

// alignPartners forces each partner pair onto a shared y (the average of
// their rank positions) and, when the pair sits closer than one node width
// plus margin, re-centers both symmetrically around their midpoint. The
// ranker never sees partner edges, so this correction is what actually
// expresses partner semantics in the geometry.
//
// Pairs with an unplaced member (friend-only or missing person) are skipped.
func alignPartners(t *tree.Tree, centers map[string]tree.Position, geo Geometry) {
	for _, pair := range partnerPairs(t) {
		a, okA := centers[pair[0]]
		b, okB := centers[pair[1]]
		if !okA || !okB {
			continue
		}

		y := (a.Y + b.Y) / 2
		a.Y, b.Y = y, y

		minSep := geo.NodeWidth + geo.NodeMargin
		if math.Abs(a.X-b.X) < minSep {
			mid := (a.X + b.X) / 2
			if a.X <= b.X {
				a.X, b.X = mid-minSep/2, mid+minSep/2
			} else {
				a.X, b.X = mid+minSep/2, mid-minSep/2
			}
		}

		centers[pair[0]] = a
		centers[pair[1]] = b
	}
}

// resolveRankOverlaps separates nodes that ended up too close on a shared
// rank. Nodes are grouped by approximate y (within the rank gap tolerance,
// which absorbs the fractional y partner averaging introduces), sorted by x,
// and pushed rightward until every gap is at least node width plus margin.
func resolveRankOverlaps(centers map[string]tree.Position, geo Geometry) {
	ids := maps.Keys(centers)
	slices.Sort(ids)
	slices.SortStableFunc(ids, func(a, b string) int {
		return cmp.Compare(centers[a].Y, centers[b].Y)
	})

	gap := geo.NodeWidth + geo.NodeMargin
	for start := 0; start < len(ids); {
		end := start + 1
		for end < len(ids) && centers[ids[end]].Y-centers[ids[start]].Y <= geo.RankGapTolerance {
			end++
		}

		row := slices.Clone(ids[start:end])
		slices.SortStableFunc(row, func(a, b string) int {
			return cmp.Compare(centers[a].X, centers[b].X)
		})
		for i := 1; i < len(row); i++ {
			prev, curr := centers[row[i-1]], centers[row[i]]
			if curr.X < prev.X+gap {
				curr.X = prev.X + gap
				centers[row[i]] = curr
			}
		}

		start = end
	}
}
