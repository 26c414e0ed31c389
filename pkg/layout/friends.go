package layout

import (
	"math"

	"github.com/kintree/kintree/pkg/tree"
)

// friendOnlySet returns the persons connected exclusively through friend
// relationships. A person with no relationships at all is not friend-only;
// they stay in the rank graph as an isolated node.
func friendOnlySet(t *tree.Tree) map[string]bool {
	touched := make(map[string]bool)
	family := make(map[string]bool)
	for _, id := range t.RelationshipIDs() {
		r := t.Relationships[id]
		if r == nil {
			continue
		}
		touched[r.SourcePersonID] = true
		touched[r.TargetPersonID] = true
		if r.Type.IsFamily() {
			family[r.SourcePersonID] = true
			family[r.TargetPersonID] = true
		}
	}

	friends := make(map[string]bool)
	for _, id := range t.PersonIDs() {
		if touched[id] && !family[id] {
			friends[id] = true
		}
	}
	return friends
}

// placeFriends positions friend-only persons in a column to the right of the
// family layout. x is the rightmost family node edge plus a fixed offset;
// y starts at the average center of the friend's laid-out family contacts
// (0 when none) and is nudged downward past already-used slots.
//
// This is a greedy packing in sorted-id order: each friend consumes its slot
// without any global reflow. The order dependence is intentional; friends
// are a secondary visual layer and the stable greedy result is what matters.
func placeFriends(t *tree.Tree, centers map[string]tree.Position, friends map[string]bool, geo Geometry) map[string]tree.Position {
	out := make(map[string]tree.Position, len(friends))
	if len(friends) == 0 {
		return out
	}

	right := 0.0
	for _, p := range centers {
		if edge := p.X + geo.NodeWidth/2; edge > right {
			right = edge
		}
	}
	x := right + geo.FriendOffset

	var usedYs []float64
	step := geo.NodeHeight + geo.FriendGap
	for _, id := range t.PersonIDs() {
		if !friends[id] {
			continue
		}

		var sum float64
		var count int
		for _, rid := range t.RelationshipIDs() {
			r := t.Relationships[rid]
			if r == nil || !r.Type.IsFriend() {
				continue
			}
			var other string
			switch id {
			case r.SourcePersonID:
				other = r.TargetPersonID
			case r.TargetPersonID:
				other = r.SourcePersonID
			default:
				continue
			}
			if p, ok := centers[other]; ok {
				sum += p.Y
				count++
			}
		}
		y := 0.0
		if count > 0 {
			y = sum / float64(count)
		}

		for settled := false; !settled; {
			settled = true
			for _, used := range usedYs {
				if math.Abs(y-used) < step {
					y = used + step
					settled = false
				}
			}
		}
		usedYs = append(usedYs, y)
		out[id] = tree.Position{X: x, Y: y}
	}
	return out
}
