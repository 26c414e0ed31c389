package layout

import (
	"slices"

	"golang.org/x/exp/maps"

	"github.com/kintree/kintree/pkg/tree"
)

// entityIndex groups auxiliary entities by every person id they reference.
// Built once per run, then only queried; an entity referencing several
// persons appears under each of them.
type entityIndex struct {
	events          map[string][]*tree.TraumaEvent
	lifeEvents      map[string][]*tree.LifeEvent
	classifications map[string][]*tree.Classification
}

func buildEntityIndex(t *tree.Tree) entityIndex {
	idx := entityIndex{
		events:          make(map[string][]*tree.TraumaEvent),
		lifeEvents:      make(map[string][]*tree.LifeEvent),
		classifications: make(map[string][]*tree.Classification),
	}
	eventIDs := maps.Keys(t.Events)
	slices.Sort(eventIDs)
	for _, id := range eventIDs {
		e := t.Events[id]
		for _, pid := range e.PersonIDs {
			idx.events[pid] = append(idx.events[pid], e)
		}
	}
	lifeEventIDs := maps.Keys(t.LifeEvents)
	slices.Sort(lifeEventIDs)
	for _, id := range lifeEventIDs {
		e := t.LifeEvents[id]
		for _, pid := range e.PersonIDs {
			idx.lifeEvents[pid] = append(idx.lifeEvents[pid], e)
		}
	}
	classificationIDs := maps.Keys(t.Classifications)
	slices.Sort(classificationIDs)
	for _, id := range classificationIDs {
		c := t.Classifications[id]
		for _, pid := range c.PersonIDs {
			idx.classifications[pid] = append(idx.classifications[pid], c)
		}
	}
	return idx
}

// assembleNodes resolves the final position for every person and attaches
// indexed entities. Position priority: pinned position, then computed friend
// position, then rank position, then the origin fallback. The fallback only
// fires for persons absent from every earlier stage and must not fail.
//
// Returns the node list in sorted person-id order plus the center map.
func assembleNodes(
	t *tree.Tree,
	centers, friendCenters map[string]tree.Position,
	friends map[string]bool,
	idx entityIndex,
	s Settings,
	geo Geometry,
) ([]Node, map[string]tree.Position) {
	nodes := make([]Node, 0, len(t.Persons))
	nodeCenters := make(map[string]tree.Position, len(t.Persons))

	half := tree.Position{X: geo.NodeWidth / 2, Y: geo.NodeHeight / 2}
	for _, id := range t.PersonIDs() {
		p := t.Persons[id]
		if p == nil {
			continue
		}

		var topLeft tree.Position
		switch {
		case p.Position != nil:
			topLeft = *p.Position
		default:
			if c, ok := friendCenters[id]; ok {
				topLeft = tree.Position{X: c.X - half.X, Y: c.Y - half.Y}
			} else if c, ok := centers[id]; ok {
				topLeft = tree.Position{X: c.X - half.X, Y: c.Y - half.Y}
			}
			// else: origin fallback, zero value already
		}

		nodes = append(nodes, Node{
			ID:       id,
			Position: topLeft,
			Width:    geo.NodeWidth,
			Height:   geo.NodeHeight,
			Selected: s.SelectedPersonID != "" && s.SelectedPersonID == id,
			Data: NodeData{
				Person:          p,
				Events:          idx.events[id],
				LifeEvents:      idx.lifeEvents[id],
				Classifications: idx.classifications[id],
				FriendOnly:      friends[id],
			},
		})
		nodeCenters[id] = tree.Position{X: topLeft.X + half.X, Y: topLeft.Y + half.Y}
	}
	return nodes, nodeCenters
}
