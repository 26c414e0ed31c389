package tree

import (
	"fmt"
	"testing"
)

// buildFamily constructs a tree from parent→child bio edges and explicit
// sibling edges, creating persons on first mention.
func buildFamily(bio [][2]string, siblings [][2]string) *Tree {
	t := New()
	add := func(id string) {
		if t.Persons[id] == nil {
			t.AddPerson(&Person{ID: id, Name: "Person " + id})
		}
	}
	for i, e := range bio {
		add(e[0])
		add(e[1])
		t.AddRelationship(&Relationship{
			ID:             fmt.Sprintf("bio-%02d", i),
			Type:           TypeBiologicalParent,
			SourcePersonID: e[0],
			TargetPersonID: e[1],
		})
	}
	for i, e := range siblings {
		add(e[0])
		add(e[1])
		t.AddRelationship(&Relationship{
			ID:             fmt.Sprintf("sib-%02d", i),
			Type:           TypeBiologicalSibling,
			SourcePersonID: e[0],
			TargetPersonID: e[1],
		})
	}
	return t
}

func TestInferSiblings(t *testing.T) {
	tests := []struct {
		name     string
		bio      [][2]string
		siblings [][2]string
		want     []InferredSibling
	}{
		{
			name: "FullSiblings",
			bio:  [][2]string{{"p1", "c1"}, {"p2", "c1"}, {"p1", "c2"}, {"p2", "c2"}},
			want: []InferredSibling{
				{PersonAID: "c1", PersonBID: "c2", Type: FullSibling, SharedParentIDs: []string{"p1", "p2"}},
			},
		},
		{
			name: "HalfSiblings",
			bio:  [][2]string{{"p1", "c1"}, {"p2", "c1"}, {"p1", "c2"}, {"p3", "c2"}},
			want: []InferredSibling{
				{PersonAID: "c1", PersonBID: "c2", Type: HalfSibling, SharedParentIDs: []string{"p1"}},
			},
		},
		{
			name: "NoSharedParents",
			bio:  [][2]string{{"p1", "c1"}, {"p2", "c2"}},
			want: nil,
		},
		{
			name:     "ExplicitSiblingSuppressesInference",
			bio:      [][2]string{{"p1", "c1"}, {"p1", "c2"}},
			siblings: [][2]string{{"c2", "c1"}}, // reversed direction still counts
			want:     nil,
		},
		{
			name: "ThreeChildrenThreePairs",
			bio: [][2]string{
				{"p1", "c1"}, {"p2", "c1"},
				{"p1", "c2"}, {"p2", "c2"},
				{"p1", "c3"},
			},
			want: []InferredSibling{
				{PersonAID: "c1", PersonBID: "c2", Type: FullSibling, SharedParentIDs: []string{"p1", "p2"}},
				{PersonAID: "c1", PersonBID: "c3", Type: HalfSibling, SharedParentIDs: []string{"p1"}},
				{PersonAID: "c2", PersonBID: "c3", Type: HalfSibling, SharedParentIDs: []string{"p1"}},
			},
		},
		{
			name: "ParentlessPersonContributesNothing",
			bio:  [][2]string{{"p1", "c1"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferSiblings(buildFamily(tt.bio, tt.siblings))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d inferred pairs, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, want := range tt.want {
				g := got[i]
				if g.PersonAID != want.PersonAID || g.PersonBID != want.PersonBID {
					t.Errorf("pair %d = (%s,%s), want (%s,%s)", i, g.PersonAID, g.PersonBID, want.PersonAID, want.PersonBID)
				}
				if g.Type != want.Type {
					t.Errorf("pair %d type = %s, want %s", i, g.Type, want.Type)
				}
				if len(g.SharedParentIDs) != len(want.SharedParentIDs) {
					t.Errorf("pair %d shared parents = %v, want %v", i, g.SharedParentIDs, want.SharedParentIDs)
					continue
				}
				for j := range want.SharedParentIDs {
					if g.SharedParentIDs[j] != want.SharedParentIDs[j] {
						t.Errorf("pair %d shared parents = %v, want %v", i, g.SharedParentIDs, want.SharedParentIDs)
						break
					}
				}
			}
		})
	}
}

func TestInferSiblingsDeterministic(t *testing.T) {
	tr := buildFamily([][2]string{
		{"p1", "c1"}, {"p2", "c1"},
		{"p1", "c2"}, {"p2", "c2"},
		{"p3", "c3"}, {"p1", "c3"},
	}, nil)

	first := InferSiblings(tr)
	for i := 0; i < 10; i++ {
		again := InferSiblings(tr)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d pairs, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].EdgeID() != first[j].EdgeID() {
				t.Fatalf("run %d: pair %d = %s, want %s", i, j, again[j].EdgeID(), first[j].EdgeID())
			}
		}
	}
}

func TestInferredSiblingEdgeID(t *testing.T) {
	s := InferredSibling{PersonAID: "a", PersonBID: "b"}
	if s.EdgeID() != "inferred-sibling:a|b" {
		t.Errorf("EdgeID() = %q", s.EdgeID())
	}
}

func TestBiologicalParentsOf(t *testing.T) {
	tr := buildFamily([][2]string{{"p2", "c1"}, {"p1", "c1"}}, nil)
	parents := BiologicalParentsOf(tr)
	got := parents["c1"]
	if len(got) != 2 || got[0] != "p1" || got[1] != "p2" {
		t.Errorf("parents of c1 = %v, want [p1 p2] sorted", got)
	}
}
