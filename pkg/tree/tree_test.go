package tree

import (
	"bytes"
	"path/filepath"
	"testing"
)

func intp(v int) *int { return &v }

func sampleTree() *Tree {
	t := New()
	t.ID = "t1"
	t.Name = "Sample"
	t.AddPerson(&Person{ID: "p1", Name: "Ada", BirthYear: intp(1941), Gender: GenderFemale})
	t.AddPerson(&Person{ID: "p2", Name: "Ben", Position: &Position{X: 10, Y: 20}})
	t.AddRelationship(&Relationship{
		ID: "r1", Type: TypePartner, SourcePersonID: "p1", TargetPersonID: "p2",
		Periods: []Period{{StartYear: 1970, Status: StatusMarried}},
	})
	t.Events["e1"] = &TraumaEvent{ID: "e1", Title: "War", Year: intp(1944), PersonIDs: []string{"p1"}}
	return t
}

func TestTreeRoundTrip(t *testing.T) {
	orig := sampleTree()

	data, err := MarshalTree(orig)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	back, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}

	if back.ID != "t1" || back.Name != "Sample" {
		t.Errorf("identity = (%s, %s), want (t1, Sample)", back.ID, back.Name)
	}
	if len(back.Persons) != 2 || len(back.Relationships) != 1 || len(back.Events) != 1 {
		t.Fatalf("collections = %d/%d/%d, want 2/1/1", len(back.Persons), len(back.Relationships), len(back.Events))
	}
	p2 := back.Person("p2")
	if p2 == nil || p2.Position == nil || p2.Position.X != 10 || p2.Position.Y != 20 {
		t.Errorf("pinned position lost in round trip: %+v", p2)
	}
	r1 := back.Relationships["r1"]
	if r1 == nil || len(r1.Periods) != 1 || r1.Periods[0].Status != StatusMarried {
		t.Errorf("relationship periods lost in round trip: %+v", r1)
	}
}

func TestReadTreeInitializesMaps(t *testing.T) {
	tr, err := ReadTree(bytes.NewReader([]byte(`{"persons": {}, "relationships": {}}`)))
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	// Absent collections must still be iterable.
	if tr.Events == nil || tr.LifeEvents == nil || tr.Classifications == nil {
		t.Error("entity maps should be initialized after decode")
	}
}

func TestReadTreeRepairsIDs(t *testing.T) {
	raw := `{"persons": {"p1": {"id": "stale", "name": "Ada"}}, "relationships": {"r1": {"id": "", "type": "friend", "source_person_id": "p1", "target_person_id": "p2"}}}`
	tr, err := ReadTree(bytes.NewReader([]byte(raw)))
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if tr.Person("p1").ID != "p1" {
		t.Errorf("person id = %q, want map key p1", tr.Person("p1").ID)
	}
	if tr.Relationships["r1"].ID != "r1" {
		t.Errorf("relationship id = %q, want map key r1", tr.Relationships["r1"].ID)
	}
}

func TestTreeFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := WriteTreeFile(sampleTree(), path); err != nil {
		t.Fatalf("WriteTreeFile: %v", err)
	}
	back, err := ReadTreeFile(path)
	if err != nil {
		t.Fatalf("ReadTreeFile: %v", err)
	}
	if len(back.Persons) != 2 {
		t.Errorf("persons = %d, want 2", len(back.Persons))
	}
}

func TestPersonIDsSorted(t *testing.T) {
	tr := New()
	for _, id := range []string{"z", "a", "m"} {
		tr.AddPerson(&Person{ID: id})
	}
	ids := tr.PersonIDs()
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "m" || ids[2] != "z" {
		t.Errorf("PersonIDs() = %v, want [a m z]", ids)
	}
}

func TestRelationshipValidate(t *testing.T) {
	tests := []struct {
		name    string
		rel     Relationship
		wantErr bool
	}{
		{
			name: "Valid",
			rel:  Relationship{ID: "r", Type: TypeBiologicalParent, SourcePersonID: "a", TargetPersonID: "b"},
		},
		{
			name:    "SelfReference",
			rel:     Relationship{ID: "r", Type: TypeFriend, SourcePersonID: "a", TargetPersonID: "a"},
			wantErr: true,
		},
		{
			name:    "UnknownType",
			rel:     Relationship{ID: "r", Type: "nemesis", SourcePersonID: "a", TargetPersonID: "b"},
			wantErr: true,
		},
		{
			name:    "MissingEndpoint",
			rel:     Relationship{ID: "r", Type: TypeFriend, SourcePersonID: "a"},
			wantErr: true,
		},
		{
			name: "PeriodEndsBeforeStart",
			rel: Relationship{
				ID: "r", Type: TypePartner, SourcePersonID: "a", TargetPersonID: "b",
				Periods: []Period{{StartYear: 2000, EndYear: intp(1990), Status: StatusDivorced}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rel.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRelationshipTypePredicates(t *testing.T) {
	if !TypeStepParent.IsParent() || TypeFriend.IsParent() {
		t.Error("IsParent misclassifies")
	}
	if !TypeHalfSibling.IsSibling() || TypePartner.IsSibling() {
		t.Error("IsSibling misclassifies")
	}
	if TypeFriend.IsFamily() || !TypePartner.IsFamily() {
		t.Error("IsFamily misclassifies")
	}
	if TypeCoParent.Category() != CategoryParent || TypeFriend.Category() != CategoryFriend {
		t.Error("Category misclassifies")
	}
}

func TestPairKey(t *testing.T) {
	if PairKey("b", "a") != "a|b" || PairKey("a", "b") != "a|b" {
		t.Error("PairKey should sort its operands")
	}
	a, b := SplitPairKey("a|b")
	if a != "a" || b != "b" {
		t.Errorf("SplitPairKey = (%s, %s)", a, b)
	}
}
