package tree

import (
	"strings"

	"github.com/kintree/kintree/pkg/errors"
)

// RelationshipType identifies the kind of connection between two persons.
type RelationshipType string

// Relationship types. Parent types are directed parent→child; partner,
// friend, and sibling types are symmetric but stored with an arbitrary
// source/target order.
const (
	TypeBiologicalParent  RelationshipType = "biological-parent"
	TypeStepParent        RelationshipType = "step-parent"
	TypeAdoptiveParent    RelationshipType = "adoptive-parent"
	TypeCoParent          RelationshipType = "co-parent"
	TypeBiologicalSibling RelationshipType = "biological-sibling"
	TypeStepSibling       RelationshipType = "step-sibling"
	TypeHalfSibling       RelationshipType = "half-sibling"
	TypePartner           RelationshipType = "partner"
	TypeFriend            RelationshipType = "friend"
)

// Category groups relationship types for edge filtering.
type Category string

// Edge categories exposed on layout edges so callers can filter by kind.
const (
	CategoryParent  Category = "parent"
	CategoryPartner Category = "partner"
	CategorySibling Category = "sibling"
	CategoryFriend  Category = "friend"
)

// relationshipTypes is the set of valid types, used by Validate.
var relationshipTypes = map[RelationshipType]bool{
	TypeBiologicalParent:  true,
	TypeStepParent:        true,
	TypeAdoptiveParent:    true,
	TypeCoParent:          true,
	TypeBiologicalSibling: true,
	TypeStepSibling:       true,
	TypeHalfSibling:       true,
	TypePartner:           true,
	TypeFriend:            true,
}

// IsParent reports whether the type is directed parent→child.
func (t RelationshipType) IsParent() bool {
	switch t {
	case TypeBiologicalParent, TypeStepParent, TypeAdoptiveParent, TypeCoParent:
		return true
	}
	return false
}

// IsSibling reports whether the type is an explicit sibling connection.
func (t RelationshipType) IsSibling() bool {
	switch t {
	case TypeBiologicalSibling, TypeStepSibling, TypeHalfSibling:
		return true
	}
	return false
}

// IsPartner reports whether the type is a partner connection.
func (t RelationshipType) IsPartner() bool { return t == TypePartner }

// IsFriend reports whether the type is a friendship.
func (t RelationshipType) IsFriend() bool { return t == TypeFriend }

// IsFamily reports whether the type participates in the family layout
// (everything except friendships).
func (t RelationshipType) IsFamily() bool { return !t.IsFriend() }

// Category returns the filter category for the type.
func (t RelationshipType) Category() Category {
	switch {
	case t.IsParent():
		return CategoryParent
	case t.IsPartner():
		return CategoryPartner
	case t.IsSibling():
		return CategorySibling
	default:
		return CategoryFriend
	}
}

// PeriodStatus describes one phase of a partner relationship.
type PeriodStatus string

// Period statuses for partner relationships.
const (
	StatusTogether  PeriodStatus = "together"
	StatusMarried   PeriodStatus = "married"
	StatusSeparated PeriodStatus = "separated"
	StatusDivorced  PeriodStatus = "divorced"
)

// Period is one dated phase of a partner relationship.
// EndYear is nil for an ongoing phase.
type Period struct {
	StartYear int          `json:"start_year" bson:"start_year"`
	EndYear   *int         `json:"end_year,omitempty" bson:"end_year,omitempty"`
	Status    PeriodStatus `json:"status" bson:"status"`
}

// Relationship connects two persons.
//
// Parent types are directed SourcePersonID (parent) → TargetPersonID (child).
// Periods and ActivePeriod are only meaningful for partner relationships.
type Relationship struct {
	ID             string           `json:"id" bson:"id"`
	Type           RelationshipType `json:"type" bson:"type"`
	SourcePersonID string           `json:"source_person_id" bson:"source_person_id"`
	TargetPersonID string           `json:"target_person_id" bson:"target_person_id"`
	Periods        []Period         `json:"periods,omitempty" bson:"periods,omitempty"`
	ActivePeriod   *Period          `json:"active_period,omitempty" bson:"active_period,omitempty"`
}

// Validate checks structural integrity for the API write path.
// The layout engine itself never calls this: it tolerates malformed
// relationships and degrades per the engine's fallback rules.
func (r *Relationship) Validate() error {
	if r.SourcePersonID == "" || r.TargetPersonID == "" {
		return errors.New(errors.ErrCodeInvalidRelationship, "relationship %s must reference two persons", r.ID)
	}
	if r.SourcePersonID == r.TargetPersonID {
		return errors.New(errors.ErrCodeInvalidRelationship, "relationship %s connects a person to themselves", r.ID)
	}
	if !relationshipTypes[r.Type] {
		return errors.New(errors.ErrCodeInvalidRelationship, "relationship %s has unknown type %q", r.ID, r.Type)
	}
	for i, p := range r.Periods {
		if p.EndYear != nil && *p.EndYear < p.StartYear {
			return errors.New(errors.ErrCodeInvalidRelationship,
				"relationship %s period %d ends (%d) before it starts (%d)", r.ID, i, *p.EndYear, p.StartYear)
		}
	}
	return nil
}

// PairKey returns the canonical unordered key for two person ids:
// the sorted pair joined with "|". It is used for couple keys, explicit
// sibling lookups, and inferred-sibling ids.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// SplitPairKey splits a key produced by [PairKey] back into its two ids.
func SplitPairKey(key string) (string, string) {
	a, b, _ := strings.Cut(key, "|")
	return a, b
}
