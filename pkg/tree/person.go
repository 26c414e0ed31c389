package tree

// Gender is a free-form gender label. The layout engine never interprets it;
// it is carried through to renderers and API consumers.
type Gender string

// Common gender values. Any other string is preserved as-is.
const (
	GenderFemale  Gender = "female"
	GenderMale    Gender = "male"
	GenderDiverse Gender = "diverse"
	GenderUnknown Gender = ""
)

// Position is a 2-D point in layout coordinates.
// On a Person it is the top-left corner of the node box; node centers are
// derived by adding half the node dimensions.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Person is one individual in a tree.
//
// The optional Position is a user pin: when set, it overrides every computed
// placement for this person. Dates are split into year/month/day so partially
// known dates ("born 1941") round-trip without a fake month or day.
type Person struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`

	BirthYear  *int `json:"birth_year,omitempty" bson:"birth_year,omitempty"`
	BirthMonth *int `json:"birth_month,omitempty" bson:"birth_month,omitempty"`
	BirthDay   *int `json:"birth_day,omitempty" bson:"birth_day,omitempty"`
	DeathYear  *int `json:"death_year,omitempty" bson:"death_year,omitempty"`
	DeathMonth *int `json:"death_month,omitempty" bson:"death_month,omitempty"`
	DeathDay   *int `json:"death_day,omitempty" bson:"death_day,omitempty"`

	Gender  Gender `json:"gender,omitempty" bson:"gender,omitempty"`
	Adopted bool   `json:"is_adopted,omitempty" bson:"is_adopted,omitempty"`
	Notes   string `json:"notes,omitempty" bson:"notes,omitempty"`

	// Position pins the node to a fixed spot, overriding all computed layout.
	Position *Position `json:"position,omitempty" bson:"position,omitempty"`
}

// Deceased reports whether any death date component is recorded.
func (p *Person) Deceased() bool {
	return p.DeathYear != nil || p.DeathMonth != nil || p.DeathDay != nil
}

// DisplayName returns the person's name, or "?" when unknown.
// Renderers and edge labels use this so missing persons degrade visibly
// instead of failing.
func (p *Person) DisplayName() string {
	if p == nil || p.Name == "" {
		return "?"
	}
	return p.Name
}
