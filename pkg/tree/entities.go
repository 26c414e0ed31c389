package tree

// TraumaEvent is a significant adverse event attached to one or more persons.
// An event may reference several persons (e.g., a shared loss) and then
// appears on every referenced node.
type TraumaEvent struct {
	ID        string   `json:"id" bson:"id"`
	Title     string   `json:"title" bson:"title"`
	Year      *int     `json:"year,omitempty" bson:"year,omitempty"`
	Notes     string   `json:"notes,omitempty" bson:"notes,omitempty"`
	PersonIDs []string `json:"person_ids" bson:"person_ids"`
}

// LifeEvent is a notable non-trauma event (birth of a child, migration,
// career change) attached to one or more persons.
type LifeEvent struct {
	ID        string   `json:"id" bson:"id"`
	Title     string   `json:"title" bson:"title"`
	Year      *int     `json:"year,omitempty" bson:"year,omitempty"`
	Notes     string   `json:"notes,omitempty" bson:"notes,omitempty"`
	PersonIDs []string `json:"person_ids" bson:"person_ids"`
}

// Classification is a user-defined label (pattern, role, diagnosis) attached
// to one or more persons.
type Classification struct {
	ID        string   `json:"id" bson:"id"`
	Name      string   `json:"name" bson:"name"`
	Color     string   `json:"color,omitempty" bson:"color,omitempty"`
	PersonIDs []string `json:"person_ids" bson:"person_ids"`
}
