package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/exp/maps"
)

// =============================================================================
// Tree - Family Graph Container
// =============================================================================

// Tree holds one family graph: persons, relationships, and the auxiliary
// entities that attach to persons. All collections are keyed by id.
//
// Maps are never nil after [New] or [ReadTree]; use [Tree.Init] on
// hand-constructed values before passing them to the layout engine.
type Tree struct {
	ID   string `json:"id,omitempty" bson:"id,omitempty"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`

	Persons         map[string]*Person         `json:"persons" bson:"persons"`
	Relationships   map[string]*Relationship   `json:"relationships" bson:"relationships"`
	Events          map[string]*TraumaEvent    `json:"events,omitempty" bson:"events,omitempty"`
	LifeEvents      map[string]*LifeEvent      `json:"life_events,omitempty" bson:"life_events,omitempty"`
	Classifications map[string]*Classification `json:"classifications,omitempty" bson:"classifications,omitempty"`
}

// New creates an empty tree with all maps initialized.
func New() *Tree {
	t := &Tree{}
	t.Init()
	return t
}

// Init ensures all collection maps are non-nil.
// Decoding JSON with absent fields leaves maps nil; Init makes the value safe
// for the layout engine, which iterates every collection.
func (t *Tree) Init() {
	if t.Persons == nil {
		t.Persons = make(map[string]*Person)
	}
	if t.Relationships == nil {
		t.Relationships = make(map[string]*Relationship)
	}
	if t.Events == nil {
		t.Events = make(map[string]*TraumaEvent)
	}
	if t.LifeEvents == nil {
		t.LifeEvents = make(map[string]*LifeEvent)
	}
	if t.Classifications == nil {
		t.Classifications = make(map[string]*Classification)
	}
}

// AddPerson inserts or replaces a person.
func (t *Tree) AddPerson(p *Person) { t.Persons[p.ID] = p }

// AddRelationship inserts or replaces a relationship.
func (t *Tree) AddRelationship(r *Relationship) { t.Relationships[r.ID] = r }

// Person returns the person with the given id, or nil when absent.
// Callers must tolerate nil: relationships may reference deleted persons.
func (t *Tree) Person(id string) *Person { return t.Persons[id] }

// PersonIDs returns all person ids in sorted order.
// Sorted iteration is the engine's global tie-break: every stage that walks
// persons does so in this order so output is stable across runs.
func (t *Tree) PersonIDs() []string {
	ids := maps.Keys(t.Persons)
	slices.Sort(ids)
	return ids
}

// RelationshipIDs returns all relationship ids in sorted order.
func (t *Tree) RelationshipIDs() []string {
	ids := maps.Keys(t.Relationships)
	slices.Sort(ids)
	return ids
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalTree converts a tree to pretty-printed JSON bytes.
func MarshalTree(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTreeTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTree deserializes JSON bytes to a tree with initialized maps.
func UnmarshalTree(data []byte) (*Tree, error) {
	return readTreeFrom(bytes.NewReader(data))
}

// WriteTreeFile writes a tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(t *Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTreeTo(t, f)
}

// WriteTree writes a tree as JSON to an io.Writer.
func WriteTree(t *Tree, w io.Writer) error {
	return writeTreeTo(t, w)
}

// ReadTreeFile reads a JSON file and returns the decoded tree.
func ReadTreeFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readTreeFrom(f)
}

// ReadTree decodes a JSON tree from an io.Reader.
func ReadTree(r io.Reader) (*Tree, error) {
	return readTreeFrom(r)
}

func writeTreeTo(t *Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readTreeFrom(r io.Reader) (*Tree, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	t.Init()
	// Map keys win over any divergent embedded ids so lookups stay coherent.
	for id, p := range t.Persons {
		if p != nil {
			p.ID = id
		}
	}
	for id, rel := range t.Relationships {
		if rel != nil {
			rel.ID = id
		}
	}
	return &t, nil
}
