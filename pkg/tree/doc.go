// Package tree defines the genealogical domain model: persons, typed
// relationships, attached entities (trauma events, life events,
// classifications), and the Tree container that holds one family graph.
//
// The package is the canonical serialization format for trees. It is
// human-readable JSON designed for round-trip fidelity: import → layout →
// export → re-import produces identical results. All types carry bson tags
// so the same structs serve the Mongo-backed store.
//
// Sibling inference ([InferSiblings]) also lives here: derived sibling pairs
// are domain data, computed from shared biological parents, and consumed by
// the layout engine as zero-length rank edges.
//
// The package performs no semantic validation beyond structural checks
// ([Relationship.Validate] for the API write path): the layout engine
// tolerates arbitrary, even contradictory, relationship data by design.
package tree
