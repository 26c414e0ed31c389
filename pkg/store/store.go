// Package store persists family trees for the server and CLI.
//
// Two backends exist: an in-memory store for development and testing, and a
// MongoDB store for deployments. Both implement [TreeStore]; the engine
// itself never touches storage.
package store

import (
	"context"
	"errors"

	"github.com/kintree/kintree/pkg/tree"
)

// Sentinel errors for tree storage.
var (
	// ErrNotFound is returned when the requested tree does not exist.
	ErrNotFound = errors.New("tree not found")

	// ErrMissingID is returned by Put when the tree has no ID and the store
	// was asked not to assign one.
	ErrMissingID = errors.New("tree has no id")
)

// TreeStore is the persistence interface for family trees.
//
// Put inserts or replaces a whole tree document; trees are small enough
// that partial updates are not worth the consistency risk. A tree without
// an ID gets a generated one, returned by Put.
type TreeStore interface {
	Put(ctx context.Context, t *tree.Tree) (id string, err error)
	Get(ctx context.Context, id string) (*tree.Tree, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]TreeInfo, error)
	Close(ctx context.Context) error
}

// TreeInfo is the listing summary for one stored tree.
type TreeInfo struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	Persons int    `json:"persons" bson:"persons"`
}
