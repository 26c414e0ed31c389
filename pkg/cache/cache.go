// Package cache provides pluggable byte caches and the key scheme used by
// the layout pipeline. Layouts and rendered artifacts are cached by tree
// content hash, so an unchanged tree never recomputes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A ttl of zero means no
// expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the settings that affect layout output and therefore
// participate in the layout cache key.
type LayoutKeyOpts struct {
	EdgeStyle        string `json:"edge_style"`
	ShowMarkers      bool   `json:"show_markers"`
	SelectedPersonID string `json:"selected_person_id"`
}

// ArtifactKeyOpts are the settings that affect a rendered artifact and
// therefore participate in the artifact cache key.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// Keyer generates cache keys for the pipeline stages.
//
// Keys chain: the tree content hash feeds the layout key, and the layout key
// feeds the artifact key, so invalidating a tree invalidates everything
// derived from it.
type Keyer interface {
	// TreeKey generates a key for a tree by a stable identity, either its
	// content hash or its store ID.
	TreeKey(treeID string) string
	// LayoutKey generates a key for a computed layout.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a short namespace prefix plus a
// SHA-256 over the identifying parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// TreeKey implements [Keyer].
func (k *DefaultKeyer) TreeKey(treeHash string) string {
	return "tree:" + treeHash
}

// LayoutKey implements [Keyer].
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *DefaultKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutKey, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
