package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kintree/kintree/pkg/tree"
)

// MemoryStore is an in-memory tree store for development and testing.
// Safe for concurrent use. Trees are deep-copied through JSON on the way in
// and out so callers can't mutate stored state.
type MemoryStore struct {
	mu    sync.RWMutex
	trees map[string][]byte
	names map[string]TreeInfo
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trees: make(map[string][]byte),
		names: make(map[string]TreeInfo),
	}
}

// Put stores a tree, assigning a UUID when the tree has none.
func (s *MemoryStore) Put(ctx context.Context, t *tree.Tree) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	data, err := tree.MarshalTree(t)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[t.ID] = data
	s.names[t.ID] = TreeInfo{ID: t.ID, Name: t.Name, Persons: len(t.Persons)}
	return t.ID, nil
}

// Get retrieves a tree by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*tree.Tree, error) {
	s.mu.RLock()
	data, ok := s.trees[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return tree.UnmarshalTree(data)
}

// Delete removes a tree by id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[id]; !ok {
		return ErrNotFound
	}
	delete(s.trees, id)
	delete(s.names, id)
	return nil
}

// List returns summaries for all stored trees, sorted by id.
func (s *MemoryStore) List(ctx context.Context) ([]TreeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]TreeInfo, 0, len(s.names))
	for _, info := range s.names {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ TreeStore = (*MemoryStore)(nil)
