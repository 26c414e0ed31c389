package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintree/kintree/pkg/tree"
)

func newTree(name string, persons ...string) *tree.Tree {
	t := tree.New()
	t.Name = name
	for _, id := range persons {
		t.AddPerson(&tree.Person{ID: id, Name: "Person " + id})
	}
	return t
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	id, err := s.Put(ctx, newTree("Family A", "p1", "p2"))
	require.NoError(t, err)
	require.NotEmpty(t, id, "Put should assign an id")

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Family A", got.Name)
	assert.Len(t, got.Persons, 2)
}

func TestMemoryStoreKeepsExplicitID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tr := newTree("Named")
	tr.ID = "fixed-id"
	id, err := s.Put(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Put(ctx, newTree("Doomed"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a := newTree("A", "p1")
	a.ID = "a"
	b := newTree("B", "p1", "p2")
	b.ID = "b"
	_, err := s.Put(ctx, a)
	require.NoError(t, err)
	_, err = s.Put(ctx, b)
	require.NoError(t, err)

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].ID)
	assert.Equal(t, 2, infos[1].Persons)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	orig := newTree("Iso", "p1")
	id, err := s.Put(ctx, orig)
	require.NoError(t, err)

	// Mutating the original after Put must not affect the stored copy.
	orig.AddPerson(&tree.Person{ID: "p2"})

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Persons, 1)

	// Mutating a retrieved copy must not affect later reads.
	got.AddPerson(&tree.Person{ID: "p3"})
	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, again.Persons, 1)
}
