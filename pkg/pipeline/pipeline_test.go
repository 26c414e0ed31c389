package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/store"
	"github.com/kintree/kintree/pkg/tree"
)

func familyTree() *tree.Tree {
	t := tree.New()
	t.Name = "Smoke Family"
	t.AddPerson(&tree.Person{ID: "mom", Name: "Mom"})
	t.AddPerson(&tree.Person{ID: "dad", Name: "Dad"})
	t.AddPerson(&tree.Person{ID: "kid", Name: "Kid"})
	t.AddRelationship(&tree.Relationship{ID: "r1", Type: tree.TypeBiologicalParent, SourcePersonID: "mom", TargetPersonID: "kid"})
	t.AddRelationship(&tree.Relationship{ID: "r2", Type: tree.TypeBiologicalParent, SourcePersonID: "dad", TargetPersonID: "kid"})
	t.AddRelationship(&tree.Relationship{ID: "r3", Type: tree.TypePartner, SourcePersonID: "mom", TargetPersonID: "dad"})
	return t
}

func TestExecuteInMemoryTree(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Tree:    familyTree(),
		Formats: []string{FormatSVG, FormatDOT, FormatJSON},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Stats.PersonCount)
	assert.Equal(t, 3, res.Stats.RelationshipCount)
	assert.Len(t, res.Layout.Nodes, 3)
	assert.NotEmpty(t, res.TreeHash)

	require.Contains(t, res.Artifacts, FormatSVG)
	assert.True(t, strings.HasPrefix(string(res.Artifacts[FormatSVG]), "<svg"))
	assert.Contains(t, string(res.Artifacts[FormatDOT]), "digraph")
	assert.Contains(t, string(res.Artifacts[FormatJSON]), `"nodes"`)

	// Null cache means nothing can hit.
	assert.False(t, res.CacheInfo.LayoutHit)
	assert.False(t, res.CacheInfo.RenderHit)
}

func TestExecuteGraphvizSVG(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Tree:    familyTree(),
		Formats: []string{FormatGraphvizSVG},
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Artifacts[FormatGraphvizSVG]), "<svg")
	assert.Contains(t, string(res.Artifacts[FormatGraphvizSVG]), `viewBox="0 0 `)
}

func TestExecuteTreePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "family.json")
	data, err := tree.MarshalTree(familyTree())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{TreePath: path})
	require.NoError(t, err)
	assert.Equal(t, "Smoke Family", res.Tree.Name)
	assert.Contains(t, res.Artifacts, FormatSVG)
}

func TestExecuteTreePathMissing(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{TreePath: "does/not/exist.json"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestExecuteTreeID(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	id, err := s.Put(ctx, familyTree())
	require.NoError(t, err)

	r := NewRunner(nil, nil, nil)
	r.Store = s
	res, err := r.Execute(ctx, Options{TreeID: id})
	require.NoError(t, err)
	assert.Equal(t, "Smoke Family", res.Tree.Name)

	_, err = r.Execute(ctx, Options{TreeID: "missing"})
	assert.True(t, errors.Is(err, errors.ErrCodeTreeNotFound))
}

func TestExecuteTreeIDWithoutStore(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{TreeID: "any"})
	assert.True(t, errors.Is(err, errors.ErrCodeStore))
}

func TestExecuteCacheHits(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	r := NewRunner(fc, nil, nil)
	opts := Options{Tree: familyTree(), Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.LayoutHit)
	assert.False(t, first.CacheInfo.RenderHit)

	second, err := r.Execute(ctx, Options{Tree: familyTree(), Formats: []string{FormatSVG, FormatJSON}})
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Equal(t, first.Artifacts[FormatSVG], second.Artifacts[FormatSVG])

	// Refresh bypasses both caches.
	third, err := r.Execute(ctx, Options{Tree: familyTree(), Formats: []string{FormatSVG, FormatJSON}, Refresh: true})
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.LayoutHit)
	assert.False(t, third.CacheInfo.RenderHit)
}

func TestLoadCachesStoredTrees(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s := store.NewMemoryStore()
	r := NewRunner(fc, nil, nil)
	r.Store = s

	id, err := s.Put(ctx, familyTree())
	require.NoError(t, err)

	_, err = r.Execute(ctx, Options{TreeID: id})
	require.NoError(t, err)

	// The tree is now cached by ID, so the load no longer needs the store.
	require.NoError(t, s.Delete(ctx, id))
	res, err := r.Execute(ctx, Options{TreeID: id})
	require.NoError(t, err)
	assert.Equal(t, "Smoke Family", res.Tree.Name)

	// Refresh goes back to the store.
	_, err = r.Execute(ctx, Options{TreeID: id, Refresh: true})
	assert.True(t, errors.Is(err, errors.ErrCodeTreeNotFound))
}

func TestLayoutCacheKeySeparatesSettings(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, nil)

	_, err = r.Execute(ctx, Options{Tree: familyTree()})
	require.NoError(t, err)

	// Different edge style must not reuse the cached layout.
	res, err := r.Execute(ctx, Options{Tree: familyTree(), EdgeStyle: "elbows"})
	require.NoError(t, err)
	assert.False(t, res.CacheInfo.LayoutHit)
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"bad edge style", Options{Tree: tree.New(), EdgeStyle: "zigzag"}, errors.ErrCodeInvalidEdgeStyle},
		{"bad format", Options{Tree: tree.New(), Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.code), "want code %s, got %v", tc.code, err)
		})
	}
}

func TestExecuteKeepsValidationCodes(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(context.Background(), Options{Tree: familyTree(), EdgeStyle: "zigzag"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidEdgeStyle), "got %v", err)

	_, err = r.Execute(context.Background(), Options{Tree: familyTree(), Formats: []string{"png"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Tree: tree.New()}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, DefaultEdgeStyle, opts.EdgeStyle)
	assert.Equal(t, []string{FormatSVG}, opts.Formats)
	assert.NotNil(t, opts.Logger)
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat(FormatDOT))
	assert.NoError(t, ValidateFormat(FormatGraphvizSVG))
	assert.Error(t, ValidateFormat("pdf"))
	assert.Error(t, ValidateFormats([]string{FormatSVG, "pdf"}))
}
