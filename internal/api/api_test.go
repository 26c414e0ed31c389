package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/pipeline"
	"github.com/kintree/kintree/pkg/store"
	"github.com/kintree/kintree/pkg/tree"
)

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	if withStore {
		runner.Store = store.NewMemoryStore()
	}
	return NewServer(runner, logger)
}

func sampleTree() *tree.Tree {
	t := tree.New()
	t.Name = "API Family"
	t.AddPerson(&tree.Person{ID: "mom", Name: "Mom"})
	t.AddPerson(&tree.Person{ID: "kid", Name: "Kid"})
	t.AddRelationship(&tree.Relationship{ID: "r1", Type: tree.TypeBiologicalParent, SourcePersonID: "mom", TargetPersonID: "kid"})
	return t
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestServer(t, false), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestLayoutInline(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodPost, "/v1/layout", map[string]any{
		"tree":    sampleTree(),
		"formats": []string{pipeline.FormatJSON},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		TreeHash string `json:"tree_hash"`
		Layout   struct {
			Nodes []json.RawMessage `json:"nodes"`
			Edges []json.RawMessage `json:"edges"`
		} `json:"layout"`
		Artifacts map[string][]byte `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Layout.Nodes, 2)
	assert.Len(t, resp.Layout.Edges, 1)
	assert.NotEmpty(t, resp.TreeHash)
	assert.Contains(t, resp.Artifacts, pipeline.FormatJSON)
}

func TestLayoutInlineRejectsEmptyBody(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodPost, "/v1/layout", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestLayoutInlineRejectsBadEdgeStyle(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodPost, "/v1/layout", map[string]any{
		"tree":       sampleTree(),
		"edge_style": "zigzag",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_EDGE_STYLE")
}

func TestTreeCRUD(t *testing.T) {
	s := newTestServer(t, true)

	rec := doJSON(t, s, http.MethodPost, "/v1/trees", sampleTree())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var info store.TreeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.NotEmpty(t, info.ID)
	assert.Equal(t, "API Family", info.Name)
	assert.Equal(t, 2, info.Persons)

	rec = doJSON(t, s, http.MethodGet, "/v1/trees/"+info.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got tree.Tree
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "API Family", got.Name)

	rec = doJSON(t, s, http.MethodGet, "/v1/trees/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var infos []store.TreeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	assert.Len(t, infos, 1)

	updated := sampleTree()
	updated.Name = "Renamed"
	rec = doJSON(t, s, http.MethodPut, "/v1/trees/"+info.ID, updated)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/trees/"+info.ID, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Renamed", got.Name)

	rec = doJSON(t, s, http.MethodDelete, "/v1/trees/"+info.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, s, http.MethodGet, "/v1/trees/"+info.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "TREE_NOT_FOUND")
}

func TestCreateTreeRejectsInvalidRelationship(t *testing.T) {
	s := newTestServer(t, true)
	bad := sampleTree()
	bad.AddRelationship(&tree.Relationship{ID: "r2", Type: "imaginary", SourcePersonID: "mom", TargetPersonID: "kid"})
	rec := doJSON(t, s, http.MethodPost, "/v1/trees", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_RELATIONSHIP")
}

func TestTreeRoutesWithoutStore(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodGet, "/v1/trees/", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStoredTreeLayoutFormats(t *testing.T) {
	s := newTestServer(t, true)

	rec := doJSON(t, s, http.MethodPost, "/v1/trees", sampleTree())
	require.Equal(t, http.StatusCreated, rec.Code)
	var info store.TreeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"dot", "text/vnd.graphviz", "digraph"},
		{"json", "application/json", "{"},
		{"gvsvg", "image/svg+xml", "<?xml"},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			path := fmt.Sprintf("/v1/trees/%s/layout?format=%s", info.ID, tc.format)
			rec := doJSON(t, s, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(rec.Body.String(), tc.prefix),
				"body should start with %q", tc.prefix)
		})
	}
}

func TestUpdateTreeDropsCachedCopy(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(fc, nil, logger)
	runner.Store = store.NewMemoryStore()
	s := NewServer(runner, logger)

	rec := doJSON(t, s, http.MethodPost, "/v1/trees", sampleTree())
	require.Equal(t, http.StatusCreated, rec.Code)
	var info store.TreeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))

	rec = doJSON(t, s, http.MethodGet, "/v1/trees/"+info.ID+"/layout?format=json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var first struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.Len(t, first.Nodes, 2)

	// Updating the tree must drop the cached copy; the next layout has to
	// see the added person.
	updated := sampleTree()
	updated.AddPerson(&tree.Person{ID: "dad", Name: "Dad"})
	updated.AddRelationship(&tree.Relationship{ID: "r2", Type: tree.TypeBiologicalParent, SourcePersonID: "dad", TargetPersonID: "kid"})
	updated.AddRelationship(&tree.Relationship{ID: "r3", Type: tree.TypePartner, SourcePersonID: "mom", TargetPersonID: "dad"})
	rec = doJSON(t, s, http.MethodPut, "/v1/trees/"+info.ID, updated)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/trees/"+info.ID+"/layout?format=json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var second struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Len(t, second.Nodes, 3)
}

func TestStoredTreeLayoutNotFound(t *testing.T) {
	s := newTestServer(t, true)
	rec := doJSON(t, s, http.MethodGet, "/v1/trees/nope/layout", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoredTreeLayoutBadFormat(t *testing.T) {
	s := newTestServer(t, true)
	rec := doJSON(t, s, http.MethodPost, "/v1/trees", sampleTree())
	require.Equal(t, http.StatusCreated, rec.Code)
	var info store.TreeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))

	rec = doJSON(t, s, http.MethodGet, "/v1/trees/"+info.ID+"/layout?format=png", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_FORMAT")
}
