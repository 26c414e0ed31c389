package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/layout"
	"github.com/kintree/kintree/pkg/pipeline"
	"github.com/kintree/kintree/pkg/store"
	"github.com/kintree/kintree/pkg/tree"
)

// layoutResponse is the JSON body returned by the layout endpoints.
type layoutResponse struct {
	TreeHash  string             `json:"tree_hash"`
	Layout    *layout.Result     `json:"layout"`
	Artifacts map[string][]byte  `json:"artifacts,omitempty"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout computes a layout for a tree carried inline in the request.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		respondError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid request body")
		return
	}
	// The server never reads local files on behalf of a client.
	opts.TreePath = ""
	if opts.Tree == nil && opts.TreeID == "" {
		respondError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "tree or tree_id is required")
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, layoutResponse{
		TreeHash:  res.TreeHash,
		Layout:    res.Layout,
		Artifacts: res.Artifacts,
		Stats:     res.Stats,
		Cache:     res.CacheInfo,
	})
}

// handleTreeLayout renders a stored tree. The format query parameter picks
// the artifact; the response body is the raw artifact, not JSON.
func (s *Server) handleTreeLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		TreeID:           chi.URLParam(r, "treeID"),
		EdgeStyle:        q.Get("edge_style"),
		ShowMarkers:      q.Get("markers") == "true",
		SelectedPersonID: q.Get("selected"),
		Refresh:          q.Get("refresh") == "true",
		Detailed:         q.Get("detailed") == "true",
		Formats:          []string{format},
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, errors.ErrCodeStore, "no tree store configured")
		return
	}
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	if infos == nil {
		infos = []store.TreeInfo{}
	}
	respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	s.putTree(w, r, "")
}

func (s *Server) handleUpdateTree(w http.ResponseWriter, r *http.Request) {
	s.putTree(w, r, chi.URLParam(r, "treeID"))
}

func (s *Server) putTree(w http.ResponseWriter, r *http.Request, id string) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, errors.ErrCodeStore, "no tree store configured")
		return
	}
	var t tree.Tree
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid request body")
		return
	}
	t.Init()
	if id != "" {
		t.ID = id
	}
	for _, relID := range t.RelationshipIDs() {
		if err := t.Relationships[relID].Validate(); err != nil {
			respondError(w, http.StatusBadRequest, errors.ErrCodeInvalidRelationship, errors.UserMessage(err))
			return
		}
	}

	stored, err := s.store.Put(r.Context(), &t)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	// Drop any cached copy so the next layout reloads the stored tree.
	_ = s.runner.Cache.Delete(r.Context(), s.runner.Keyer.TreeKey(stored))
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	respondJSON(w, status, store.TreeInfo{ID: stored, Name: t.Name, Persons: len(t.Persons)})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, errors.ErrCodeStore, "no tree store configured")
		return
	}
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "treeID"))
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, errors.ErrCodeTreeNotFound, "tree not found")
		return
	}
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, errors.ErrCodeStore, "no tree store configured")
		return
	}
	id := chi.URLParam(r, "treeID")
	err := s.store.Delete(r.Context(), id)
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, errors.ErrCodeTreeNotFound, "tree not found")
		return
	}
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	_ = s.runner.Cache.Delete(r.Context(), s.runner.Keyer.TreeKey(id))
	w.WriteHeader(http.StatusNoContent)
}

// respondPipelineError maps structured error codes to HTTP statuses.
func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTree, errors.ErrCodeInvalidPerson,
		errors.ErrCodeInvalidRelationship, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidEdgeStyle:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeTreeNotFound, errors.ErrCodePersonNotFound,
		errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeStore:
		status = http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		respondError(w, status, errors.ErrCodeInternal, "internal error")
		return
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	respondError(w, status, code, errors.UserMessage(err))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code errors.Code, message string) {
	respondJSON(w, status, errorResponse{Error: errorBody{Code: string(code), Message: message}})
}

func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatGraphvizSVG:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}
