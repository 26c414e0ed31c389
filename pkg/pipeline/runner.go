package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kintree/kintree/pkg/cache"
	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/layout"
	"github.com/kintree/kintree/pkg/observability"
	"github.com/kintree/kintree/pkg/render"
	"github.com/kintree/kintree/pkg/store"
	"github.com/kintree/kintree/pkg/tree"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless apart from its collaborators; multiple goroutines
// can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Engine *layout.Engine
	Store  store.TreeStore
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default key scheme, and a nil logger falls back to the
// package default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Engine: layout.New(),
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	// Validation errors carry their own codes (invalid edge style, invalid
	// format); pass them through unwrapped so callers can map them.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	loadStart := time.Now()
	t, hash, err := r.Load(ctx, opts)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, 0, 0, time.Since(loadStart), err)
		return nil, err
	}
	observability.Pipeline().OnLoadComplete(ctx, len(t.Persons), len(t.Relationships), time.Since(loadStart), nil)
	result.Tree = t
	result.TreeHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.PersonCount = len(t.Persons)
	result.Stats.RelationshipCount = len(t.Relationships)

	r.Logger.Info("loaded tree",
		"persons", result.Stats.PersonCount,
		"relationships", result.Stats.RelationshipCount,
		"duration", result.Stats.LoadTime)

	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(t.Persons))
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, t, hash, opts)
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, 0, 0, time.Since(layoutStart), err)
		return nil, err
	}
	observability.Pipeline().OnLayoutComplete(ctx, len(res.Nodes), len(res.Edges), time.Since(layoutStart), nil)
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(res.Nodes),
		"edges", len(res.Edges),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, res, hash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load resolves the input tree from the options and returns it with its
// content hash. Store-backed trees are cached by ID with a long TTL;
// Refresh bypasses the cached copy.
func (r *Runner) Load(ctx context.Context, opts Options) (*tree.Tree, string, error) {
	var t *tree.Tree
	switch {
	case opts.Tree != nil:
		t = opts.Tree
		t.Init()
	case opts.TreePath != "":
		loaded, err := tree.ReadTreeFile(opts.TreePath)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read tree file %s", opts.TreePath)
		}
		t = loaded
	case opts.TreeID != "":
		if r.Store == nil {
			return nil, "", errors.New(errors.ErrCodeStore, "no tree store configured")
		}
		treeKey := r.Keyer.TreeKey(opts.TreeID)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, treeKey); err == nil && hit {
				if cached, err := tree.UnmarshalTree(data); err == nil {
					t = cached
				}
			}
		}
		if t == nil {
			loaded, err := r.Store.Get(ctx, opts.TreeID)
			if err != nil {
				if err == store.ErrNotFound {
					return nil, "", errors.New(errors.ErrCodeTreeNotFound, "tree %s not found", opts.TreeID)
				}
				return nil, "", errors.Wrap(errors.ErrCodeStore, err, "load tree %s", opts.TreeID)
			}
			t = loaded
			if data, err := tree.MarshalTree(t); err == nil {
				_ = r.Cache.Set(ctx, treeKey, data, cache.TTLTree)
			}
		}
	default:
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "no tree input")
	}

	data, err := tree.MarshalTree(t)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "hash tree")
	}
	return t, cache.Hash(data), nil
}

// ComputeLayoutWithCacheInfo computes the layout, consulting the cache by
// tree hash plus layout settings. The bool reports a cache hit.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, t *tree.Tree, treeHash string, opts Options) (*layout.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, true, nil
			}
			// Corrupt entry: fall through and recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	res := r.Engine.Layout(t, opts.Settings())

	if data, err := json.Marshal(res); err == nil {
		if r.Cache.Set(ctx, key, data, cache.TTLLayout) == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, false, nil
}

// ComputeLayout is a convenience wrapper discarding the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, t *tree.Tree, treeHash string, opts Options) (*layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, t, treeHash, opts)
	return res, err
}

// RenderWithCacheInfo renders all requested formats, consulting the
// artifact cache per format. The bool reports whether every artifact came
// from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *tree.Tree, res *layout.Result, treeHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	layoutKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	for _, format := range opts.Formats {
		data, err := r.renderFormat(ctx, t, res, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, key, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

func (r *Runner) renderFormat(ctx context.Context, t *tree.Tree, res *layout.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.SVG(res, r.Engine.Geo), nil
	case FormatDOT:
		return []byte(render.ToDOT(t, render.DOTOptions{Detailed: opts.Detailed})), nil
	case FormatGraphvizSVG:
		dot := render.ToDOT(t, render.DOTOptions{Detailed: opts.Detailed})
		data, err := render.RenderSVG(ctx, dot)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render graphviz svg")
		}
		return data, nil
	case FormatJSON:
		data, err := render.JSON(res)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render json")
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
