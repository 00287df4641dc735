package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageflow/pkg/cache"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/observability"
)

const cacheKeyType = "layout"

// CachedEngine wraps an Engine with a result cache. Cache failures are
// logged and fall back to computing the layout.
type CachedEngine struct {
	engine *Engine
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewCached wraps engine with c. A nil logger uses log.Default().
func NewCached(engine *Engine, c cache.Cache, ttl time.Duration, logger *log.Logger) *CachedEngine {
	if logger == nil {
		logger = log.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &CachedEngine{engine: engine, cache: c, ttl: ttl, logger: logger}
}

type placement struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Layout implements Layouter.
func (c *CachedEngine) Layout(ctx context.Context, nodes []flow.Node, edges []flow.Edge, dir Direction) ([]flow.Node, error) {
	if err := dir.Validate(); err != nil {
		return nil, err
	}

	key := Key(nodes, edges, dir, c.engine.Options())
	if out, ok := c.lookup(ctx, key, nodes, dir); ok {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return out, nil
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	out, err := c.engine.Layout(ctx, nodes, edges, dir)
	if err != nil {
		return nil, err
	}

	places := make([]placement, len(out))
	for i, n := range out {
		places[i] = placement{ID: n.ID, X: n.Position.X, Y: n.Position.Y}
	}
	data, err := json.Marshal(places)
	if err != nil {
		return out, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("layout cache write failed", "error", err)
		return out, nil
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	return out, nil
}

func (c *CachedEngine) lookup(ctx context.Context, key string, nodes []flow.Node, dir Direction) ([]flow.Node, bool) {
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("layout cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}

	var places []placement
	if err := json.Unmarshal(data, &places); err != nil || len(places) != len(nodes) {
		c.logger.Debug("discarding unusable layout cache entry", "key", key)
		return nil, false
	}

	source, target := dir.Sides()
	out := make([]flow.Node, len(nodes))
	copy(out, nodes)
	for i := range out {
		if places[i].ID != out[i].ID {
			return nil, false
		}
		out[i].Position = flow.Position{X: places[i].X, Y: places[i].Y}
		out[i].SourcePosition = source
		out[i].TargetPosition = target
	}
	return out, true
}

// Key returns the cache key for a layout request. Only the inputs that
// influence positions are hashed: node ids and edge endpoints in order,
// direction and sizing options.
func Key(nodes []flow.Node, edges []flow.Edge, dir Direction, opts Options) string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	ends := make([][2]string, len(edges))
	for i, e := range edges {
		ends[i] = [2]string{e.Source, e.Target}
	}
	return cache.Key(cacheKeyType, ids, ends, dir, opts)
}

var (
	_ Layouter = (*Engine)(nil)
	_ Layouter = (*CachedEngine)(nil)
)
