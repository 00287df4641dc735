package persist

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/observability"
	"github.com/matzehuels/lineageflow/pkg/storage"
)

// StorageKey is the key the editor autosaves under.
const StorageKey = "data-lineage-flow"

// Autosaver writes the graph to a storage backend after every change, once
// the stored graph has been loaded. It is not safe for concurrent use; the
// editor session calls it from its single writer goroutine.
type Autosaver struct {
	store    storage.Store
	key      string
	logger   *log.Logger
	hydrated bool
	last     []byte
}

// NewAutosaver creates an autosaver for StorageKey. A nil logger uses
// log.Default().
func NewAutosaver(st storage.Store, logger *log.Logger) *Autosaver {
	if logger == nil {
		logger = log.Default()
	}
	return &Autosaver{store: st, key: StorageKey, logger: logger}
}

// WithKey returns the autosaver using key instead of StorageKey.
func (a *Autosaver) WithKey(key string) *Autosaver {
	a.key = key
	return a
}

// Key returns the storage key.
func (a *Autosaver) Key() string { return a.key }

// Hydrated reports whether Load has completed.
func (a *Autosaver) Hydrated() bool { return a.hydrated }

// Load reads the stored graph and enables saving. A missing key yields an
// empty graph. A stored payload that cannot be decoded is logged and also
// yields an empty graph. Only a failing backend returns an error, in which
// case saving stays disabled.
func (a *Autosaver) Load(ctx context.Context) (flow.Graph, bool, error) {
	empty := flow.Graph{Nodes: []flow.Node{}, Edges: []flow.Edge{}}

	data, found, err := a.store.Get(ctx, a.key)
	observability.Persist().OnLoad(ctx, a.key, found, err)
	if err != nil {
		return empty, false, errors.Wrap(errors.ErrCodeStorage, err, "load %s", a.key)
	}
	a.hydrated = true
	if !found {
		a.logger.Debug("no saved graph", "key", a.key)
		return empty, false, nil
	}

	g, err := Deserialize(data)
	if err != nil {
		a.logger.Warn("ignoring unreadable saved graph", "key", a.key, "error", errors.UserMessage(err))
		return empty, false, nil
	}
	a.last = data
	a.logger.Debug("loaded saved graph", "key", a.key, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, true, nil
}

// Save writes g unless Load has not run yet or g serializes to the bytes
// written last.
func (a *Autosaver) Save(ctx context.Context, g flow.Graph) error {
	if !a.hydrated {
		return nil
	}
	data, err := Serialize(g)
	if err != nil {
		return err
	}
	if bytes.Equal(data, a.last) {
		return nil
	}

	start := time.Now()
	err = a.store.Set(ctx, a.key, data)
	observability.Persist().OnSave(ctx, a.key, len(data), time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save %s", a.key)
	}
	a.last = data
	return nil
}
