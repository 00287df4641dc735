package editor

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/layout"
	"github.com/matzehuels/lineageflow/pkg/observability"
	"github.com/matzehuels/lineageflow/pkg/persist"
	"github.com/matzehuels/lineageflow/pkg/storage"
	"github.com/matzehuels/lineageflow/pkg/store"
)

// Editor is the state a session command may touch. It is only valid
// inside the command it was passed to.
type Editor struct {
	Store      *store.Store
	Controller *Controller
}

// Options configures a session.
type Options struct {
	// Storage holds the autosaved graph. Nil keeps it in memory.
	Storage storage.Store
	// Key overrides persist.StorageKey.
	Key string
	// Layouter positions nodes for Session.Layout. Nil uses a default engine.
	Layouter layout.Layouter
	// Keys delivers clipboard key presses for the lifetime of the session.
	Keys KeySource
	// Logger defaults to log.Default().
	Logger *log.Logger
}

type command struct {
	ctx   context.Context
	name  string
	fn    func(*Editor) error
	reply chan error
}

// Session serializes all editing on one goroutine. Every surface submits
// work with Do; nothing else reads or writes the store.
type Session struct {
	ed       *Editor
	autosave *persist.Autosaver
	layouter layout.Layouter
	logger   *log.Logger

	cmds    chan command
	done    chan struct{}
	stopped chan struct{}

	// ctx of the running command, read by the autosave subscriber.
	current    context.Context
	unsubStore func()
	unsubKeys  func()

	closeOnce sync.Once
}

// Open loads the autosaved graph, subscribes autosave and key handling and
// starts the command loop. A failing storage backend is returned as a
// STORAGE_ERROR; an unreadable stored graph is logged and replaced by an
// empty one.
func Open(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	backend := opts.Storage
	if backend == nil {
		backend = storage.NewMemory()
	}
	layouter := opts.Layouter
	if layouter == nil {
		layouter = layout.New(layout.DefaultOptions())
	}

	autosave := persist.NewAutosaver(backend, logger)
	if opts.Key != "" {
		autosave.WithKey(opts.Key)
	}
	g, found, err := autosave.Load(ctx)
	if err != nil {
		return nil, err
	}

	st := store.New(flow.NewIDAllocator())
	if found {
		st.ReplaceAll(g.Nodes, g.Edges)
		if dangling := st.DanglingEdges(); len(dangling) > 0 {
			logger.Warn("saved graph has edges to missing nodes", "edges", len(dangling))
		}
	}

	s := &Session{
		ed:       &Editor{Store: st, Controller: NewController(st)},
		autosave: autosave,
		layouter: layouter,
		logger:   logger,
		cmds:     make(chan command),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		current:  context.Background(),
	}
	s.unsubStore = st.Subscribe(s.save)
	if opts.Keys != nil {
		s.unsubKeys = opts.Keys.Subscribe(s.handleKey)
	}

	nodes, edges := st.Len()
	logger.Info("session opened", "key", autosave.Key(), "nodes", nodes, "edges", edges)

	go s.run()
	return s, nil
}

// Do runs fn on the session goroutine and returns its error. ctx bounds
// only the wait; once started, fn runs to completion. A panic in fn is
// recovered and returned as an INTERNAL_ERROR.
func (s *Session) Do(ctx context.Context, name string, fn func(*Editor) error) error {
	cmd := command{ctx: ctx, name: name, fn: fn, reply: make(chan error, 1)}
	select {
	case <-s.done:
		return errors.New(errors.ErrCodeClosed, "session is closed")
	case <-ctx.Done():
		return ctx.Err()
	case s.cmds <- cmd:
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops key handling and the command loop. It is safe to call more
// than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.unsubKeys != nil {
			s.unsubKeys()
		}
		close(s.done)
		<-s.stopped
		s.unsubStore()
		s.logger.Debug("session closed")
	})
	return nil
}

// Snapshot returns a copy of the current graph.
func (s *Session) Snapshot(ctx context.Context) (flow.Graph, error) {
	var g flow.Graph
	err := s.Do(ctx, "snapshot", func(e *Editor) error {
		g = e.Store.Snapshot()
		return nil
	})
	return g, err
}

// Import reads a whole payload from r and, if it is a valid graph, replaces
// the current one in a single command. On any error the graph is unchanged.
func (s *Session) Import(ctx context.Context, r io.Reader) (flow.Graph, error) {
	g, err := persist.Import(ctx, r)
	if err != nil {
		s.logger.Warn("import rejected", "error", errors.UserMessage(err))
		return flow.Graph{}, err
	}
	err = s.Do(ctx, "import", func(e *Editor) error {
		e.Store.ReplaceAll(g.Nodes, g.Edges)
		e.Controller.Prune()
		return nil
	})
	if err != nil {
		return flow.Graph{}, err
	}
	if dangling := g.DanglingEdges(); len(dangling) > 0 {
		s.logger.Warn("imported graph has edges to missing nodes", "edges", len(dangling))
	}
	return g, nil
}

// Layout arranges the current graph in dir and applies the new positions.
func (s *Session) Layout(ctx context.Context, dir layout.Direction) error {
	if err := dir.Validate(); err != nil {
		return err
	}
	return s.Do(ctx, "layout", func(e *Editor) error {
		g := e.Store.Snapshot()
		nodes, err := s.layouter.Layout(ctx, g.Nodes, g.Edges, dir)
		if err != nil {
			return err
		}
		e.Store.ApplyLayout(nodes)
		return nil
	})
}

// Export writes the current graph to w in the exchange format.
func (s *Session) Export(ctx context.Context, w io.Writer) error {
	g, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	return persist.Export(w, g)
}

// Key returns the storage key the session autosaves under.
func (s *Session) Key() string { return s.autosave.Key() }

func (s *Session) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case cmd := <-s.cmds:
			cmd.reply <- s.exec(cmd)
		}
	}
}

func (s *Session) exec(cmd command) (err error) {
	start := time.Now()
	s.current = context.WithoutCancel(cmd.ctx)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("command panicked", "command", cmd.name, "panic", r)
			err = errors.New(errors.ErrCodeInternal, "%s: %v", cmd.name, r)
		}
		s.current = context.Background()
		observability.Editor().OnCommand(cmd.ctx, cmd.name, time.Since(start), err)
		if err != nil {
			s.logger.Debug("command failed", "command", cmd.name, "error", err)
		}
	}()
	return cmd.fn(s.ed)
}

func (s *Session) save(g flow.Graph) {
	if err := s.autosave.Save(s.current, g); err != nil {
		s.logger.Error("autosave failed", "key", s.autosave.Key(), "error", err)
	}
}

func (s *Session) handleKey(ev KeyEvent) {
	ctx := context.Background()
	err := s.Do(ctx, fmt.Sprintf("key %s", describeKey(ev)), func(e *Editor) error {
		e.Controller.HandleKey(ev)
		return nil
	})
	if err != nil && !errors.Is(err, errors.ErrCodeClosed) {
		s.logger.Error("key handling failed", "key", ev.Key, "error", err)
	}
}

func describeKey(ev KeyEvent) string {
	switch {
	case ev.Ctrl:
		return "ctrl+" + ev.Key
	case ev.Meta:
		return "meta+" + ev.Key
	default:
		return ev.Key
	}
}
