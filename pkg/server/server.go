package server

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/lineageflow/pkg/editor"
	"github.com/matzehuels/lineageflow/pkg/layout"
)

// DefaultAddr is the address Serve listens on when none is configured.
const DefaultAddr = "localhost:8080"

// Options configures the HTTP API.
type Options struct {
	// AllowedOrigins lists the browser origins allowed to call the API.
	// Empty allows the local development canvas at http://localhost:3000.
	AllowedOrigins []string
	// Direction is used by POST /api/layout when the request names none.
	Direction layout.Direction
}

// Server serves one editor session.
type Server struct {
	session *editor.Session
	keys    *editor.KeyBus
	logger  *log.Logger
	opts    Options
	rand    *rand.Rand
}

// New creates a server for session. Key presses posted to /api/keys are
// published on keys, which the session should be subscribed to.
func New(session *editor.Session, keys *editor.KeyBus, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if opts.Direction == "" {
		opts.Direction = layout.TopBottom
	}
	seed := uint64(time.Now().UnixNano())
	return &Server{
		session: session,
		keys:    keys,
		logger:  logger,
		opts:    opts,
		rand:    rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.getGraph)

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", s.addNode)
			r.Put("/{id}/label", s.setNodeLabel)
			r.Patch("/{id}/style", s.setNodeStyle)
			r.Post("/{id}/events", s.nodeEvent)
		})

		r.Route("/edges", func(r chi.Router) {
			r.Post("/", s.connect)
			r.Put("/{id}/label", s.setEdgeLabel)
			r.Post("/{id}/events", s.edgeEvent)
		})

		r.Post("/changes/nodes", s.nodeChanges)
		r.Post("/changes/edges", s.edgeChanges)
		r.Post("/keys", s.key)
		r.Post("/layout", s.layout)

		r.Get("/export", s.export)
		r.Get("/export.yaml", s.exportYAML)
		r.Post("/import", s.importGraph)

		r.Get("/render.svg", s.renderSVG)
		r.Get("/render.dot", s.renderDOT)
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving lineage API", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
