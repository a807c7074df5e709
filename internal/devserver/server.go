package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vvka-141/arkroute/internal/artifact"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// Snapshot is the outcome of one finished run.
type Snapshot struct {
	RunID    string
	Table    arkroute.RouteTable
	Err      error
	Finished time.Time
}

// Server exposes the latest route table over HTTP and pushes run
// notifications over a websocket.
type Server struct {
	mu   sync.RWMutex
	last *Snapshot

	hub     *hub
	metrics http.Handler
	logger  arkroute.Logger
	router  chi.Router
}

type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

func WithLogger(l arkroute.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		hub:    newHub(),
		logger: logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/routes", s.serveRoutes)
	r.Get("/ws", s.hub.serveWS)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Publish records a finished run and notifies websocket clients. A failed
// run keeps the previous route table.
func (s *Server) Publish(snap Snapshot) {
	if snap.Finished.IsZero() {
		snap.Finished = time.Now()
	}

	msg := Message{Type: MessageRoutes, RunID: snap.RunID, Routes: snap.Table.Len()}
	s.mu.Lock()
	if snap.Err != nil {
		msg.Type = MessageError
		msg.Error = snap.Err.Error()
		if s.last != nil {
			msg.Routes = s.last.Table.Len()
		}
	} else {
		s.last = &snap
	}
	s.mu.Unlock()

	s.hub.broadcast(msg)
}

// Latest returns the last successful snapshot, if any.
func (s *Server) Latest() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Snapshot{}, false
	}
	return *s.last, true
}

func (s *Server) serveRoutes(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.Latest()
	if !ok {
		http.Error(w, "no completed run yet", http.StatusServiceUnavailable)
		return
	}

	body, err := artifact.EncodeRouteTable(snap.Table)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Arkroute-Run", snap.RunID)
	_, _ = w.Write(body)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dev server listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dev server failed: %w", err)
	case <-ctx.Done():
		s.hub.close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
