package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/statefile"
	"github.com/vango-dev/reactor/pkg/app"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/middleware"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// Server serves a mounted App.
type Server struct {
	app       *app.App
	doc       dom.Document
	store     *reactive.Store
	container dom.Element

	config   Config
	logger   *slog.Logger
	metrics  *metrics
	upgrader websocket.Upgrader
	hub      *hub
	rec      *dom.Recorder
	router   chi.Router

	httpServer *http.Server
}

// New creates a Server for a, which must already be mounted in doc. Writes
// to store made through the server are serialized by a.
func New(a *app.App, doc dom.Document, store *reactive.Store, config Config) (*Server, error) {
	config = config.withDefaults()

	container, err := doc.QuerySelector(config.Selector)
	if err != nil || container == nil {
		e := errors.New("R001").WithDetailf("no element matches %q", config.Selector)
		if err != nil {
			e = e.Wrap(err)
		}
		return nil, e
	}

	logger := config.Logger.With("component", "server")
	var m *metrics
	if config.Registry != nil {
		m = newMetrics(config.Registry)
	}

	s := &Server{
		app:       a,
		doc:       doc,
		store:     store,
		container: container,
		config:    config,
		logger:    logger,
		metrics:   m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		hub: newHub(config.WriteTimeout, logger, m),
		rec: dom.Record(doc),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.OpenTelemetry())
	if s.config.Registry != nil {
		r.Use(middleware.Prometheus(middleware.WithRegistry(s.config.Registry)))
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", s.handlePage)
	r.Get("/state", s.handleGetState)
	r.Put("/state/{key}", s.handlePutState)
	r.Post("/events", s.handleEvent)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	return s.hub.Len()
}

// Update runs fn through App.Update and broadcasts the mutations it caused.
// The batch is queued before the app lock is released, so clients see
// batches in update order.
func (s *Server) Update(fn func()) {
	s.app.Update(func() {
		fn()
		batch := s.rec.Drain()
		if len(batch) == 0 {
			return
		}
		s.hub.broadcast(Message{
			Type:      TypeMutations,
			Mutations: batch,
			HTML:      s.container.InnerHTMLWithIDs(),
		})
	})
}

// Apply writes every key of state and broadcasts the result as one batch.
func (s *Server) Apply(state map[string]any) {
	s.Update(func() { statefile.Apply(s.store, state) })
}

// Dispatch delivers an event to the element with the given ID and
// broadcasts the resulting mutations. It reports whether the element exists.
func (s *Server) Dispatch(target uint64, event, value string) bool {
	found := false
	s.Update(func() {
		el := s.app.Element(target)
		if el == nil {
			return
		}
		found = true
		el.Dispatch(&dom.Event{Type: event, Value: value})
	})
	return found
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown disconnects all WebSocket clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.hub.close()
	s.rec.Stop()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var err error
	s.app.View(func() { err = s.doc.RenderWithIDs(&buf) })
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state := map[string]any{}
	s.app.View(func() {
		raw := s.store.Raw()
		for _, k := range raw.Keys() {
			v, _ := raw.Get(k)
			state[k] = v
		}
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var value any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxMessageSize))
	if err := dec.Decode(&value); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.metrics.stateWrite()
	s.Update(func() { s.store.Set(key, normalize(value)) })
	w.WriteHeader(http.StatusNoContent)
}

type eventRequest struct {
	Target uint64 `json:"target"`
	Event  string `json:"event"`
	Value  string `json:"value"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxMessageSize))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Event == "" {
		writeError(w, http.StatusBadRequest, stderrors.New("event is required"))
		return
	}
	if !s.Dispatch(req.Target, req.Event, req.Value) {
		writeError(w, http.StatusNotFound, stderrors.New("no such element"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.wsError("upgrade")
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, s.config.SendQueue),
	}

	// Register and queue the hello under the app lock so no batch can
	// slip in between the snapshot and the registration.
	var added bool
	s.app.View(func() {
		if added = s.hub.add(c); added {
			s.hub.sendTo(c.id, Message{
				Type:   TypeHello,
				Client: c.id.String(),
				HTML:   s.container.InnerHTMLWithIDs(),
			})
		}
	})
	if !added {
		conn.Close()
		return
	}
	s.logger.Debug("client connected", "client", c.id)
	defer func() {
		s.hub.remove(c.id)
		s.logger.Debug("client disconnected", "client", c.id)
	}()

	conn.SetReadLimit(s.config.MaxMessageSize)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.metrics.wsError("read")
			}
			return
		}
		if msg.Type != TypeEvent {
			s.hub.sendTo(c.id, Message{Type: TypeError, Error: "unsupported message type " + msg.Type})
			continue
		}
		if !s.Dispatch(msg.Target, msg.Event, msg.Value) {
			s.hub.sendTo(c.id, Message{Type: TypeError, Error: "no such element"})
		}
	}
}

// normalize turns integral JSON numbers back into ints so that components
// reading them with reactive.Value[int] see the expected type.
func normalize(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && math.Abs(t) <= 1<<53 {
			return int(t)
		}
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
	case map[string]any:
		for k := range t {
			t[k] = normalize(t[k])
		}
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
