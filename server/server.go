// Package server exposes a live session over HTTP: one-off parsing, the
// stored description, the current graph and a server-sent-events stream
// that browser renderers subscribe to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pauldambra/causal-flows/causal"
	"github.com/pauldambra/causal-flows/flow"
	"github.com/pauldambra/causal-flows/metrics"
	"github.com/pauldambra/causal-flows/render"
)

// MaxTextBytes bounds the size of a submitted description.
const MaxTextBytes = 64 * 1024

// subscriberBuffer is how many graph updates a slow SSE client may lag by
// before updates are skipped for it.
const subscriberBuffer = 16

// Server serves a flow.Session over HTTP.
type Server struct {
	session   *flow.Session
	renderers *render.Registry
	metrics   *metrics.Collector
	logger    *zap.Logger
	validate  *validator.Validate
	origins   []string

	mu          sync.RWMutex
	subscribers map[string]chan flow.Event
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithRenderers replaces the default renderer registry.
func WithRenderers(r *render.Registry) Option {
	return func(s *Server) { s.renderers = r }
}

// WithAllowedOrigins sets the CORS origins allowed to call the API.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// New creates a server for session and subscribes to its graph updates.
func New(session *flow.Session, opts ...Option) *Server {
	s := &Server{
		session:     session,
		renderers:   render.Default(),
		logger:      zap.NewNop(),
		validate:    newValidator(),
		origins:     []string{"*"},
		subscribers: make(map[string]chan flow.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	session.Emitter().On(s.broadcast)
	return s
}

// broadcast fans graph updates out to SSE subscribers without blocking the
// session.
func (s *Server) broadcast(e flow.Event) {
	if e.Type != flow.EventGraphUpdated {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, sub := range s.subscribers {
		select {
		case sub <- e:
		default:
			s.logger.Debug("subscriber lagging, update skipped", zap.String("subscriber", id))
		}
	}
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/parse", s.handleParse)
	r.Get("/text", s.handleGetText)
	r.Put("/text", s.handlePutText)
	r.Get("/graph", s.handleGetGraph)
	r.Get("/events", s.handleStreamEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// textRequest is the request body for POST /parse and PUT /text.
type textRequest struct {
	Text *string `json:"text" validate:"required,maxbytes"`
}

// newValidator returns a validator that also knows "maxbytes", which bounds
// a string's length in bytes by MaxTextBytes. The builtin "max" counts runes.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxTextBytes
	})
	return v
}

func (s *Server) decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req textRequest
	body := http.MaxBytesReader(w, r.Body, MaxTextBytes+1024)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	if err := s.validate.Struct(req); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return "", false
	}
	return *req.Text, true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	switch verrs[0].Tag() {
	case "required":
		return "text is required"
	case "maxbytes":
		return fmt.Sprintf("text exceeds %d bytes", MaxTextBytes)
	default:
		return verrs[0].Error()
	}
}

var contentTypes = map[string]string{
	"json": "application/json",
	"dot":  "text/vnd.graphviz; charset=utf-8",
	"text": "text/plain; charset=utf-8",
}

// writeGraph renders g in the format named by the "format" query parameter.
func (s *Server) writeGraph(w http.ResponseWriter, r *http.Request, g *causal.Graph) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	renderer, err := s.renderers.Lookup(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ct, ok := contentTypes[format]; ok {
		w.Header().Set("Content-Type", ct)
	}
	if err := renderer.Render(w, g); err != nil {
		s.logger.Error("render failed", zap.String("format", format), zap.Error(err))
	}
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse handles POST /parse. It never touches the session.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeText(w, r)
	if !ok {
		return
	}
	start := time.Now()
	g := causal.ParseGraph(text)
	s.metrics.ObserveParse(len(g.Links), flow.DroppedLines(text, g), time.Since(start))
	s.writeGraph(w, r, g)
}

// handleGetText handles GET /text.
func (s *Server) handleGetText(w http.ResponseWriter, r *http.Request) {
	text, _ := s.session.Current()
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handlePutText handles PUT /text. The edit is debounced like any other
// unless flush=true is given.
func (s *Server) handlePutText(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeText(w, r)
	if !ok {
		return
	}
	s.session.Submit(text)

	if r.URL.Query().Get("flush") != "true" {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
		return
	}
	if err := s.session.Flush(r.Context()); err != nil {
		s.logger.Warn("flush failed", zap.Error(err))
		http.Error(w, "failed to save text: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

// handleGetGraph handles GET /graph.
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	_, g := s.session.Current()
	s.writeGraph(w, r, g)
}

// streamFrame is the payload of one SSE data frame.
type streamFrame struct {
	Text    string          `json:"text"`
	Dropped int             `json:"dropped"`
	Graph   render.Document `json:"graph"`
}

// handleStreamEvents handles GET /events as SSE.
func (s *Server) handleStreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id := uuid.NewString()
	eventCh := make(chan flow.Event, subscriberBuffer)
	s.subscribe(id, eventCh)
	defer s.unsubscribe(id)

	// Send the current graph first so new clients draw immediately.
	text, g := s.session.Current()
	writeFrame(w, flow.GraphUpdatedEvent(text, g, flow.DroppedLines(text, g)))
	flusher.Flush()

	for {
		select {
		case event := <-eventCh:
			writeFrame(w, event)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) subscribe(id string, ch chan flow.Event) {
	s.mu.Lock()
	s.subscribers[id] = ch
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SSESubscribers.Inc()
	}
	s.logger.Debug("subscriber connected", zap.String("subscriber", id))
}

func (s *Server) unsubscribe(id string) {
	s.mu.Lock()
	delete(s.subscribers, id)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SSESubscribers.Dec()
	}
	s.logger.Debug("subscriber disconnected", zap.String("subscriber", id))
}

// SubscriberCount returns the number of connected SSE clients.
func (s *Server) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

func writeFrame(w http.ResponseWriter, e flow.Event) {
	data, _ := json.Marshal(streamFrame{
		Text:    e.Text,
		Dropped: e.Dropped,
		Graph:   render.NewDocument(e.Graph),
	})
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
