// Package flow keeps a live description in sync with its graph. A Session
// debounces raw-text edits, re-parses the latest text, persists it and tells
// listeners about the new graph. Front ends (terminal editor, file watcher,
// HTTP server) all drive the same Session.
package flow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pauldambra/causal-flows/causal"
	"github.com/pauldambra/causal-flows/metrics"
	"github.com/pauldambra/causal-flows/store"
)

// DefaultDebounce is how long a session waits after the last edit before
// parsing.
const DefaultDebounce = 375 * time.Millisecond

// Session tracks the current description and its graph.
type Session struct {
	store   store.Store
	emitter *Emitter
	metrics *metrics.Collector
	logger  *zap.Logger
	delay   time.Duration

	applyMu sync.Mutex // serializes parse+persist+emit
	applied uint64     // seq of the newest applied text; guarded by applyMu

	mu         sync.Mutex
	text       string
	graph      *causal.Graph
	pending    string
	hasPending bool
	seq        uint64
	timer      *time.Timer
	closed     bool
}

// Option configures a Session.
type Option func(*Session)

// WithDebounce sets the debounce delay. Zero or negative applies every
// submission immediately.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.delay = d }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics records parse metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) { s.metrics = c }
}

// WithEmitter makes the session emit on an existing emitter.
func WithEmitter(e *Emitter) Option {
	return func(s *Session) { s.emitter = e }
}

// NewSession creates a session persisting to st.
func NewSession(st store.Store, opts ...Option) *Session {
	s := &Session{
		store:  st,
		delay:  DefaultDebounce,
		logger: zap.NewNop(),
		graph:  causal.ParseGraph(""),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.emitter == nil {
		s.emitter = NewEmitter()
	}
	return s
}

// Emitter returns the emitter session events are published on.
func (s *Session) Emitter() *Emitter {
	return s.emitter
}

// Current returns the latest applied text and its graph.
func (s *Session) Current() (string, *causal.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.graph
}

// Load restores the stored description and publishes its graph at once.
func (s *Session) Load(ctx context.Context) error {
	text, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading stored text: %w", err)
	}
	s.logger.Debug("loaded stored text", zap.Int("bytes", len(text)))
	s.mu.Lock()
	seq := s.seq
	s.mu.Unlock()
	s.apply(ctx, seq, text, false)
	return nil
}

// Submit records an edit. The text is parsed once no further edit has
// arrived for the debounce delay; only the last text of a burst is parsed.
func (s *Session) Submit(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = text
	s.hasPending = true
	s.seq++
	seq := s.seq

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.delay <= 0 {
		s.mu.Unlock()
		s.fire(seq)
		return
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(seq) })
	s.mu.Unlock()
}

// Flush applies a pending edit immediately instead of waiting for the
// debounce timer. It returns the store error, if any.
func (s *Session) Flush(ctx context.Context) error {
	seq, text, ok := s.takePending(0)
	if !ok {
		return nil
	}
	return s.apply(ctx, seq, text, true)
}

// Apply parses, publishes and persists text at once, superseding any pending
// edit. It is for front ends that debounce on their own. It returns the store
// error, if any.
func (s *Session) Apply(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.seq++
	seq := s.seq
	s.hasPending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.apply(ctx, seq, text, true)
}

// Close stops the debounce timer. Pending edits are discarded; call Flush
// first to keep them.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.hasPending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) fire(seq uint64) {
	seq, text, ok := s.takePending(seq)
	if !ok {
		return
	}
	if err := s.apply(context.Background(), seq, text, true); err != nil {
		s.logger.Warn("failed to persist text", zap.Error(err))
	}
}

// takePending claims the pending text and returns the seq it was submitted
// with. A non-zero seq only matches the submission that armed the timer, so
// stale timers do nothing.
func (s *Session) takePending(seq uint64) (uint64, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasPending || (seq != 0 && seq != s.seq) {
		return 0, "", false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.hasPending = false
	return s.seq, s.pending, true
}

// apply parses, publishes and optionally persists text submitted as seq.
// A text claimed before a newer one was applied is skipped.
func (s *Session) apply(ctx context.Context, seq uint64, text string, persist bool) error {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if seq < s.applied {
		s.logger.Debug("skipping superseded text", zap.Uint64("seq", seq), zap.Uint64("applied", s.applied))
		return nil
	}
	s.applied = seq

	start := time.Now()
	g := causal.ParseGraph(text)
	dropped := DroppedLines(text, g)
	s.metrics.ObserveParse(len(g.Links), dropped, time.Since(start))

	s.mu.Lock()
	s.text = text
	s.graph = g
	s.mu.Unlock()

	s.logger.Debug("graph updated",
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("links", len(g.Links)),
		zap.Int("dropped", dropped),
	)
	s.emitter.Emit(GraphUpdatedEvent(text, g, dropped))

	if !persist {
		return nil
	}
	if err := s.store.Save(ctx, text); err != nil {
		s.emitter.Emit(StoreFailedEvent(text, err))
		return fmt.Errorf("saving text: %w", err)
	}
	s.emitter.Emit(TextSavedEvent(text))
	return nil
}

// DroppedLines counts the non-blank lines of text that produced no link in g.
func DroppedLines(text string, g *causal.Graph) int {
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	return lines - len(g.Links)
}
