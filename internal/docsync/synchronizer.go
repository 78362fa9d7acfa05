// Package docsync keeps the three homes of the document text (the live
// editor buffer, the durable cache, and the shareable link token) eventually
// consistent.
//
// The live buffer is the single authoritative snapshot. The cache and the
// link are idempotent replication sinks, refreshed together by a debounced
// commit cycle. External navigation flows the other way: a foreign link
// token replaces the buffer without ever scheduling a commit of its own.
package docsync

import (
	"log/slog"
	"strings"
	stdsync "sync"
	"time"

	"github.com/dshills/linkpad/internal/compress"
	"github.com/dshills/linkpad/internal/editor"
	"github.com/dshills/linkpad/internal/event"
	"github.com/dshills/linkpad/internal/link"
	"github.com/dshills/linkpad/internal/store"
	"github.com/dshills/linkpad/internal/token"
)

// State is the synchronizer's position in the commit cycle.
type State int

const (
	// StateIdle means no pending changes.
	StateIdle State = iota

	// StatePending means a change occurred and a deferred commit is
	// scheduled.
	StatePending

	// StateCommitting means the deferred commit is running.
	StateCommitting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// DefaultDelay is the debounce quiet period before a commit.
const DefaultDelay = 500 * time.Millisecond

// Sink receives the encoded token after each commit. The link file
// implements it.
type Sink interface {
	// SetToken rewrites the link with the given token.
	SetToken(token string) error

	// Clear restores the bare link with no token.
	Clear() error
}

// Commit is the payload of a doc.committed event.
type Commit struct {
	// Title is the derived title of the committed snapshot.
	Title string

	// Token is the link token written, empty when the link was cleared.
	Token string
}

// Synchronizer debounces edits into commit cycles and reconciles external
// navigation back into the buffer.
//
// At most one deferred commit is scheduled at a time; a newer edit cancels
// and replaces it. All mutable state lives on the instance so tests can run
// several independent synchronizers with fake clocks.
type Synchronizer struct {
	ed    editor.Adapter
	store store.Store
	sink  Sink
	codec compress.Codec
	bus   *event.Bus

	clock       Clock
	delay       time.Duration
	titleBudget int
	log         *slog.Logger

	mu        stdsync.Mutex
	state     State
	timer     Timer
	seq       uint64
	composing bool
	dirty     bool // buffer changed while composing

	subs []*event.Subscription

	commits uint64
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithDelay sets the debounce quiet period.
func WithDelay(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithClock injects a custom clock, used by tests for deterministic timing.
func WithClock(c Clock) Option {
	return func(s *Synchronizer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTitleBudget bounds the derived title length in grapheme clusters.
func WithTitleBudget(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.titleBudget = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Synchronizer) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a synchronizer over the given collaborators. Call Start to
// attach it to the bus.
func New(ed editor.Adapter, st store.Store, sink Sink, codec compress.Codec, bus *event.Bus, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		ed:          ed,
		store:       st,
		sink:        sink,
		codec:       codec,
		bus:         bus,
		clock:       SystemClock(),
		delay:       DefaultDelay,
		titleBudget: DefaultTitleBudget,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start subscribes the synchronizer to the content-sync topics.
func (s *Synchronizer) Start() {
	s.subs = []*event.Subscription{
		s.bus.Subscribe(event.TopicBufferChanged, func(event.Event) { s.NotifyChange() }),
		s.bus.Subscribe(event.TopicCompositionStarted, func(event.Event) { s.CompositionStart() }),
		s.bus.Subscribe(event.TopicCompositionEnded, func(event.Event) { s.CompositionEnd() }),
		s.bus.Subscribe(event.TopicLinkNavigated, func(ev event.Event) {
			if nav, ok := ev.Payload.(link.Navigation); ok {
				s.Reconcile(nav.Token)
			}
		}),
	}
}

// Stop detaches from the bus and cancels any scheduled commit. An already
// running commit finishes on its own.
func (s *Synchronizer) Stop() {
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub)
	}
	s.subs = nil

	s.mu.Lock()
	s.cancelTimerLocked()
	if s.state == StatePending {
		s.state = StateIdle
	}
	s.mu.Unlock()
}

// State returns the current state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Commits returns how many commit cycles have completed.
func (s *Synchronizer) Commits() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// NotifyChange records a local edit.
//
// Outside composition it moves Idle (or Pending) to Pending, restarting
// the quiet period. During composition it only marks the buffer dirty;
// any scheduled commit is cancelled until the sequence ends.
func (s *Synchronizer) NotifyChange() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.composing {
		s.dirty = true
		s.cancelTimerLocked()
		if s.state == StatePending {
			s.state = StateIdle
		}
		return
	}

	s.scheduleLocked()
}

// CompositionStart suspends commit scheduling for the duration of an
// input-method sequence. An already pending change carries over as dirty
// so it cannot be lost.
func (s *Synchronizer) CompositionStart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.composing = true
	if s.state == StatePending {
		s.dirty = true
	}
	s.cancelTimerLocked()
	if s.state == StatePending {
		s.state = StateIdle
	}
}

// CompositionEnd resumes scheduling. If the buffer changed during the
// sequence a fresh quiet period starts immediately.
func (s *Synchronizer) CompositionEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.composing {
		return
	}
	s.composing = false

	if s.dirty {
		s.dirty = false
		s.scheduleLocked()
	}
}

// Flush commits a pending change immediately, cancelling the scheduled
// timer. Used on shutdown. A no-op when nothing is pending.
func (s *Synchronizer) Flush() {
	s.mu.Lock()
	if s.state != StatePending {
		s.mu.Unlock()
		return
	}
	s.cancelTimerLocked()
	s.state = StateCommitting
	s.mu.Unlock()

	s.commit()
}

// Reconcile ingests an externally navigated link token.
//
// The token is decoded and decompressed; on any failure the buffer is left
// untouched, since a malformed link must never wipe live work. On success
// the buffer is replaced with the cursor clamped near its old offset, and
// any pending local commit is cancelled: the link is the source of truth
// here, so this path never schedules a commit of its own.
func (s *Synchronizer) Reconcile(tok string) {
	if tok == "" {
		s.log.Debug("ignoring navigation with empty token")
		return
	}

	data, err := token.Decode(tok)
	if err != nil {
		s.log.Debug("ignoring navigation with undecodable token", "error", err)
		return
	}
	text, err := s.codec.Decompress(data)
	if err != nil {
		s.log.Debug("ignoring navigation with corrupt payload", "error", err)
		return
	}

	s.mu.Lock()
	s.cancelTimerLocked()
	if s.state == StatePending {
		s.state = StateIdle
	}
	s.mu.Unlock()

	if text == s.ed.Text() {
		return
	}

	s.ed.Replace(text, s.ed.Cursor())
	s.publishTitle(Title(text, s.titleBudget))
	s.log.Debug("reconciled external navigation", "bytes", len(text))
}

// scheduleLocked moves to Pending with a fresh quiet period, replacing any
// scheduled commit. Caller holds s.mu.
func (s *Synchronizer) scheduleLocked() {
	s.seq++
	cur := s.seq

	s.cancelTimerLocked()
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(cur) })
	s.state = StatePending
}

// cancelTimerLocked stops the scheduled commit, if any. Caller holds s.mu.
func (s *Synchronizer) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// fire runs when the quiet period elapses. A stale sequence number means a
// newer edit replaced this schedule.
func (s *Synchronizer) fire(seq uint64) {
	s.mu.Lock()
	if s.seq != seq || s.state != StatePending {
		s.mu.Unlock()
		return
	}
	s.state = StateCommitting
	s.timer = nil
	s.mu.Unlock()

	s.commit()
}

// commit runs one full cycle: snapshot, compress, encode, write both
// sinks, refresh the title. Runs without holding s.mu so edits arriving
// mid-commit queue a fresh Pending instead of being lost.
//
// Failures are terminal for the cycle, never retried: state simply remains
// at the last successful commit and the next edit tries again.
func (s *Synchronizer) commit() {
	snapshot := s.ed.Text()
	title := Title(snapshot, s.titleBudget)

	if err := s.store.Save(snapshot); err != nil {
		s.log.Warn("cache write failed", "error", err)
	}

	linkToken, tokenBytes := s.writeLink(snapshot)

	if err := s.store.SaveSession(store.SessionInfo{
		Title:      title,
		UpdatedAt:  s.clock.Now(),
		TokenBytes: tokenBytes,
	}); err != nil {
		s.log.Warn("session write failed", "error", err)
	}

	s.publishTitle(title)
	s.bus.Publish(event.New(event.TopicDocCommitted, Commit{Title: title, Token: linkToken}, "docsync"))

	s.mu.Lock()
	s.commits++
	// An edit that arrived during the commit already moved us back to
	// Pending; only a quiet commit returns to Idle.
	if s.state == StateCommitting {
		s.state = StateIdle
	}
	s.mu.Unlock()

	s.log.Debug("commit complete", "title", title, "token_bytes", tokenBytes)
}

// writeLink updates the link sink for the snapshot and returns the token
// written plus its compressed size. Empty and whitespace-only documents
// clear the link without invoking compression.
func (s *Synchronizer) writeLink(snapshot string) (string, int) {
	if strings.TrimSpace(snapshot) == "" {
		if err := s.sink.Clear(); err != nil {
			s.log.Warn("link clear failed", "error", err)
		}
		return "", 0
	}

	if !s.codec.Available() {
		// Without the one wire format the link cannot carry content;
		// the cache keeps the document safe.
		s.log.Warn("compression unavailable, link not updated")
		return "", 0
	}

	data, err := s.codec.Compress(snapshot)
	if err != nil {
		s.log.Warn("compression failed, link not updated", "error", err)
		return "", 0
	}

	tok := token.Encode(data)
	if err := s.sink.SetToken(tok); err != nil {
		s.log.Warn("link write failed", "error", err)
	}
	return tok, len(data)
}

func (s *Synchronizer) publishTitle(title string) {
	s.bus.Publish(event.New(event.TopicDocTitle, title, "docsync"))
}
