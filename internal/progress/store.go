// Package progress owns per-task completion state and the aggregates derived
// from it.
//
// The store is a sparse mapping from task identifier to true: a task is done
// exactly when its identifier is present. It is loaded once from a single
// persistence slot, written back after every mutation, and announces every
// mutation to its subscribers so that every view derived from it can redraw.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/roadmap/internal/storage"
)

// DefaultKey is the persistence slot key. The version suffix lets a future
// schema move to a new key instead of reading incompatible data.
const DefaultKey = "roadmap_progress_v1"

// Slot is a single string-keyed persistence location.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Checker reports whether a task identifier is complete.
type Checker interface {
	IsDone(id string) bool
}

// State is a sparse completion mapping. It satisfies Checker so aggregates
// can be computed without a store.
type State map[string]bool

func (s State) IsDone(id string) bool { return s[id] }

// ChangeKind classifies a store mutation.
type ChangeKind int

const (
	ChangeSet ChangeKind = iota
	ChangeReset
)

// Change describes the mutation that triggered a notification.
type Change struct {
	Kind   ChangeKind
	TaskID string // empty for resets
	Done   bool
}

// Listener is called synchronously after a mutation has been persisted.
type Listener func(Change)

// Store is the explicitly owned progress state. Construct it once at startup
// and pass it to every view and handler.
type Store struct {
	slot   Slot
	key    string
	logger *slog.Logger

	// wmu orders persistence: it is held from encoding a blob until the
	// slot accepts it, so blobs land in mutation order.
	wmu sync.Mutex

	mu    sync.Mutex
	state State

	lmu       sync.Mutex
	listeners []subscription
	nextSub   int
}

type subscription struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the persistence slot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used to report swallowed persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates an empty store bound to slot. Call Load to read persisted state.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:  make(State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads persisted state into it.
func Open(ctx context.Context, slot Slot, opts ...Option) *Store {
	s := NewStore(slot, opts...)
	s.Load(ctx)
	return s
}

// Key returns the persistence slot key.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory state with the persisted blob and returns a
// copy of it. An absent, unreadable, or malformed blob yields an empty
// mapping; Load never fails.
func (s *Store) Load(ctx context.Context) State {
	loaded := s.read(ctx)

	s.mu.Lock()
	s.state = loaded
	out := s.copyLocked()
	s.mu.Unlock()
	return out
}

func (s *Store) read(ctx context.Context) State {
	raw, err := s.slot.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.DebugContext(ctx, "no saved progress", "key", s.key)
		} else {
			s.logger.WarnContext(ctx, "progress unreadable, starting empty", "key", s.key, "error", err)
		}
		return make(State)
	}
	return Decode(raw)
}

// Decode parses a persisted blob. Anything other than a JSON object yields an
// empty mapping, and only entries whose value is literally true are kept.
func Decode(raw string) State {
	out := make(State)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed == nil {
		return out
	}
	for id, v := range parsed {
		if b, ok := v.(bool); ok && b {
			out[id] = true
		}
	}
	return out
}

// Encode serialises a mapping the way it is persisted: a JSON object of the
// done identifiers, each mapped to true. False entries are dropped.
func Encode(st State) string {
	sparse := make(map[string]bool, len(st))
	for id, done := range st {
		if done {
			sparse[id] = true
		}
	}
	data, err := json.Marshal(sparse)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Save writes the current state. Failures are logged and swallowed: the
// in-memory state stays authoritative for the rest of the session.
func (s *Store) Save(ctx context.Context) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	blob := Encode(s.state)
	s.mu.Unlock()
	s.write(ctx, blob)
}

func (s *Store) write(ctx context.Context, blob string) {
	if err := s.slot.Set(ctx, s.key, blob); err != nil {
		s.logger.WarnContext(ctx, "progress not persisted", "key", s.key, "error", err)
	}
}

// SetTask marks id done or not done, persists, then notifies subscribers.
// Not done is stored as absence, never as false.
func (s *Store) SetTask(ctx context.Context, id string, done bool) {
	s.wmu.Lock()
	s.mu.Lock()
	blob := s.applyLocked(id, done)
	s.mu.Unlock()
	s.write(ctx, blob)
	s.wmu.Unlock()

	s.notify(Change{Kind: ChangeSet, TaskID: id, Done: done})
}

// Toggle flips id and returns its new completion.
func (s *Store) Toggle(ctx context.Context, id string) bool {
	s.wmu.Lock()
	s.mu.Lock()
	done := !s.state[id]
	blob := s.applyLocked(id, done)
	s.mu.Unlock()
	s.write(ctx, blob)
	s.wmu.Unlock()

	s.notify(Change{Kind: ChangeSet, TaskID: id, Done: done})
	return done
}

func (s *Store) applyLocked(id string, done bool) string {
	if done {
		s.state[id] = true
	} else {
		delete(s.state, id)
	}
	return Encode(s.state)
}

// Reset replaces the state with an empty mapping, persists, then notifies.
// Callers are responsible for obtaining confirmation first.
func (s *Store) Reset(ctx context.Context) {
	s.wmu.Lock()
	s.mu.Lock()
	s.state = make(State)
	s.mu.Unlock()
	s.write(ctx, "{}")
	s.wmu.Unlock()

	s.notify(Change{Kind: ChangeReset})
}

func (s *Store) IsDone(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state[id]
}

// Len returns the number of stored identifiers, including stale ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state)
}

// Snapshot returns a copy of the current mapping.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// DoneIDs lists the stored identifiers in lexical order.
func (s *Store) DoneIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.state))
	for id := range s.state {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// stampedSlot is a slot that records when each key was last written.
type stampedSlot interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// SavedAt reports when progress was last persisted. It is false when the
// slot keeps no write times or nothing has been saved yet.
func (s *Store) SavedAt(ctx context.Context) (time.Time, bool) {
	ss, ok := s.slot.(stampedSlot)
	if !ok {
		return time.Time{}, false
	}
	ts, err := ss.UpdatedAt(ctx, s.key)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (s *Store) copyLocked() State {
	out := make(State, len(s.state))
	for k, v := range s.state {
		out[k] = v
	}
	return out
}

// Subscribe registers fn for every future change and returns a function
// that removes it. Listeners run in subscription order on the mutating
// goroutine, after the state and write locks have been released.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(c Change) {
	s.lmu.Lock()
	subs := make([]subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.lmu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}
