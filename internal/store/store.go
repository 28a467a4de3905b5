// Package store owns the canonical in-memory todo collection, keeps it
// synchronized with a storage backend, and notifies subscribers after
// every mutation.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lmeriaux/todo/internal/model"
	"github.com/lmeriaux/todo/internal/storage"
)

// ErrEmptyTitle is returned by Create when the trimmed title is empty.
var ErrEmptyTitle = errors.New("title cannot be empty")

type subscriber struct {
	id int
	fn func()
}

// Store is the single writer of the todo collection. Construct one per
// process and pass it to consumers; every mutation goes through it.
//
// Each operation mutates the canonical sequence atomically, persists the
// whole collection to the backend, and then invokes the subscriber
// callbacks in registration order, all before returning. A persistence
// failure is logged and swallowed: the in-memory mutation stands and
// subscribers are still notified.
type Store struct {
	mu      sync.Mutex
	items   []model.Item
	subs    []subscriber
	nextSub int

	backend storage.Backend
	logger  *log.Logger
	now     func() time.Time
}

// Option tunes a Store at construction.
type Option func(*Store)

// WithLogger routes the store's diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds a store over backend and loads the persisted collection.
// An absent slot, an unreadable slot, or a corrupt payload all yield an
// empty collection with a logged warning; startup never fails on bad
// stored data.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  log.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.loadInitial()
	return s
}

func (s *Store) loadInitial() []model.Item {
	data, err := s.backend.Load()
	if err != nil {
		s.logger.Warn("loading stored todos failed, starting empty", "err", err)
		return nil
	}
	if data == nil {
		return nil
	}
	items, err := decodeItems(data)
	if err != nil {
		s.logger.Warn("discarding corrupt stored todos", "err", err)
		return nil
	}
	return items
}

// Create appends a new item. The title is trimmed and must be non-empty.
// Priority defaults to medium when left zero. The new item's order key is
// strictly greater than every existing one, so it sorts last under manual
// ordering.
func (s *Store) Create(title string, due *time.Time, category *model.Category, priority model.Priority) (model.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Item{}, ErrEmptyTitle
	}
	var created model.Item
	s.mutate(func(items []model.Item) ([]model.Item, bool) {
		now := s.now()
		created = model.Item{
			ID:        uuid.NewString(),
			Title:     title,
			Priority:  priority.OrDefault(),
			CreatedAt: now,
			Order:     nextOrder(items, now),
		}
		if due != nil {
			d := *due
			created.DueDate = &d
		}
		if category != nil {
			c := *category
			created.Category = &c
		}
		next := make([]model.Item, 0, len(items)+1)
		next = append(next, items...)
		next = append(next, created)
		return next, true
	})
	return created.Clone(), nil
}

// nextOrder picks an append key greater than every existing order value.
// Wall-clock milliseconds keep keys monotonic across restarts; the bump
// covers clock skew and same-millisecond creates.
func nextOrder(items []model.Item, now time.Time) float64 {
	order := float64(now.UnixMilli())
	for _, it := range items {
		if it.Order >= order {
			order = it.Order + 1
		}
	}
	return order
}

// Patch carries the fields an Update applies. Nil pointer fields are left
// unchanged; the Clear flags reset the optional fields to absent.
// ID, CreatedAt, and Order are not patchable.
type Patch struct {
	Title         *string
	Completed     *bool
	DueDate       *time.Time
	ClearDueDate  bool
	Category      *model.Category
	ClearCategory bool
	Priority      *model.Priority
}

// Update applies patch to the item with the given id. An unknown id is a
// silent no-op; UI call sites race against deletions and rely on that.
// A title patch that trims to empty is ignored, like at creation.
func (s *Store) Update(id string, patch Patch) {
	s.mutate(func(items []model.Item) ([]model.Item, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, false
		}
		next := make([]model.Item, len(items))
		copy(next, items)
		it := &next[i]
		if patch.Title != nil {
			if t := strings.TrimSpace(*patch.Title); t != "" {
				it.Title = t
			}
		}
		if patch.Completed != nil {
			it.Completed = *patch.Completed
		}
		if patch.ClearDueDate {
			it.DueDate = nil
		} else if patch.DueDate != nil {
			d := *patch.DueDate
			it.DueDate = &d
		}
		if patch.ClearCategory {
			it.Category = nil
		} else if patch.Category != nil {
			c := *patch.Category
			it.Category = &c
		}
		if patch.Priority != nil {
			it.Priority = patch.Priority.OrDefault()
		}
		return next, true
	})
}

// Delete removes the item with the given id; unknown ids are a silent
// no-op.
func (s *Store) Delete(id string) {
	s.mutate(func(items []model.Item) ([]model.Item, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, false
		}
		next := make([]model.Item, 0, len(items)-1)
		next = append(next, items[:i]...)
		next = append(next, items[i+1:]...)
		return next, true
	})
}

// ToggleComplete flips the completed flag; unknown ids are a silent
// no-op.
func (s *Store) ToggleComplete(id string) {
	s.mutate(func(items []model.Item) ([]model.Item, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, false
		}
		next := make([]model.Item, len(items))
		copy(next, items)
		next[i].Completed = !next[i].Completed
		return next, true
	})
}

// Reorder moves the item movedID to the index targetID occupied before
// the move (splice semantics: remove, then insert at the target's
// original index), then rewrites every order key to its 0-based
// position. This is the only operation that touches order keys across
// the whole collection. No-op if either id is unknown.
func (s *Store) Reorder(movedID, targetID string) {
	s.mutate(func(items []model.Item) ([]model.Item, bool) {
		from := indexOf(items, movedID)
		to := indexOf(items, targetID)
		if from < 0 || to < 0 || from == to {
			return nil, false
		}
		next := make([]model.Item, 0, len(items))
		next = append(next, items[:from]...)
		next = append(next, items[from+1:]...)
		moved := items[from]
		if to > len(next) {
			to = len(next)
		}
		next = append(next[:to], append([]model.Item{moved}, next[to:]...)...)
		for i := range next {
			next[i].Order = float64(i)
		}
		return next, true
	})
}

// Subscribe registers fn to run after every successful mutation and
// returns its cancel function. Callbacks fire synchronously in
// registration order; cancelling during a notification round does not
// disturb delivery to the other subscribers of that round, and a
// callback may call back into the store.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i := range s.subs {
				if s.subs[i].id == id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

// Snapshot returns a copy of the canonical sequence. The copy shares
// nothing with the store; any change must go through an operation.
func (s *Store) Snapshot() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

// mutate runs fn under the store lock. When fn reports a change, the
// returned slice becomes canonical and is persisted, then the lock is
// dropped and the subscribers captured during the mutation are notified.
// Running callbacks outside the lock keeps re-entrant store calls from
// deadlocking while still delivering every notification before the
// triggering operation returns.
func (s *Store) mutate(fn func(items []model.Item) ([]model.Item, bool)) {
	s.mu.Lock()
	next, changed := fn(s.items)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.items = next
	s.persistLocked()
	subs := make([]func(), len(s.subs))
	for i, sub := range s.subs {
		subs[i] = sub.fn
	}
	s.mu.Unlock()
	for _, notify := range subs {
		notify()
	}
}

// persistLocked flushes the canonical sequence to the backend. Failures
// are logged, not surfaced: the in-memory state stays authoritative for
// the session and the caller's mutation is considered done.
func (s *Store) persistLocked() {
	data, err := encodeItems(s.items)
	if err != nil {
		s.logger.Error("encoding todos for persistence", "err", err)
		return
	}
	if err := s.backend.Save(data); err != nil {
		s.logger.Error("persisting todos", "err", err, "items", len(s.items))
	}
}

func indexOf(items []model.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
