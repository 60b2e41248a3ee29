/*
Package collection provides a named, persisted collection of items. The
whole collection is loaded from a RecordStore once and written back in full
after every mutation.
*/
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrNotReady = fmt.Errorf("collection has not finished loading")
)

type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unloaded"
	}
}

/*
Item is anything that can live in a Store. WithKey returns a copy of the
item carrying the given identifier.
*/
type Item[T any] interface {
	Key() int64
	WithKey(id int64) T
}

type StoreConfig struct {
	Name    string
	Records RecordStore
	IDs     *IDGenerator
}

type Store[T Item[T]] struct {
	mu      sync.Mutex
	name    string
	records RecordStore
	ids     *IDGenerator
	state   State
	loadErr error
	items   []T
}

func NewStore[T Item[T]](config StoreConfig) *Store[T] {
	ids := config.IDs

	if ids == nil {
		ids = defaultIDs
	}

	return &Store[T]{
		name:    config.Name,
		records: config.Records,
		ids:     ids,
		state:   StateUnloaded,
		items:   []T{},
	}
}

func (s *Store[T]) Name() string {
	return s.name
}

func (s *Store[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Store[T]) Ready() bool {
	return s.State() == StateReady
}

/*
Load hydrates the collection from its durable record. A missing or
unreadable record leaves the collection empty. Load only does work the first
time it is called; the store is ready afterwards whatever the outcome. A
record that exists but cannot be read or parsed is kept in LoadErr.
*/
func (s *Store[T]) Load(ctx context.Context) {
	var (
		err   error
		b     []byte
		items []T
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnloaded {
		return
	}

	s.state = StateLoading
	defer func() {
		s.state = StateReady
	}()

	if b, err = s.records.ReadRecord(ctx, s.name); err != nil {
		if !errors.Is(err, ErrRecordNotFound) {
			slog.Error("failed to load collection", "collection", s.name, "error", err)
			s.loadErr = fmt.Errorf("error reading collection '%s': %w", s.name, err)
		}

		return
	}

	if err = json.Unmarshal(b, &items); err != nil {
		slog.Error("failed to parse stored collection", "collection", s.name, "error", err)
		s.loadErr = fmt.Errorf("error parsing collection '%s': %w", s.name, err)
		return
	}

	if items != nil {
		s.items = items
	}

	slog.Debug("collection loaded", "collection", s.name, "count", len(s.items))
}

/*
LoadErr reports why the stored record could not be used. It is nil when the
record loaded or did not exist yet, so an empty collection only means "no
items" when LoadErr is nil.
*/
func (s *Store[T]) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadErr
}

// All returns a copy of the collection, most recent first.
func (s *Store[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]T, len(s.items))
	copy(result, s.items)
	return result
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store[T]) Get(id int64) (T, bool) {
	var (
		zero T
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if index := s.indexOf(id); index > -1 {
		return s.items[index], true
	}

	return zero, false
}

/*
Add gives the item a fresh identifier, puts it at the front of the
collection and persists.
*/
func (s *Store[T]) Add(ctx context.Context, item T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	item = item.WithKey(s.ids.Next())
	s.items = append([]T{item}, s.items...)

	s.persistAfterMutation(ctx)
	return item
}

/*
Import appends items to the back of the collection in the order given.
Items that already carry an identifier keep it.
*/
func (s *Store[T]) Import(ctx context.Context, items []T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]T, 0, len(items))

	for _, item := range items {
		if item.Key() == 0 {
			item = item.WithKey(s.ids.Next())
		}

		added = append(added, item)
	}

	s.items = append(s.items, added...)

	s.persistAfterMutation(ctx)
	return added
}

/*
Update replaces the item matching id with patch(item). It reports false and
writes nothing when no item matches.
*/
func (s *Store[T]) Update(ctx context.Context, id int64, patch func(T) T) (T, bool) {
	var (
		zero T
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)

	if index < 0 {
		return zero, false
	}

	// the identifier is not patchable
	s.items[index] = patch(s.items[index]).WithKey(id)

	s.persistAfterMutation(ctx)
	return s.items[index], true
}

func (s *Store[T]) Remove(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)

	if index < 0 {
		return false
	}

	s.items = append(s.items[:index:index], s.items[index+1:]...)

	s.persistAfterMutation(ctx)
	return true
}

/*
Persist writes the whole collection to its durable record. Writing before the
first load has finished is refused so an empty collection can never clobber
stored data.
*/
func (s *Store[T]) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persist(ctx)
}

func (s *Store[T]) persistAfterMutation(ctx context.Context) {
	if s.state != StateReady {
		return
	}

	if err := s.persist(ctx); err != nil {
		slog.Error("failed to save collection", "collection", s.name, "error", err)
	}
}

func (s *Store[T]) persist(ctx context.Context) error {
	var (
		err error
		b   []byte
	)

	if s.state != StateReady {
		return ErrNotReady
	}

	if b, err = json.Marshal(s.items); err != nil {
		return fmt.Errorf("error serializing collection '%s': %w", s.name, err)
	}

	if err = s.records.WriteRecord(ctx, s.name, b); err != nil {
		return fmt.Errorf("error writing collection '%s': %w", s.name, err)
	}

	return nil
}

func (s *Store[T]) indexOf(id int64) int {
	for index, item := range s.items {
		if item.Key() == id {
			return index
		}
	}

	return -1
}
