// Package store holds the session's single current health record.
package store

import (
	"sync"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

// Backing is what screens need from the record store. Tests substitute
// their own implementation where a real Store is inconvenient.
type Backing interface {
	Record() record.HealthRecord
	ReplaceRecord(next record.HealthRecord)
	Version() uint64
	Loading() bool
	SetLoading(loading bool)
}

// Ensure Store implements Backing
var _ Backing = (*Store)(nil)

// Store is a singly-owned container for the current record and the loading flag.
// Records are copied on the way in and out, so a reader never shares memory
// with the stored value and never sees a half-replaced record.
type Store struct {
	mu          sync.RWMutex
	current     record.HealthRecord
	version     uint64
	loading     bool
	nextID      int
	subscribers map[int]func(record.HealthRecord)
}

// New creates a store holding record.Default().
func New() *Store {
	return NewWithRecord(record.Default())
}

// NewWithRecord creates a store seeded with rec.
func NewWithRecord(rec record.HealthRecord) *Store {
	return &Store{
		current:     rec.Clone(),
		subscribers: make(map[int]func(record.HealthRecord)),
	}
}

// Record returns a copy of the current record.
func (s *Store) Record() record.HealthRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// ReplaceRecord swaps in next unconditionally and then notifies subscribers.
// Validation is the caller's job.
func (s *Store) ReplaceRecord(next record.HealthRecord) {
	stored := next.Clone()

	s.mu.Lock()
	s.current = stored
	s.version++
	subs := make([]func(record.HealthRecord), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(stored.Clone())
	}
}

// Version increases by one on every ReplaceRecord.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// Subscribe registers fn to be called with the new record after each
// replacement. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(record.HealthRecord)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
