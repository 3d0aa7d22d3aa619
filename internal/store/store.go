// Package store holds the CV form state as a sequence of immutable snapshots.
//
// Every mutation is a Command applied through Dispatch; the store swaps in the
// resulting snapshot under a lock, so readers only ever see whole documents.
package store

import (
	"sync"

	"github.com/jonathan/cv-studio/internal/types"
)

// Result describes the outcome of a dispatched command.
type Result struct {
	Doc     types.CvDocument
	Index   int    // affected record index, -1 when none
	Version uint64 // store version after the command
	Changed bool
}

// Store owns the current document of one session.
type Store struct {
	mu      sync.RWMutex
	doc     types.CvDocument
	version uint64

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan uint64
}

// New creates a store seeded with doc.
func New(doc types.CvDocument) *Store {
	return &Store{
		doc:  doc.Clone(),
		subs: make(map[int]chan uint64),
	}
}

// Empty creates a store holding an empty document.
func Empty() *Store {
	return New(types.NewCvDocument())
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() types.CvDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Current returns a deep copy of the document together with its version.
func (s *Store) Current() (types.CvDocument, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone(), s.version
}

// Version returns the number of effective changes applied so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Dispatch applies cmd to the current document. Commands that address a
// missing record leave the store untouched and report Index -1.
func (s *Store) Dispatch(cmd Command) Result {
	s.mu.Lock()
	next, index, changed := Apply(s.doc, cmd)
	if changed {
		s.doc = next
		s.version++
	}
	res := Result{
		Doc:     s.doc.Clone(),
		Index:   index,
		Version: s.version,
		Changed: changed,
	}
	s.mu.Unlock()

	if changed {
		s.Notify(res.Version)
	}
	return res
}

// Subscribe registers a listener for version changes. The channel holds at
// most one pending version; older pending versions are replaced by newer ones.
// The returned func unregisters the listener and closes the channel.
func (s *Store) Subscribe() (<-chan uint64, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan uint64, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Notify wakes every subscriber with version v without blocking.
// Sessions also call it when presentational state changes.
func (s *Store) Notify(v uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			// drop the stale pending value and keep the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
