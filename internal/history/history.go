// Package history implements the undo/redo snapshot collaborator (spec.md
// §5, §6, §9). The original Python backend kept two process-wide maps
// (doc id -> stack of byte snapshots); here they become a single owned
// HistoryStore, injected wherever a mutation needs to snapshot first, with
// all access to a given document serialized behind that document's lock.
package history

import (
	"sync"

	"github.com/Ayush-Nema/EditPDF/internal/docstore"
)

// MaxUndo bounds each document's undo stack; the oldest entry is discarded
// first once the bound is exceeded (spec.md §6 "MAX_UNDO = 20").
const MaxUndo = 20

type docHistory struct {
	mu   sync.Mutex
	undo [][]byte
	redo [][]byte
}

// Store owns the undo/redo stacks for every document handled by this
// process. It is safe for concurrent use; each document's stacks are
// guarded by their own lock so editing one document never blocks another.
type Store struct {
	docs  *docstore.Store
	mu    sync.Mutex // guards the top-level map only
	byDoc map[string]*docHistory
}

// New returns a Store that snapshots through docs.
func New(docs *docstore.Store) *Store {
	return &Store{docs: docs, byDoc: map[string]*docHistory{}}
}

func (s *Store) get(docID string) *docHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.byDoc[docID]
	if !ok {
		h = &docHistory{}
		s.byDoc[docID] = h
	}
	return h
}

// WithLock runs fn while holding docID's per-document lock, serializing it
// against snapshots, undos, redos, and any other mutation of the same
// document (spec.md §5 "a correct implementation serialises all mutations
// on a document with a per-document lock").
func (s *Store) WithLock(docID string, fn func() error) error {
	h := s.get(docID)
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn()
}

// SnapshotBefore records the document's current bytes on the undo stack and
// clears the redo stack. Callers must already hold docID's lock (normally
// via WithLock) and must call this before mutating the document at all.
func (s *Store) SnapshotBefore(docID string) error {
	h := s.get(docID)
	content, err := s.docs.Read(docID)
	if err != nil {
		if err == docstore.ErrNotFound {
			return nil
		}
		return err
	}
	h.undo = append(h.undo, content)
	if len(h.undo) > MaxUndo {
		h.undo = h.undo[1:]
	}
	h.redo = nil
	return nil
}

// Undo restores the most recent snapshot, pushing the current bytes onto
// the redo stack first. It reports false if there is nothing to undo.
func (s *Store) Undo(docID string) (bool, error) {
	h := s.get(docID)
	if len(h.undo) == 0 {
		return false, nil
	}
	current, err := s.docs.Read(docID)
	if err != nil {
		return false, err
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	if err := s.docs.Write(docID, prev); err != nil {
		return false, err
	}
	return true, nil
}

// Redo re-applies the most recently undone mutation. It reports false if
// there is nothing to redo.
func (s *Store) Redo(docID string) (bool, error) {
	h := s.get(docID)
	if len(h.redo) == 0 {
		return false, nil
	}
	current, err := s.docs.Read(docID)
	if err != nil {
		return false, err
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	if len(h.undo) > MaxUndo {
		h.undo = h.undo[1:]
	}
	if err := s.docs.Write(docID, next); err != nil {
		return false, err
	}
	return true, nil
}
