// Package docstore is the document store collaborator (spec.md §6): PDF
// bytes live at <dir>/<doc_id>.pdf and that file is the durable truth for
// everything else in this module.
package docstore

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Ayush-Nema/EditPDF/internal/common"
	"github.com/Ayush-Nema/EditPDF/internal/pdfid"
)

// ErrOversize is returned when an upload exceeds MaxUploadSize.
var ErrOversize = errors.New("upload exceeds maximum size")

// ErrNotFound is returned when a document file does not exist.
var ErrNotFound = errors.New("document not found")

// MaxUploadSize is the authoritative upload cap from spec.md §6 (50 MiB).
const MaxUploadSize = 50 * 1024 * 1024

// Store manages PDF files on disk under Dir.
type Store struct {
	Dir string
}

// New creates a Store rooted at dir, creating dir if it does not exist.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// Path returns the on-disk path for docID without validating it.
func (s *Store) Path(docID string) string {
	return filepath.Join(s.Dir, docID+".pdf")
}

// Save persists content under a freshly minted doc id, rejecting oversize
// uploads before anything touches disk.
func (s *Store) Save(content []byte) (docID string, err error) {
	if len(content) > MaxUploadSize {
		return "", ErrOversize
	}
	docID = pdfid.New(content)
	if err := os.WriteFile(s.Path(docID), content, 0o644); err != nil {
		return "", err
	}
	common.Log.Debug("docstore: saved %s (%d bytes)", docID, len(content))
	return docID, nil
}

// Read validates docID and returns the current bytes on disk.
func (s *Store) Read(docID string) ([]byte, error) {
	if err := pdfid.Validate(docID); err != nil {
		return nil, err
	}
	path := s.Path(docID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return os.ReadFile(path)
}

// Exists reports whether docID resolves to a file on disk, without
// validating the id's shape.
func (s *Store) Exists(docID string) bool {
	_, err := os.Stat(s.Path(docID))
	return err == nil
}

// Write overwrites the document's bytes in place (used by incremental and
// full saves alike, and by undo/redo restores).
func (s *Store) Write(docID string, content []byte) error {
	if err := pdfid.Validate(docID); err != nil {
		return err
	}
	return os.WriteFile(s.Path(docID), content, 0o644)
}
