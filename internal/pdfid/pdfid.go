// Package pdfid validates and mints the document handles used at every
// entry point of the editing API (spec.md §3 "Document handle").
package pdfid

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"

	"github.com/google/uuid"
)

// ErrInvalidID is returned whenever a caller-supplied id does not match the
// 16-lowercase-hex-character shape.
var ErrInvalidID = errors.New("invalid document id")

var idPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// Validate rejects any id that isn't exactly 16 lowercase hex characters,
// the same path-traversal guard the original backend applies before ever
// touching the filesystem.
func Validate(id string) error {
	if !idPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// New derives a document id from the uploaded content: a 12-hex-character
// prefix of its SHA-256 hash plus a 4-hex-character random suffix, so
// re-uploading the same bytes is unlikely to collide with a document that
// has already been edited.
func New(content []byte) string {
	sum := sha256.Sum256(content)
	prefix := hex.EncodeToString(sum[:])[:12]
	suffix := uuid.NewString()[:4]
	return prefix + suffix
}
