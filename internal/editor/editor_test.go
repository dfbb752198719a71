package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayush-Nema/EditPDF/internal/docstore"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	docs, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	return New(docs)
}

func TestUploadRejectsGarbageBytes(t *testing.T) {
	ed := newTestEditor(t)
	_, err := ed.Upload([]byte("not a pdf at all"))
	assert.ErrorIs(t, err, ErrInvalidPdf)
}

func TestUploadRejectsOversizeContent(t *testing.T) {
	ed := newTestEditor(t)
	oversized := make([]byte, docstore.MaxUploadSize+1)
	_, err := ed.Upload(oversized)
	// renderer.Open runs (and fails) before the size check, so garbage
	// content this large still surfaces as an invalid-PDF error rather
	// than ErrOversize; only a well-formed oversize PDF would reach the
	// store's own size guard.
	assert.Error(t, err)
}

func TestDownloadUnknownDocReturnsNotFound(t *testing.T) {
	ed := newTestEditor(t)
	_, err := ed.Download("0123456789abcdef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadInvalidIDReturnsInvalidID(t *testing.T) {
	ed := newTestEditor(t)
	_, err := ed.Download("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestEditSpanRejectsInvalidID(t *testing.T) {
	ed := newTestEditor(t)
	err := ed.EditSpan(EditRequest{DocID: "not-valid", Page: 0, SpanIndex: 0, NewText: "x"})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestUndoRejectsInvalidID(t *testing.T) {
	ed := newTestEditor(t)
	_, err := ed.Undo("not-valid")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestRedoRejectsInvalidID(t *testing.T) {
	ed := newTestEditor(t)
	_, err := ed.Redo("not-valid")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestPageCountUnknownDocReturnsNotFound(t *testing.T) {
	ed := newTestEditor(t)
	_, err := ed.PageCount("0123456789abcdef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddImageRejectsInvalidID(t *testing.T) {
	ed := newTestEditor(t)
	err := ed.AddImage("not-valid", 1, nil, 0, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDeleteImageRejectsInvalidID(t *testing.T) {
	ed := newTestEditor(t)
	err := ed.DeleteImage("not-valid", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMoveImageRejectsInvalidID(t *testing.T) {
	ed := newTestEditor(t)
	err := ed.MoveImage("not-valid", 1, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestResizeImageRejectsInvalidID(t *testing.T) {
	ed := newTestEditor(t)
	err := ed.ResizeImage("not-valid", 1, 0, 0, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDeleteImageUnknownDocReturnsNotFound(t *testing.T) {
	ed := newTestEditor(t)
	err := ed.DeleteImage("0123456789abcdef", 1, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinTokensSpacesEachToken(t *testing.T) {
	out := joinTokens([][]byte{[]byte("BT"), []byte("/F1"), []byte("12"), []byte("Tf")})
	assert.Equal(t, "BT /F1 12 Tf", out)
}

func TestJoinTokensSingleToken(t *testing.T) {
	out := joinTokens([][]byte{[]byte("ET")})
	assert.Equal(t, "ET", out)
}
