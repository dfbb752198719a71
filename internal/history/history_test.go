package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayush-Nema/EditPDF/internal/docstore"
)

func newTestStore(t *testing.T) (*docstore.Store, *Store) {
	t.Helper()
	docs, err := docstore.New(t.TempDir())
	require.NoError(t, err)
	return docs, New(docs)
}

// TestUndoRestoresExactBytes covers spec.md §8 scenario 6: undo restores
// the document to byte-identical content as before the edit.
func TestUndoRestoresExactBytes(t *testing.T) {
	docs, h := newTestStore(t)
	docID, err := docs.Save([]byte("version one"))
	require.NoError(t, err)

	require.NoError(t, h.SnapshotBefore(docID))
	require.NoError(t, docs.Write(docID, []byte("version two")))

	ok, err := h.Undo(docID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := docs.Read(docID)
	require.NoError(t, err)
	assert.Equal(t, "version one", string(got))
}

func TestUndoWithNothingToUndoReturnsFalse(t *testing.T) {
	docs, h := newTestStore(t)
	docID, err := docs.Save([]byte("only version"))
	require.NoError(t, err)

	ok, err := h.Undo(docID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedoReappliesUndoneMutation(t *testing.T) {
	docs, h := newTestStore(t)
	docID, err := docs.Save([]byte("version one"))
	require.NoError(t, err)

	require.NoError(t, h.SnapshotBefore(docID))
	require.NoError(t, docs.Write(docID, []byte("version two")))
	ok, err := h.Undo(docID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Redo(docID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := docs.Read(docID)
	require.NoError(t, err)
	assert.Equal(t, "version two", string(got))
}

func TestRedoWithNothingToRedoReturnsFalse(t *testing.T) {
	docs, h := newTestStore(t)
	docID, err := docs.Save([]byte("version one"))
	require.NoError(t, err)

	ok, err := h.Redo(docID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotBeforeClearsRedoStack(t *testing.T) {
	docs, h := newTestStore(t)
	docID, err := docs.Save([]byte("version one"))
	require.NoError(t, err)

	require.NoError(t, h.SnapshotBefore(docID))
	require.NoError(t, docs.Write(docID, []byte("version two")))
	ok, err := h.Undo(docID)
	require.NoError(t, err)
	require.True(t, ok)

	// A fresh edit after an undo should drop the redo stack (spec.md §6:
	// a new mutation invalidates any previously undone state).
	require.NoError(t, h.SnapshotBefore(docID))
	require.NoError(t, docs.Write(docID, []byte("version three")))

	ok, err = h.Redo(docID)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestUndoStackIsBoundedAtMaxUndo covers spec.md §6's "MAX_UNDO = 20": the
// oldest snapshot is discarded once the bound is exceeded.
func TestUndoStackIsBoundedAtMaxUndo(t *testing.T) {
	docs, h := newTestStore(t)
	docID, err := docs.Save([]byte("version 0"))
	require.NoError(t, err)

	for i := 1; i <= MaxUndo+5; i++ {
		require.NoError(t, h.SnapshotBefore(docID))
		require.NoError(t, docs.Write(docID, []byte(versionLabel(i))))
	}

	undone := 0
	for {
		ok, err := h.Undo(docID)
		require.NoError(t, err)
		if !ok {
			break
		}
		undone++
	}
	assert.Equal(t, MaxUndo, undone)
}

func versionLabel(i int) string {
	return "version " + string(rune('a'+i))
}

func TestWithLockRunsFn(t *testing.T) {
	_, h := newTestStore(t)
	called := false
	err := h.WithLock("0123456789abcdef", func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
