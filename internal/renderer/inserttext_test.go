package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayush-Nema/EditPDF/internal/base14"
)

func TestEscapeLiteralBytesEscapesParensAndBackslash(t *testing.T) {
	out := escapeLiteralBytes([]byte(`a(b)c\d`))
	assert.Equal(t, `a\(b\)c\\d`, string(out))
}

func TestEscapeLiteralBytesLeavesPlainTextAlone(t *testing.T) {
	out := escapeLiteralBytes([]byte("Hello world"))
	assert.Equal(t, "Hello world", string(out))
}

func TestEscapeLiteralBytesEmptyInput(t *testing.T) {
	out := escapeLiteralBytes(nil)
	assert.Equal(t, "", string(out))
}

func TestWrapToWidthFitsOnOneLineWhenShort(t *testing.T) {
	font, err := base14.NewFont("helv")
	require.NoError(t, err)
	lines := wrapToWidth(font, "Hi", 12, 1000)
	assert.Equal(t, []string{"Hi"}, lines)
}

func TestWrapToWidthBreaksOnSpaceBeforeLimit(t *testing.T) {
	font, err := base14.NewFont("cour")
	require.NoError(t, err)
	width := lineWidthOf(font, []rune("aaa bbb"), 12)
	lines := wrapToWidth(font, "aaa bbb ccc", 12, width)
	require.Len(t, lines, 2)
	assert.Equal(t, "aaa", lines[0])
	assert.Equal(t, "bbb ccc", lines[1])
}

func TestWrapToWidthZeroWidthReturnsSingleLine(t *testing.T) {
	font, err := base14.NewFont("helv")
	require.NoError(t, err)
	lines := wrapToWidth(font, "unchanged", 12, 0)
	assert.Equal(t, []string{"unchanged"}, lines)
}
