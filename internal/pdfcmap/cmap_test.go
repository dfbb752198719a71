package pdfcmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBfchar(t *testing.T) {
	stream := []byte(`
/CIDInit /ProcSet findresource begin
1 begincodespacerange
<00> <FF>
endcodespacerange
1 beginbfchar
<01> <0048>
<02> <0069>
endbfchar
`)
	cm := Parse(stream)
	require.NotNil(t, cm)
	assert.Equal(t, 1, cm.BytesPerCode)
	assert.Equal(t, "H", cm.Forward[1])
	assert.Equal(t, "i", cm.Forward[2])
	assert.Equal(t, 1, cm.Reverse["H"])
	assert.Equal(t, 2, cm.Reverse["i"])
}

func TestParseBfrangeArrayForm(t *testing.T) {
	stream := []byte(`
1 beginbfrange
<0001> <0003> [<0048> <0069> <0021>]
endbfrange
`)
	cm := Parse(stream)
	require.NotNil(t, cm)
	assert.Equal(t, "H", cm.Forward[1])
	assert.Equal(t, "i", cm.Forward[2])
	assert.Equal(t, "!", cm.Forward[3])
}

func TestParseBfrangeSimpleForm(t *testing.T) {
	stream := []byte(`
1 beginbfrange
<0041> <0043> <0061>
endbfrange
`)
	cm := Parse(stream)
	require.NotNil(t, cm)
	assert.Equal(t, "a", cm.Forward[0x41])
	assert.Equal(t, "b", cm.Forward[0x42])
	assert.Equal(t, "c", cm.Forward[0x43])
}

// TestParseBfrangeArrayFormDoesNotLeakIntoSimpleForm guards spec.md §4.4's
// "the simple form must be matched only on text remaining after array-form
// matches are removed" rule: the bracketed hex values inside an array-form
// range must not also be picked up as a bogus simple-form start/end/value
// triple.
func TestParseBfrangeArrayFormDoesNotLeakIntoSimpleForm(t *testing.T) {
	stream := []byte(`
1 beginbfrange
<0001> <0002> [<0048> <0069>]
endbfrange
`)
	cm := Parse(stream)
	require.NotNil(t, cm)
	assert.Len(t, cm.Forward, 2)
}

func TestParseTwoByteCodesSetsBytesPerCode(t *testing.T) {
	stream := []byte(`
1 beginbfchar
<0041> <0042>
endbfchar
`)
	cm := Parse(stream)
	require.NotNil(t, cm)
	assert.Equal(t, 2, cm.BytesPerCode)
}

func TestParseDuplicateCodepointKeepsFirstInReverse(t *testing.T) {
	stream := []byte(`
1 beginbfchar
<01> <0041>
<02> <0041>
endbfchar
`)
	cm := Parse(stream)
	require.NotNil(t, cm)
	assert.Equal(t, 1, cm.Reverse["A"])
}

func TestParseEmptyStreamReturnsNil(t *testing.T) {
	assert.Nil(t, Parse([]byte("totally unrelated bytes")))
}
