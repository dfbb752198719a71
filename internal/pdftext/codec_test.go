package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayush-Nema/EditPDF/internal/pdfcmap"
)

func TestDecodeSimpleLiteral(t *testing.T) {
	assert.Equal(t, "Hello world", DecodeSimple([]byte("(Hello world)"), "WinAnsiEncoding"))
}

func TestDecodeSimpleLiteralEscapes(t *testing.T) {
	assert.Equal(t, "a(b)c", DecodeSimple([]byte(`(a\(b\)c)`), "WinAnsiEncoding"))
}

func TestDecodeSimpleHex(t *testing.T) {
	assert.Equal(t, "Hi", DecodeSimple([]byte("<4869>"), "WinAnsiEncoding"))
}

func TestDecodeSimpleHexOddLengthPadsTrailingNibble(t *testing.T) {
	// "480" has an odd digit count; the trailing nibble is padded with a
	// "0" to make "4800", decoding to the two bytes 0x48, 0x00.
	assert.Equal(t, "H\x00", DecodeSimple([]byte("<480>"), "WinAnsiEncoding"))
}

func TestEncodeDecodeRoundTripWinAnsi(t *testing.T) {
	text := "Hello there!"
	enc, err := EncodeSimple(text, "WinAnsiEncoding")
	require.NoError(t, err)
	assert.Equal(t, text, DecodeSimple(enc, "WinAnsiEncoding"))
}

func TestEncodeSimpleUnencodableFails(t *testing.T) {
	// U+1F600 (an emoji) has no Windows-1252 codepoint.
	_, err := EncodeSimple("café \U0001F600", "WinAnsiEncoding")
	assert.ErrorIs(t, err, ErrUnencodable)
}

func TestEncodeLiteralEscapesSpecialBytes(t *testing.T) {
	enc, err := EncodeSimple("a(b)c\\d", "WinAnsiEncoding")
	require.NoError(t, err)
	assert.Equal(t, `(a\(b\)c\\d)`, string(enc))
}

func TestCMapDecodeEncodeRoundTrip(t *testing.T) {
	cm := &pdfcmap.CMap{
		Forward:      map[int]string{1: "H", 2: "i"},
		Reverse:      map[string]int{"H": 1, "i": 2},
		BytesPerCode: 1,
	}
	enc, err := EncodeCMap("HiHi", cm)
	require.NoError(t, err)
	assert.Equal(t, "HiHi", DecodeCMap(enc, cm))
}

func TestCMapEncodeTwoByteProducesHexString(t *testing.T) {
	cm := &pdfcmap.CMap{
		Forward:      map[int]string{0x0041: "H"},
		Reverse:      map[string]int{"H": 0x0041},
		BytesPerCode: 2,
	}
	enc, err := EncodeCMap("H", cm)
	require.NoError(t, err)
	assert.Equal(t, "<0041>", string(enc))
}

func TestCMapEncodeUsesCharacterEquivalents(t *testing.T) {
	// The CMap only has a reverse entry for the ASCII apostrophe; encoding
	// a right single quote should fall back to it (spec.md §4.5 table).
	cm := &pdfcmap.CMap{
		Forward:      map[int]string{1: "'"},
		Reverse:      map[string]int{"'": 1},
		BytesPerCode: 1,
	}
	enc, err := EncodeCMap("’", cm)
	require.NoError(t, err)
	assert.Equal(t, "'", DecodeCMap(enc, cm))
}

func TestCMapEncodeUnmappedCharacterFails(t *testing.T) {
	cm := &pdfcmap.CMap{Forward: map[int]string{}, Reverse: map[string]int{}, BytesPerCode: 1}
	_, err := EncodeCMap("x", cm)
	assert.ErrorIs(t, err, ErrUnencodable)
}

func TestCMapDecodeUnmappedSingleByteFallsBackToLiteralCodepoint(t *testing.T) {
	cm := &pdfcmap.CMap{Forward: map[int]string{}, Reverse: map[string]int{}, BytesPerCode: 1}
	assert.Equal(t, "A", DecodeCMap([]byte("<41>"), cm))
}
