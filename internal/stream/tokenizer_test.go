package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeOperatorsAndOperands(t *testing.T) {
	toks := Tokenize([]byte("BT /F1 12 Tf (Hello) Tj ET"))
	want := [][]byte{
		[]byte("BT"), []byte("/F1"), []byte("12"), []byte("Tf"),
		[]byte("(Hello)"), []byte("Tj"), []byte("ET"),
	}
	require.Len(t, toks, len(want))
	for i := range want {
		assert.Equal(t, string(want[i]), string(toks[i]))
	}
}

func TestTokenizeLiteralStringEscapesAndNesting(t *testing.T) {
	toks := Tokenize([]byte(`(a \(nested\) b) Tj`))
	require.Len(t, toks, 2)
	assert.Equal(t, `(a \(nested\) b)`, string(toks[0]))
}

func TestTokenizeHexString(t *testing.T) {
	toks := Tokenize([]byte("<48656C6C6F> Tj"))
	require.Len(t, toks, 2)
	assert.Equal(t, "<48656C6C6F>", string(toks[0]))
}

func TestTokenizeArrayWithNestedStrings(t *testing.T) {
	toks := Tokenize([]byte(`[(Hi) -250 (there)] TJ`))
	require.Len(t, toks, 2)
	assert.Equal(t, `[(Hi) -250 (there)]`, string(toks[0]))
	assert.Equal(t, "TJ", string(toks[1]))
}

func TestTokenizeArrayWithBracketInsideString(t *testing.T) {
	// A "]" inside a literal string must not terminate the array early.
	toks := Tokenize([]byte(`[(a]b)] TJ`))
	require.Len(t, toks, 2)
	assert.Equal(t, `[(a]b)]`, string(toks[0]))
}

func TestTokenizeDictDelimiters(t *testing.T) {
	toks := Tokenize([]byte("<< /Type /Font >>"))
	want := []string{"<<", "/Type", "/Font", ">>"}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w, string(toks[i]))
	}
}

func TestTokenizeCommentsAreDropped(t *testing.T) {
	toks := Tokenize([]byte("BT % a comment\n/F1 1 Tf ET"))
	var s []string
	for _, tok := range toks {
		s = append(s, string(tok))
	}
	assert.Equal(t, []string{"BT", "/F1", "1", "Tf", "ET"}, s)
}

// TestTokenizeIdempotence checks spec.md §8's "Tokenizer idempotence":
// joining tokens with single spaces and re-tokenizing reproduces the same
// token sequence.
func TestTokenizeIdempotence(t *testing.T) {
	cases := []string{
		"BT /F1 12 Tf (Hello world) Tj ET",
		`q 1 0 0 1 10 20 cm /Im1 Do Q`,
		`[(a) -100 (b) 50 (c)] TJ`,
		"<< /Length 10 >> stream",
	}
	for _, c := range cases {
		first := Tokenize([]byte(c))
		joined := bytes.Join(first, []byte(" "))
		second := Tokenize(joined)
		require.Equal(t, len(first), len(second), "case %q", c)
		for i := range first {
			assert.Equal(t, string(first[i]), string(second[i]), "case %q token %d", c, i)
		}
	}
}
