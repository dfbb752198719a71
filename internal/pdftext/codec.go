// Package pdftext implements the PDF string codec (spec.md §4.5): decoding
// and re-encoding the literal "(...)" and hex "<...>" string tokens a
// content-stream tokenizer hands back as opaque bytes, either through a
// simple-font byte encoding or through a parsed /ToUnicode CMap.
package pdftext

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/Ayush-Nema/EditPDF/internal/pdfcmap"
)

// ErrUnencodable is returned when text contains a character the target
// encoding or CMap cannot represent.
var ErrUnencodable = errors.New("pdftext: character not representable in target encoding")

// charEquivalents lists visually-interchangeable runes to retry with when a
// character is missing from a CMap's reverse map, e.g. an ASCII apostrophe
// standing in for a typeset right single quote.
var charEquivalents = map[rune][]rune{
	' ':      {0xA0},
	0xA0:     {' '},
	'‘': {'\''},
	'’': {'\''},
	'\'':     {'’', '‘'},
	'“': {'"'},
	'”': {'"'},
	'"':      {'”', '“'},
	'–': {'-'},
	'—': {'-'},
	'-':      {'–', '—'},
}

// rawBytes unescapes a literal "(...)" token or decodes a hex "<...>"
// token into its underlying byte string, without interpreting those bytes
// as any particular character encoding.
func rawBytes(token []byte) ([]byte, bool) {
	switch {
	case len(token) >= 2 && token[0] == '(' && token[len(token)-1] == ')':
		return unescapeLiteral(token[1 : len(token)-1]), true
	case len(token) >= 2 && token[0] == '<' && token[len(token)-1] == '>':
		hexStr := bytes.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, token[1:len(token)-1])
		if len(hexStr)%2 != 0 {
			hexStr = append(hexStr, '0')
		}
		raw, err := hex.DecodeString(string(hexStr))
		if err != nil {
			return nil, false
		}
		return raw, true
	default:
		return nil, false
	}
}

func unescapeLiteral(raw []byte) []byte {
	result := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b != '\\' {
			result = append(result, b)
			continue
		}
		i++
		if i >= len(raw) {
			break
		}
		next := raw[i]
		switch next {
		case 'n':
			result = append(result, '\n')
		case 'r':
			result = append(result, '\r')
		case 't':
			result = append(result, '\t')
		case 'b':
			result = append(result, '\b')
		case 'f':
			result = append(result, '\f')
		case '\\', '(', ')':
			result = append(result, next)
		case '\r', '\n':
			if next == '\r' && i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		default:
			if next >= '0' && next <= '7' {
				octal := []byte{next}
				for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
					i++
					octal = append(octal, raw[i])
				}
				var v int
				fmt.Sscanf(string(octal), "%o", &v)
				result = append(result, byte(v&0xFF))
			} else {
				result = append(result, next)
			}
		}
	}
	return result
}

func literalCodec(encodingName string) encoding.Encoding {
	if encodingName == "MacRomanEncoding" {
		return charmap.Macintosh
	}
	return charmap.Windows1252
}

// DecodeSimple decodes token through a simple font's single-byte encoding
// (WinAnsiEncoding by default, MacRomanEncoding when the font dictionary
// names it), falling back to Latin-1 on any decode failure the way the
// original tool tolerates malformed byte sequences.
func DecodeSimple(token []byte, encodingName string) string {
	raw, ok := rawBytes(token)
	if !ok {
		return ""
	}
	decoded, err := literalCodec(encodingName).NewDecoder().Bytes(raw)
	if err != nil {
		decoded, _ = charmap.ISO8859_1.NewDecoder().Bytes(raw)
	}
	return string(decoded)
}

// EncodeSimple encodes text into an escaped literal "(...)" token using a
// simple font's single-byte encoding.
func EncodeSimple(text, encodingName string) ([]byte, error) {
	raw, err := literalCodec(encodingName).NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnencodable, err)
	}
	return escapeLiteral(raw), nil
}

func escapeLiteral(raw []byte) []byte {
	out := make([]byte, 0, len(raw)+4)
	out = append(out, '(')
	for _, b := range raw {
		switch b {
		case '\\':
			out = append(out, '\\', '\\')
		case '(':
			out = append(out, '\\', '(')
		case ')':
			out = append(out, '\\', ')')
		case '\r':
			out = append(out, '\\', 'r')
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, b)
		}
	}
	out = append(out, ')')
	return out
}

// DecodeCMap decodes token through a parsed /ToUnicode CMap's forward map,
// bytes_per_code bytes at a time, falling back to treating an unmapped
// single byte as its own Latin-1 code point.
func DecodeCMap(token []byte, cm *pdfcmap.CMap) string {
	raw, ok := rawBytes(token)
	if !ok {
		return ""
	}
	bpc := cm.BytesPerCode
	if bpc < 1 {
		bpc = 1
	}
	var out []rune
	for i := 0; i+bpc <= len(raw); i += bpc {
		code := 0
		for k := 0; k < bpc; k++ {
			code = code<<8 | int(raw[i+k])
		}
		if uni, ok := cm.Forward[code]; ok {
			out = append(out, []rune(uni)...)
		} else if bpc == 1 {
			out = append(out, rune(code))
		}
	}
	return string(out)
}

// EncodeCMap encodes text through a parsed /ToUnicode CMap's reverse map,
// retrying unmapped characters against a table of visually-equivalent
// runes (e.g. curly quotes standing in for straight ones) before failing.
// Produces a hex string "<...>" for multi-byte (CID) fonts and an escaped
// literal string "(...)" for single-byte fonts.
func EncodeCMap(text string, cm *pdfcmap.CMap) ([]byte, error) {
	bpc := cm.BytesPerCode
	if bpc < 1 {
		bpc = 1
	}
	raw := make([]byte, 0, len(text)*bpc)
	for _, ch := range text {
		code, ok := cm.Reverse[string(ch)]
		if !ok {
			for _, alt := range charEquivalents[ch] {
				if c, ok2 := cm.Reverse[string(alt)]; ok2 {
					code, ok = c, true
					break
				}
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnencodable, ch)
		}
		for k := bpc - 1; k >= 0; k-- {
			raw = append(raw, byte(code>>(8*k)))
		}
	}
	if bpc > 1 {
		enc := make([]byte, hex.EncodedLen(len(raw)))
		hex.Encode(enc, raw)
		out := make([]byte, 0, len(enc)+2)
		out = append(out, '<')
		out = append(out, bytes.ToUpper(enc)...)
		out = append(out, '>')
		return out, nil
	}
	return escapeLiteral(raw), nil
}
