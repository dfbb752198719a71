// Package replace implements the two-pass content-stream replacement
// driver (spec.md §4.6): given a page's tokenized content stream, find the
// first occurrence of targetText exactly and swap in newText, preserving
// every other token untouched.
package replace

import (
	"strings"

	"github.com/Ayush-Nema/EditPDF/internal/fontres"
	"github.com/Ayush-Nema/EditPDF/internal/pdftext"
	"github.com/Ayush-Nema/EditPDF/internal/stream"
)

// Result reports whether a replacement happened and, if so, the rewritten
// token stream.
type Result struct {
	Replaced bool
	Tokens   [][]byte
}

// Apply walks tokens looking for targetText, first as a single Tj/TJ
// operand (pass 1), then as the concatenated text of a whole BT/ET block
// (pass 2). It returns the first match found, leaving any font skipped by
// the resolver's ModeSkip verdict untouched so unrelated text later in the
// stream can still match.
func Apply(tokens [][]byte, resolver *fontres.Resolver, targetText, newText string) (Result, error) {
	if strings.Contains(targetText, "\n") {
		// A multi-line span crosses BT/ET block boundaries; neither pass
		// can match it, so go straight to the redact-and-reinsert fallback
		// (spec.md §4.6 "tie-breaks and edge cases").
		return Result{Replaced: false, Tokens: tokens}, nil
	}
	target := strings.TrimSpace(targetText)

	if out, ok := applySingleOperand(tokens, resolver, target, newText); ok {
		return Result{Replaced: true, Tokens: out}, nil
	}
	if out, ok := applyBlock(tokens, resolver, target, newText); ok {
		return Result{Replaced: true, Tokens: out}, nil
	}
	return Result{Replaced: false, Tokens: tokens}, nil
}

func isString(tok []byte) bool {
	return len(tok) >= 2 && (tok[0] == '(' || tok[0] == '<')
}

func isArray(tok []byte) bool {
	return len(tok) >= 2 && tok[0] == '[' && tok[len(tok)-1] == ']'
}

func fontTag(tok []byte) (string, bool) {
	if len(tok) < 2 || tok[0] != '/' {
		return "", false
	}
	return string(tok[1:]), true
}

func decodeString(tok []byte, res *fontres.Resolution) string {
	if res.Mode == fontres.ModeCMap {
		return pdftext.DecodeCMap(tok, res.CMap)
	}
	return pdftext.DecodeSimple(tok, res.Encoding)
}

func encodeString(text string, res *fontres.Resolution) ([]byte, error) {
	if res.Mode == fontres.ModeCMap {
		return pdftext.EncodeCMap(text, res.CMap)
	}
	return pdftext.EncodeSimple(text, res.Encoding)
}

// applySingleOperand is pass 1: a bare (text) Tj or [...] TJ whose full
// decoded text matches target.
func applySingleOperand(tokens [][]byte, resolver *fontres.Resolver, target, newText string) ([][]byte, bool) {
	var current *fontres.Resolution

	for i, tok := range tokens {
		if string(tok) == "Tf" && i >= 2 {
			if tag, ok := fontTag(tokens[i-2]); ok {
				current = resolver.Resolve(tag)
			}
		}
		if current != nil && current.Mode == fontres.ModeSkip {
			continue
		}

		if string(tok) == "Tj" && i >= 1 && isString(tokens[i-1]) {
			decoded := strings.TrimSpace(decodeString(tokens[i-1], orDirect(current)))
			if decoded == target {
				enc, err := encodeString(newText, orDirect(current))
				if err != nil {
					return nil, false
				}
				out := cloneTokens(tokens)
				out[i-1] = enc
				return out, true
			}
		}

		if string(tok) == "TJ" && i >= 1 && isArray(tokens[i-1]) {
			parts := extractTJStrings(tokens[i-1])
			if len(parts) == 0 {
				continue
			}
			var full strings.Builder
			for _, p := range parts {
				full.WriteString(decodeString(p, orDirect(current)))
			}
			if strings.TrimSpace(full.String()) == target {
				enc, err := encodeString(newText, orDirect(current))
				if err != nil {
					return nil, false
				}
				out := cloneTokens(tokens)
				out[i-1] = append(append([]byte{'['}, enc...), ']')
				return out, true
			}
		}
	}
	return nil, false
}

// blockOp records where in tokens a Tj/TJ operand sits inside the BT/ET
// block currently being accumulated.
type blockOp struct {
	isArray bool
	index   int
}

// applyBlock is pass 2: text split across multiple Tj/TJ operators within
// one BT/ET block, matched by concatenating their decoded text.
func applyBlock(tokens [][]byte, resolver *fontres.Resolver, target, newText string) ([][]byte, bool) {
	var current *fontres.Resolution
	var inBT bool
	var blockText strings.Builder
	var blockRes *fontres.Resolution
	var blockUnsafe bool
	var fontChanges int
	var ops []blockOp

	for i, tok := range tokens {
		switch string(tok) {
		case "BT":
			inBT = true
			blockText.Reset()
			blockRes = current
			blockUnsafe = current != nil && current.Mode == fontres.ModeSkip
			fontChanges = 0
			ops = nil
			continue
		}

		if !inBT {
			if string(tok) == "Tf" && i >= 2 {
				if tag, ok := fontTag(tokens[i-2]); ok {
					current = resolver.Resolve(tag)
				}
			}
			continue
		}

		if string(tok) == "Tf" && i >= 2 {
			if tag, ok := fontTag(tokens[i-2]); ok {
				fontChanges++
				res := resolver.Resolve(tag)
				if res.Mode == fontres.ModeSkip {
					blockUnsafe = true
				} else {
					blockRes = res
				}
			}
		}

		if !blockUnsafe {
			if string(tok) == "Tj" && i >= 1 && isString(tokens[i-1]) {
				blockText.WriteString(decodeString(tokens[i-1], orDirect(blockRes)))
				ops = append(ops, blockOp{isArray: false, index: i - 1})
			} else if string(tok) == "TJ" && i >= 1 && isArray(tokens[i-1]) {
				for _, p := range extractTJStrings(tokens[i-1]) {
					blockText.WriteString(decodeString(p, orDirect(blockRes)))
				}
				ops = append(ops, blockOp{isArray: true, index: i - 1})
			}
		}

		if string(tok) == "ET" {
			inBT = false
			if blockUnsafe || fontChanges > 1 || len(ops) == 0 {
				continue
			}
			if strings.TrimSpace(blockText.String()) != target {
				continue
			}
			enc, err := encodeString(newText, orDirect(blockRes))
			if err != nil {
				return nil, false
			}
			out := cloneTokens(tokens)
			first := ops[0]
			if first.isArray {
				out[first.index] = append(append([]byte{'['}, enc...), ']')
			} else {
				out[first.index] = enc
			}
			for _, op := range ops[1:] {
				if op.isArray {
					out[op.index] = []byte("[()]")
				} else {
					out[op.index] = []byte("()")
				}
			}
			return out, true
		}
	}
	return nil, false
}

func orDirect(res *fontres.Resolution) *fontres.Resolution {
	if res == nil {
		return &fontres.Resolution{Mode: fontres.ModeDirect}
	}
	return res
}

func cloneTokens(tokens [][]byte) [][]byte {
	out := make([][]byte, len(tokens))
	copy(out, tokens)
	return out
}

// extractTJStrings pulls the individual string tokens out of a "[...]" TJ
// array token, skipping the numeric kerning adjustments between them.
func extractTJStrings(arrTok []byte) [][]byte {
	if len(arrTok) < 2 {
		return nil
	}
	inner := stream.Tokenize(arrTok[1 : len(arrTok)-1])
	var out [][]byte
	for _, t := range inner {
		if isString(t) {
			out = append(out, t)
		}
	}
	return out
}
