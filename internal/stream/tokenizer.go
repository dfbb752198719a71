// Package stream implements the content-stream byte tokenizer (spec.md
// §4.2): splitting a decoded content stream into opaque byte tokens while
// keeping literal strings, hex strings, and arrays intact as single
// tokens. Whitespace and comments are dropped, so re-joining the tokens
// with single spaces does not reproduce the original bytes, but it yields
// a stream that tokenizes back to the same token sequence.
package stream

// Tokenize splits raw into a sequence of opaque tokens. Operators,
// numbers, and names come back as plain runs of non-delimiter bytes;
// "(...)" literal strings, "<...>" hex strings, and "[...]" arrays come
// back whole, including any escape sequences or nested strings they
// contain; "<<" and ">>" dictionary delimiters come back as their own
// two-byte tokens.
func Tokenize(raw []byte) [][]byte {
	var tokens [][]byte
	i, n := 0, len(raw)

	isSpace := func(b byte) bool {
		switch b {
		case ' ', '\t', '\r', '\n', 0x00, 0x0c:
			return true
		}
		return false
	}
	isDelim := func(b byte) bool {
		switch b {
		case ' ', '\t', '\r', '\n', 0x00, 0x0c, '(', ')', '<', '>', '[', ']', '/', '%':
			return true
		}
		return false
	}

	for i < n {
		ch := raw[i]

		if isSpace(ch) {
			i++
			continue
		}

		if ch == '%' {
			for i < n && raw[i] != '\r' && raw[i] != '\n' {
				i++
			}
			continue
		}

		if ch == '(' {
			start := i
			i++
			depth := 1
			for i < n && depth > 0 {
				c := raw[i]
				if c == '\\' {
					i += 2
					continue
				}
				if c == '(' {
					depth++
				} else if c == ')' {
					depth--
				}
				i++
			}
			if i > n {
				i = n
			}
			tokens = append(tokens, raw[start:i])
			continue
		}

		if ch == '<' && (i+1 >= n || raw[i+1] != '<') {
			start := i
			i++
			for i < n && raw[i] != '>' {
				i++
			}
			i++
			if i > n {
				i = n
			}
			tokens = append(tokens, raw[start:i])
			continue
		}

		if ch == '<' && i+1 < n && raw[i+1] == '<' {
			tokens = append(tokens, raw[i:i+2])
			i += 2
			continue
		}
		if ch == '>' && i+1 < n && raw[i+1] == '>' {
			tokens = append(tokens, raw[i:i+2])
			i += 2
			continue
		}

		if ch == '[' {
			start := i
			i++
			depth := 1
			for i < n && depth > 0 {
				c := raw[i]
				switch {
				case c == '(':
					i++
					strDepth := 1
					for i < n && strDepth > 0 {
						sc := raw[i]
						if sc == '\\' {
							i += 2
							continue
						}
						if sc == '(' {
							strDepth++
						} else if sc == ')' {
							strDepth--
						}
						i++
					}
					continue
				case c == '<' && (i+1 >= n || raw[i+1] != '<'):
					i++
					for i < n && raw[i] != '>' {
						i++
					}
					i++
					continue
				case c == '[':
					depth++
					i++
				case c == ']':
					depth--
					i++
				default:
					i++
				}
			}
			if i > n {
				i = n
			}
			tokens = append(tokens, raw[start:i])
			continue
		}

		start := i
		for i < n && !isDelim(raw[i]) {
			i++
		}
		if i == start && ch == '/' {
			i++
			for i < n && !isDelim(raw[i]) {
				i++
			}
		}
		if i > start {
			tokens = append(tokens, raw[start:i])
		} else {
			// Stray delimiter with no handler above (e.g. bare ']'); emit
			// it as a one-byte token so the scan always advances.
			tokens = append(tokens, raw[i:i+1])
			i++
		}
	}

	return tokens
}
