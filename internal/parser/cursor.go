// Package parser implements the hand-written recursive-descent grammar
// that turns a raw query string into an *ast.Document. The grammar is
// not declared with a parser-combinator library: the semantic predicate
// layer (see classify.go) must consult a caller-supplied *catalog.Config
// at nearly every value-shape decision point, and threading that
// dependency through cleanly requires direct control over the descent
// rather than a struct-tag-declared grammar (see DESIGN.md).
package parser

// cursor is a byte-offset scanning position into the source query. All
// AST Location spans are byte offsets into this same string, so the
// cursor never decodes runes; multi-byte UTF-8 sequences pass through
// untouched as opaque byte runs.
type cursor struct {
	src string
	pos int
}

func newCursor(src string) *cursor {
	return &cursor{src: src}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *cursor) peekAt(offset int) byte {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

func (c *cursor) advance() byte {
	b := c.src[c.pos]
	c.pos++
	return b
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isKeyStart(b byte) bool {
	return isAlpha(b) || b == '_'
}

func isKeyChar(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_' || b == '.' || b == '-'
}

// isTermBoundary reports whether b ends a bare token: whitespace, the
// group delimiters '(' and ')', or the 0 byte peek returns at end of input.
func isTermBoundary(b byte) bool {
	if b == 0 {
		return true
	}
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f', '(', ')':
		return true
	default:
		return false
	}
}

// skipSpaces advances over a run of whitespace and reports whether any
// was consumed.
func (c *cursor) skipSpaces() bool {
	start := c.pos
	for !c.eof() && isSpace(c.peek()) {
		c.pos++
	}
	return c.pos > start
}

// matchLiteral consumes lit case-sensitively if it occurs at the cursor,
// returning whether it matched.
func (c *cursor) matchLiteral(lit string) bool {
	if c.pos+len(lit) > len(c.src) {
		return false
	}
	if c.src[c.pos:c.pos+len(lit)] != lit {
		return false
	}
	c.pos += len(lit)
	return true
}

// matchWord consumes word (case-insensitive, ASCII) if it occurs at the
// cursor and is followed by a word boundary, returning the exact source
// text matched.
func (c *cursor) matchWord(word string) (string, bool) {
	if c.pos+len(word) > len(c.src) {
		return "", false
	}
	candidate := c.src[c.pos : c.pos+len(word)]
	if !equalFoldASCII(candidate, word) {
		return "", false
	}
	next := byte(0)
	if c.pos+len(word) < len(c.src) {
		next = c.src[c.pos+len(word)]
	}
	if isKeyChar(next) {
		return "", false
	}
	c.pos += len(word)
	return candidate, true
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
