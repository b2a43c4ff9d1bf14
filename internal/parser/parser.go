package parser

import (
	"strings"

	"github.com/quillhq/searchql/ast"
	"github.com/quillhq/searchql/catalog"
)

type parser struct {
	c     *cursor
	cfg   *catalog.Config
	diags []SyntaxError
}

func (p *parser) addDiag(offset int, format string, args ...any) {
	p.diags = append(p.diags, newSyntaxError(offset, format, args...))
}

// Parse parses input into a Document. It never fails: malformed
// sub-expressions recover as free text, and diagnostics are discarded.
// Use ParseDiagnostic to retain them.
func Parse(input string, cfg *catalog.Config) *ast.Document {
	doc, _ := ParseDiagnostic(input, cfg)
	return doc
}

// ParseDiagnostic parses input into a Document and also returns any
// recovered syntax errors encountered along the way.
func ParseDiagnostic(input string, cfg *catalog.Config) (*ast.Document, []SyntaxError) {
	p := &parser{c: newCursor(input), cfg: cfg}
	doc := p.parseDocument()
	return doc, p.diags
}

func (p *parser) parseDocument() *ast.Document {
	terms := []ast.Node{}
	for !p.c.eof() {
		terms = append(terms, p.parseTerm())
	}
	return &ast.Document{Terms: terms}
}

func (p *parser) parseTerm() ast.Node {
	start := p.c.pos

	if isSpace(p.c.peek()) {
		for !p.c.eof() && isSpace(p.c.peek()) {
			p.c.advance()
		}
		return &ast.Spaces{Pos: loc(start, p.c.pos), Raw: p.c.src[start:p.c.pos]}
	}

	if p.c.peek() == '(' {
		return p.parseGroup()
	}

	if p.cfg.AllowsBoolean() {
		if node, ok := p.tryLogicBoolean(); ok {
			return node
		}
	}

	if filter, ok := p.attemptFilter(); ok {
		return filter
	}

	return p.parseFreeText()
}

func (p *parser) parseGroup() *ast.LogicGroup {
	start := p.c.pos
	p.c.advance() // '('
	var terms []ast.Node
	for !p.c.eof() && p.c.peek() != ')' {
		terms = append(terms, p.parseTerm())
	}
	if p.c.peek() == ')' {
		p.c.advance()
	} else {
		p.addDiag(p.c.pos, "expected ')' to close group")
	}
	return &ast.LogicGroup{Pos: loc(start, p.c.pos), Raw: p.c.src[start:p.c.pos], Terms: terms}
}

func (p *parser) tryLogicBoolean() (*ast.LogicBoolean, bool) {
	start := p.c.pos
	for _, word := range [...]string{"AND", "OR"} {
		if raw, ok := p.c.matchWord(word); ok {
			return &ast.LogicBoolean{Pos: loc(start, p.c.pos), Raw: raw, Operator: strings.ToUpper(raw)}, true
		}
	}
	return nil, false
}

func (p *parser) parseFreeText() *ast.FreeText {
	start := p.c.pos
	if p.c.peek() == '"' {
		raw, val := p.parseQuotedRaw()
		return &ast.FreeText{Pos: loc(start, p.c.pos), Raw: raw, Value: val, Quoted: true}
	}
	for !p.c.eof() && !isTermBoundary(p.c.peek()) {
		p.c.advance()
	}
	if p.c.pos == start {
		p.c.advance()
	}
	raw := p.c.src[start:p.c.pos]
	return &ast.FreeText{Pos: loc(start, p.c.pos), Raw: raw, Value: raw, Quoted: false}
}

// parseQuotedRaw consumes a double-quoted literal starting at the
// cursor, honoring backslash escapes of \" and \\. An unterminated
// quote is recovered by treating the rest of the input as the literal's
// contents and recording a diagnostic.
func (p *parser) parseQuotedRaw() (raw, value string) {
	start := p.c.pos
	p.c.advance() // opening quote
	var b strings.Builder
	closed := false
	for !p.c.eof() {
		ch := p.c.peek()
		if ch == '\\' && p.c.pos+1 < len(p.c.src) {
			next := p.c.peekAt(1)
			if next == '"' || next == '\\' {
				b.WriteByte(next)
				p.c.advance()
				p.c.advance()
				continue
			}
		}
		if ch == '"' {
			p.c.advance()
			closed = true
			break
		}
		b.WriteByte(ch)
		p.c.advance()
	}
	if !closed {
		p.addDiag(start, "unterminated quoted string")
	}
	return p.c.src[start:p.c.pos], b.String()
}
