package parser

import "github.com/quillhq/searchql/ast"

// parseKey attempts to parse a Key at the cursor's current position. It
// reports false and leaves the cursor untouched if the position does
// not start a key at all (callers fall back to free text).
func (p *parser) parseKey() (ast.Key, bool) {
	start := p.c.pos
	if p.c.matchLiteral("tags[") {
		key, ok := p.finishExplicitTag(start)
		if !ok {
			p.c.pos = start
		}
		return key, ok
	}

	simple, ok := p.parseKeySimpleToken()
	if !ok {
		p.c.pos = start
		return nil, false
	}

	save := p.c.pos
	spaceBefore := p.c.skipSpaces()
	if p.c.peek() == '(' {
		return p.finishAggregate(start, simple, spaceBefore)
	}
	p.c.pos = save
	return simple, true
}

func (p *parser) parseKeySimpleToken() (ast.KeySimple, bool) {
	start := p.c.pos
	if p.c.peek() == '"' {
		raw, value := p.parseQuotedRaw()
		return ast.KeySimple{Pos: ast.Location{Start: start, End: p.c.pos}, Raw: raw, Value: value, Quoted: true}, true
	}
	if !isKeyStart(p.c.peek()) {
		return ast.KeySimple{}, false
	}
	for !p.c.eof() && isKeyChar(p.c.peek()) {
		p.c.advance()
	}
	raw := p.c.src[start:p.c.pos]
	return ast.KeySimple{Pos: ast.Location{Start: start, End: p.c.pos}, Raw: raw, Value: raw, Quoted: false}, true
}

func (p *parser) finishExplicitTag(start int) (ast.Key, bool) {
	inner, ok := p.parseKeySimpleToken()
	if !ok {
		return nil, false
	}
	if p.c.peek() == ']' {
		p.c.advance()
	} else {
		p.addDiag(p.c.pos, "expected ']' to close tags[...] key")
	}
	raw := p.c.src[start:p.c.pos]
	return ast.KeyExplicitTag{Pos: ast.Location{Start: start, End: p.c.pos}, Raw: raw, Prefix: "tags", Key: inner}, true
}

func (p *parser) finishAggregate(start int, fn ast.KeySimple, spaceBefore bool) (ast.Key, bool) {
	parenStart := p.c.pos
	p.c.advance() // consume '('

	var args []ast.KeyAggregateArg
	first := true
	spaceAfter := false
	for {
		trailing := p.c.skipSpaces()
		if p.c.eof() || p.c.peek() == ')' {
			spaceAfter = trailing
			break
		}
		sep := ""
		if !first {
			if p.c.peek() != ',' {
				break
			}
			sepStart := p.c.pos
			p.c.advance()
			p.c.skipSpaces()
			sep = p.c.src[sepStart:p.c.pos]
		}
		param, ok := p.parseAggregateParam()
		if !ok {
			break
		}
		args = append(args, ast.KeyAggregateArg{Separator: sep, Value: param})
		first = false
	}

	if p.c.peek() == ')' {
		p.c.advance()
	} else {
		p.addDiag(p.c.pos, "expected ')' to close aggregate key %q", fn.Value)
	}

	argsNode := &ast.KeyAggregateArgs{
		Pos:  ast.Location{Start: parenStart, End: p.c.pos},
		Raw:  p.c.src[parenStart:p.c.pos],
		Args: args,
	}
	raw := p.c.src[start:p.c.pos]
	return ast.KeyAggregate{
		Pos:         ast.Location{Start: start, End: p.c.pos},
		Raw:         raw,
		Func:        fn,
		Args:        argsNode,
		SpaceBefore: spaceBefore,
		SpaceAfter:  spaceAfter,
	}, true
}

func (p *parser) parseAggregateParam() (ast.KeyAggregateParam, bool) {
	start := p.c.pos
	if p.c.peek() == '"' {
		raw, value := p.parseQuotedRaw()
		return ast.KeyAggregateParam{Pos: ast.Location{Start: start, End: p.c.pos}, Raw: raw, Value: value, Quoted: true}, true
	}
	for !p.c.eof() {
		b := p.c.peek()
		if b == ',' || b == ')' || isSpace(b) {
			break
		}
		p.c.advance()
	}
	if p.c.pos == start {
		return ast.KeyAggregateParam{}, false
	}
	raw := p.c.src[start:p.c.pos]
	return ast.KeyAggregateParam{Pos: ast.Location{Start: start, End: p.c.pos}, Raw: raw, Value: raw, Quoted: false}, true
}
