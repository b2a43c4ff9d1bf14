package parser

import "github.com/quillhq/searchql/ast"

// comparisonOperatorTokens excludes "!=", which is consumed for every key
// regardless of predicateTextOperator and is tried unconditionally below.
var comparisonOperatorTokens = [...]string{">=", "<=", ">", "<", "="}

// parseOperatorToken consumes an operator token at the cursor. "!=" is
// always admissible; the rest of the comparison set is only consumed
// when allowComparison holds, so that a key which doesn't satisfy
// predicateTextOperator never has a stray ">"/"<"/"=" stripped off the
// front of what is really its text value (message:>5 stays the text
// filter ">5", not a Text filter with a ">" operator it can't carry).
func (p *parser) parseOperatorToken(allowComparison bool) string {
	if p.c.matchLiteral("!=") {
		return "!="
	}
	if !allowComparison {
		return ""
	}
	for _, op := range comparisonOperatorTokens {
		if p.c.matchLiteral(op) {
			return op
		}
	}
	return ""
}

// attemptFilter tries to parse a Filter at the cursor. A term only
// commits to being a filter once a key is found AND immediately
// followed by ':' — a bare key with no colon is always free text, never
// a keyless filter.
func (p *parser) attemptFilter() (*ast.Filter, bool) {
	start := p.c.pos
	diagsAtStart := len(p.diags)

	negated := false
	if p.c.peek() == '!' {
		negated = true
		p.c.advance()
	}

	key, ok := p.parseKey()
	if !ok || p.c.peek() != ':' {
		p.c.pos = start
		p.diags = p.diags[:diagsAtStart]
		return nil, false
	}
	p.c.advance() // ':'

	gates := computeGates(key, p.cfg)
	operator := p.parseOperatorToken(allowsComparisonOperator(key, gates, p.cfg))
	val := p.parseValue(gates)
	filterType := classifyFilterType(key, val, operator)

	raw := p.c.src[start:p.c.pos]
	return &ast.Filter{
		Pos:        loc(start, p.c.pos),
		Raw:        raw,
		FilterType: filterType,
		Key:        key,
		Value:      val,
		Operator:   operator,
		Negated:    negated,
	}, true
}
