package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/quillhq/searchql/ast"
)

// valueGates records which value shapes the catalog admits for the key
// currently being parsed. A scalar token is tried against each admitted
// shape in a fixed priority order before falling back to plain text.
type valueGates struct {
	numeric    bool
	boolean    bool
	duration   bool
	date       bool
	percentage bool
}

func scalarBoundary(b byte) bool {
	return b == 0 || isSpace(b) || b == '(' || b == ')'
}

func loc(start, end int) ast.Location {
	return ast.Location{Start: start, End: end}
}

// parseValue parses the right-hand side of a filter: either a bracketed
// list or a scalar token, classified against gates.
func (p *parser) parseValue(gates valueGates) ast.Value {
	if p.c.peek() == '[' {
		return p.parseValueList(gates)
	}
	return p.parseScalarValue(gates)
}

func (p *parser) parseScalarValue(gates valueGates) ast.Value {
	start := p.c.pos
	if p.c.peek() == '"' {
		raw, val := p.parseQuotedRaw()
		return ast.ValueText{Pos: loc(start, p.c.pos), Raw: raw, Value: val, Quoted: true}
	}
	for !p.c.eof() && !scalarBoundary(p.c.peek()) {
		p.c.advance()
	}
	raw := p.c.src[start:p.c.pos]
	pos := loc(start, p.c.pos)

	if gates.boolean {
		if v, ok := parseBooleanToken(raw); ok {
			v.Pos, v.Raw = pos, raw
			return v
		}
	}
	if gates.duration {
		if v, ok := parseDurationToken(raw); ok {
			v.Pos, v.Raw = pos, raw
			return v
		}
	}
	if gates.percentage {
		if v, ok := parsePercentageToken(raw); ok {
			v.Pos, v.Raw = pos, raw
			return v
		}
	}
	if gates.date {
		if t, ok := parseIsoDateToken(raw); ok {
			return ast.ValueIso8601Date{Pos: pos, Raw: raw, Value: t}
		}
		if v, ok := parseRelativeDateToken(raw); ok {
			v.Pos, v.Raw = pos, raw
			return v
		}
	}
	if gates.numeric {
		if v, ok := parseNumberValueToken(raw); ok {
			v.Pos, v.Raw = pos, raw
			return v
		}
	}
	return ast.ValueText{Pos: pos, Raw: raw, Value: raw, Quoted: false}
}

type listItem struct {
	sep          string
	start, end   int
	raw, value   string
	quoted       bool
}

func (p *parser) parseValueList(gates valueGates) ast.Value {
	start := p.c.pos
	p.c.advance() // '['

	var items []listItem
	first := true
	for {
		p.c.skipSpaces()
		if p.c.eof() || p.c.peek() == ']' {
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
		itStart := p.c.pos
		var raw, value string
		quoted := false
		if p.c.peek() == '"' {
			raw, value = p.parseQuotedRaw()
			quoted = true
		} else {
			for !p.c.eof() {
				b := p.c.peek()
				if b == ',' || b == ']' || isSpace(b) {
					break
				}
				p.c.advance()
			}
			raw = p.c.src[itStart:p.c.pos]
			value = raw
		}
		if raw == "" {
			break
		}
		items = append(items, listItem{sep: sep, start: itStart, end: p.c.pos, raw: raw, value: value, quoted: quoted})
		first = false
	}

	if p.c.peek() == ']' {
		p.c.advance()
	} else {
		p.addDiag(p.c.pos, "expected ']' to close value list")
	}
	raw := p.c.src[start:p.c.pos]
	pos := loc(start, p.c.pos)

	if gates.numeric && len(items) > 0 {
		if numItems, ok := allNumberItems(items); ok {
			return ast.ValueNumberList{Pos: pos, Raw: raw, Items: numItems}
		}
	}

	textItems := make([]ast.ValueTextListItem, 0, len(items))
	for _, it := range items {
		textItems = append(textItems, ast.ValueTextListItem{
			Separator: it.sep,
			Value:     ast.ValueText{Pos: loc(it.start, it.end), Raw: it.raw, Value: it.value, Quoted: it.quoted},
		})
	}
	return ast.ValueTextList{Pos: pos, Raw: raw, Items: textItems}
}

func allNumberItems(items []listItem) ([]ast.ValueNumberListItem, bool) {
	out := make([]ast.ValueNumberListItem, 0, len(items))
	for _, it := range items {
		if it.quoted {
			return nil, false
		}
		v, ok := parseNumberValueToken(it.raw)
		if !ok {
			return nil, false
		}
		v.Pos, v.Raw = loc(it.start, it.end), it.raw
		out = append(out, ast.ValueNumberListItem{Separator: it.sep, Value: v})
	}
	return out, true
}

func parseBooleanToken(raw string) (ast.ValueBoolean, bool) {
	switch strings.ToLower(raw) {
	case "1", "true":
		return ast.ValueBoolean{Value: true}, true
	case "0", "false":
		return ast.ValueBoolean{Value: false}, true
	}
	return ast.ValueBoolean{}, false
}

// parseNumberToken splits raw into its digit run and an optional trailing
// k/m/b magnitude suffix, reporting the multiplier that suffix implies.
func parseNumberToken(raw string) (numPart string, multiplier float64, unit string, ok bool) {
	s := raw
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i == digitsStart {
		return "", 0, "", false
	}
	numPart = s[:i]
	multiplier = 1
	if i < len(s) {
		rest := s[i:]
		if i+1 != len(s) {
			return "", 0, "", false
		}
		switch rest {
		case "k", "K":
			unit, multiplier = "k", 1e3
		case "m", "M":
			unit, multiplier = "m", 1e6
		case "b", "B":
			unit, multiplier = "b", 1e9
		default:
			return "", 0, "", false
		}
	}
	return numPart, multiplier, unit, true
}

func parseNumberValueToken(raw string) (ast.ValueNumber, bool) {
	numPart, mult, unit, ok := parseNumberToken(raw)
	if !ok {
		return ast.ValueNumber{}, false
	}
	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return ast.ValueNumber{}, false
	}
	return ast.ValueNumber{Value: numPart, RawValue: f * mult, Unit: unit}, true
}

var durationUnits = []string{"ms", "min", "hr", "day", "wk", "s", "m", "h", "d", "w"}

func parseDurationToken(raw string) (ast.ValueDuration, bool) {
	i := 0
	start := i
	for i < len(raw) && isDigit(raw[i]) {
		i++
	}
	if i < len(raw) && raw[i] == '.' {
		i++
		for i < len(raw) && isDigit(raw[i]) {
			i++
		}
	}
	if i == start {
		return ast.ValueDuration{}, false
	}
	numPart := raw[:i]
	rest := raw[i:]
	matched := ""
	for _, u := range durationUnits {
		if rest == u {
			matched = u
			break
		}
	}
	if matched == "" {
		return ast.ValueDuration{}, false
	}
	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return ast.ValueDuration{}, false
	}
	return ast.ValueDuration{Value: f, Unit: matched}, true
}

func parsePercentageToken(raw string) (ast.ValuePercentage, bool) {
	if len(raw) < 2 || raw[len(raw)-1] != '%' {
		return ast.ValuePercentage{}, false
	}
	f, err := strconv.ParseFloat(raw[:len(raw)-1], 64)
	if err != nil {
		return ast.ValuePercentage{}, false
	}
	return ast.ValuePercentage{Value: f}, true
}

func parseRelativeDateToken(raw string) (ast.ValueRelativeDate, bool) {
	if len(raw) < 3 {
		return ast.ValueRelativeDate{}, false
	}
	sign := raw[0]
	if sign != '+' && sign != '-' {
		return ast.ValueRelativeDate{}, false
	}
	rest := raw[1:]
	unit := rest[len(rest)-1:]
	switch unit {
	case "w", "d", "h", "m":
	default:
		return ast.ValueRelativeDate{}, false
	}
	f, err := strconv.ParseFloat(rest[:len(rest)-1], 64)
	if err != nil {
		return ast.ValueRelativeDate{}, false
	}
	return ast.ValueRelativeDate{Value: f, Sign: string(sign), Unit: unit}, true
}

var isoDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseIsoDateToken(raw string) (time.Time, bool) {
	for _, f := range isoDateFormats {
		if t, err := time.Parse(f, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
