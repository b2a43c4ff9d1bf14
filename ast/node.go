// Package ast defines the abstract syntax tree produced by parsing a
// search query: an ordered sequence of top-level terms, each carrying
// its exact source text and byte-offset span.
package ast

import "strings"

// Kind discriminates the top-level term variants.
type Kind int

const (
	LogicBooleanKind Kind = iota
	LogicGroupKind
	FilterKind
	FreeTextKind
	SpacesKind
)

func (k Kind) String() string {
	switch k {
	case LogicBooleanKind:
		return "LogicBoolean"
	case LogicGroupKind:
		return "LogicGroup"
	case FilterKind:
		return "Filter"
	case FreeTextKind:
		return "FreeText"
	case SpacesKind:
		return "Spaces"
	default:
		return "Unknown"
	}
}

// Node is a top-level term in a parsed query, or a term nested inside a
// LogicGroup. Every node carries the exact source substring it spans.
type Node interface {
	Kind() Kind
	Text() string
	Span() Location
}

// Location is a byte-offset span into the original query string.
type Location struct {
	Start int
	End   int
}

// LineCol derives 1-based line and column numbers for the location's
// start offset against src. Computed on demand rather than stored per
// node, since most consumers never need it.
func (l Location) LineCol(src string) (line, col int) {
	line = 1
	lastNL := -1
	for i := 0; i < l.Start && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lastNL = i
		}
	}
	col = l.Start - lastNL
	return line, col
}

// Document is the root of a parsed query: an ordered, never-nil sequence
// of top-level terms. Concatenating every term's Text() in order
// reconstructs the original query exactly (the round-trip law).
type Document struct {
	Terms []Node
}

// Text reconstructs the exact source the document was parsed from.
func (d *Document) Text() string {
	var b strings.Builder
	for _, t := range d.Terms {
		b.WriteString(t.Text())
	}
	return b.String()
}
