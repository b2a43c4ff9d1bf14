// Package searchql parses search bar query strings into an annotated
// AST: free text, logical AND/OR grouping, and typed filters validated
// against a caller-supplied field catalog.
package searchql

import (
	"strings"

	"github.com/quillhq/searchql/ast"
	"github.com/quillhq/searchql/catalog"
	"github.com/quillhq/searchql/internal/parser"
	"github.com/quillhq/searchql/internal/validate"
)

type (
	Document = ast.Document
	Node     = ast.Node
	Filter   = ast.Filter
	Key      = ast.Key
	Value    = ast.Value
	Invalid  = ast.Invalid

	Config      = catalog.Config
	SyntaxError = parser.SyntaxError
)

// Parse parses query against cfg and returns a fully validated
// Document. Parsing never fails: malformed sub-expressions recover as
// free text, and invalid filters are returned with their Invalid field
// set rather than omitted.
func Parse(query string, cfg *Config) *Document {
	doc := parser.Parse(query, cfg)
	validate.Document(doc, cfg)
	return doc
}

// ParseDiagnostic is Parse plus the syntax errors recovered along the
// way (unterminated quotes, unclosed groups or aggregate argument
// lists).
func ParseDiagnostic(query string, cfg *Config) (*Document, []SyntaxError) {
	doc, diags := parser.ParseDiagnostic(query, cfg)
	validate.Document(doc, cfg)
	return doc, diags
}

// JoinOptions controls how Join reconstructs a query string from a
// Document's terms.
type JoinOptions struct {
	// LeadingSpace prepends a single space before the first term.
	LeadingSpace bool
	// AdditionalSpaceBetween inserts an extra space between every pair
	// of consecutive terms, on top of whatever whitespace terms the
	// document itself already contains.
	AdditionalSpaceBetween bool
}

// Join reconstructs the query string a Document's terms represent. With
// a zero-value JoinOptions, Join is the exact round-trip inverse of
// Parse: Join(Parse(q, cfg), JoinOptions{}) == q.
func Join(doc *Document, opts JoinOptions) string {
	var b strings.Builder
	if opts.LeadingSpace {
		b.WriteByte(' ')
	}
	for i, term := range doc.Terms {
		if i > 0 && opts.AdditionalSpaceBetween {
			b.WriteByte(' ')
		}
		b.WriteString(term.Text())
	}
	return b.String()
}

// MarshalJSON encodes a Document as the tagged-union wire format
// described in ast/json.go.
func MarshalJSON(doc *Document) ([]byte, error) {
	return ast.MarshalJSON(doc)
}

// UnmarshalJSON decodes a Document from the wire format written by
// MarshalJSON.
func UnmarshalJSON(data []byte) (*Document, error) {
	return ast.UnmarshalJSON(data)
}
