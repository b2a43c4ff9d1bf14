package parser

import "fmt"

// SyntaxError is a non-fatal diagnostic recorded while parsing. The
// grammar never aborts on malformed input (an unterminated quote, a
// stray bracket): it recovers by treating the offending text as free
// text and keeps going, the way the teacher's dsl parser recovers from
// unexpected tokens rather than failing the whole document.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Message)
}

func newSyntaxError(offset int, format string, args ...any) SyntaxError {
	return SyntaxError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}
