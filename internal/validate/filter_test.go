package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhq/searchql/ast"
	"github.com/quillhq/searchql/catalog"
	"github.com/quillhq/searchql/internal/parser"
	"github.com/quillhq/searchql/internal/validate"
)

func parseAndValidateFirst(t *testing.T, query string, cfg *catalog.Config) *ast.Filter {
	t.Helper()
	doc := parser.Parse(query, cfg)
	validate.Document(doc, cfg)
	for _, term := range doc.Terms {
		if f, ok := term.(*ast.Filter); ok {
			return f
		}
	}
	t.Fatalf("no filter found in %q", query)
	return nil
}

func TestEmptyTextValueIsInvalid(t *testing.T) {
	cfg := catalog.Default()
	f := parseAndValidateFirst(t, `message:""`, cfg)
	require.False(t, f.IsValid(), "expected an empty text value to be invalid")
}

func TestTextFilterMisuseHintsExpectedType(t *testing.T) {
	cfg := catalog.Default()
	// timesSeen is cataloged numeric; "abc" never parses as a number, so
	// it falls back to a Text filter that should carry a hint.
	f := parseAndValidateFirst(t, "timesSeen:abc", cfg)
	require.False(t, f.IsValid())
	require.Equal(t, "Invalid number. Expected number then optional k, m, or b suffix (e.g. 500k)", f.Invalid.Reason)
	require.Equal(t, []ast.FilterType{ast.Numeric, ast.NumericIn}, f.Invalid.ExpectedType)
}

func TestDurationMisuseReasonMatchesDocumentedText(t *testing.T) {
	cfg := catalog.Default()
	f := parseAndValidateFirst(t, `duration:"hello"`, cfg)
	require.False(t, f.IsValid())
	require.Equal(t, "Invalid duration. Expected number followed by duration unit suffix", f.Invalid.Reason)
	require.Equal(t, []ast.FilterType{ast.Duration}, f.Invalid.ExpectedType)
}

func TestDateMisuseExpectsAllThreeDateVariants(t *testing.T) {
	cfg := catalog.Default()
	f := parseAndValidateFirst(t, "firstSeen:notadate", cfg)
	require.False(t, f.IsValid())
	require.Equal(t, []ast.FilterType{ast.Date, ast.SpecificDate, ast.RelativeDate}, f.Invalid.ExpectedType)
}

func TestValidNumericFilterIsValid(t *testing.T) {
	cfg := catalog.Default()
	f := parseAndValidateFirst(t, "timesSeen:>10", cfg)
	require.True(t, f.IsValid(), "expected a valid numeric filter, got %+v", f.Invalid)
}

func TestAggregateArityIsValidated(t *testing.T) {
	cfg := catalog.Default()
	f := parseAndValidateFirst(t, "p95():>300ms", cfg)
	require.False(t, f.IsValid(), "expected p95() with a missing required argument to be invalid")
}

func TestAggregateColumnTypeIsValidated(t *testing.T) {
	cfg := catalog.Default()
	// message is a string field, not a duration/number column p95 accepts.
	f := parseAndValidateFirst(t, "p95(message):>300ms", cfg)
	require.False(t, f.IsValid(), "expected p95(message) to be invalid since message is not a duration/number column")
}

func TestValidAggregateFilterIsValid(t *testing.T) {
	cfg := catalog.Default()
	f := parseAndValidateFirst(t, "p95(transaction.duration):>300ms", cfg)
	require.True(t, f.IsValid(), "expected a valid aggregate filter, got %+v", f.Invalid)
}

func TestZeroParameterAggregateRejectsExtraArgs(t *testing.T) {
	cfg := catalog.Default()
	// count takes no arguments at all, so a supplied one must be flagged
	// even though len(aggregation.Parameters) == 0.
	f := parseAndValidateFirst(t, "count(transaction.duration):>5", cfg)
	require.False(t, f.IsValid(), "expected count(transaction.duration) to be invalid, count takes no arguments")
	require.Equal(t, "count is expecting 0 arguments.", f.Invalid.Reason)
}

func TestEmptyInListIsInvalid(t *testing.T) {
	cfg := catalog.Default()
	f := parseAndValidateFirst(t, "browser.name:[]", cfg)
	require.False(t, f.IsValid(), "expected an empty in-list to be invalid")
}

func TestIsAndHasOnlyCheckBlankness(t *testing.T) {
	cfg := catalog.Default()
	f := parseAndValidateFirst(t, "is:resolved", cfg)
	require.True(t, f.IsValid(), "expected is:resolved to be valid, got %+v", f.Invalid)
}
