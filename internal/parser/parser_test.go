package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhq/searchql/ast"
	"github.com/quillhq/searchql/catalog"
)

func roundTrip(t *testing.T, doc *ast.Document, query string) {
	t.Helper()
	require.Equal(t, query, doc.Text(), "round-trip mismatch")
}

func firstFilter(t *testing.T, doc *ast.Document) *ast.Filter {
	t.Helper()
	for _, term := range doc.Terms {
		if f, ok := term.(*ast.Filter); ok {
			return f
		}
	}
	t.Fatalf("no filter found among %d terms", len(doc.Terms))
	return nil
}

func TestParseEmptyAndWhitespace(t *testing.T) {
	cfg := catalog.Default()

	doc := Parse("", cfg)
	require.Empty(t, doc.Terms)

	doc = Parse("   ", cfg)
	require.Len(t, doc.Terms, 1)
	require.Equal(t, ast.SpacesKind, doc.Terms[0].Kind())
	roundTrip(t, doc, "   ")
}

func TestParseFreeText(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("hello world", cfg)
	roundTrip(t, doc, "hello world")

	require.Len(t, doc.Terms, 3, "expected 3 terms (word, space, word)")
	for _, i := range []int{0, 2} {
		ft, ok := doc.Terms[i].(*ast.FreeText)
		require.True(t, ok, "term %d: expected *ast.FreeText, got %T", i, doc.Terms[i])
		require.False(t, ft.Quoted, "term %d: unexpected quoted free text", i)
	}
}

func TestParseIsFilter(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("is:resolved", cfg)
	roundTrip(t, doc, "is:resolved")

	f := firstFilter(t, doc)
	require.Equal(t, ast.Is, f.FilterType)
	v, ok := f.Value.(ast.ValueText)
	require.True(t, ok)
	require.Equal(t, "resolved", v.Value)
}

func TestParseNegatedBooleanFilter(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("!error.handled:true", cfg)
	roundTrip(t, doc, "!error.handled:true")

	f := firstFilter(t, doc)
	require.True(t, f.Negated)
	require.Equal(t, ast.Boolean, f.FilterType)
	v, ok := f.Value.(ast.ValueBoolean)
	require.True(t, ok)
	require.True(t, v.Value)
}

func TestParseDurationComparison(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("duration:>300ms", cfg)
	roundTrip(t, doc, "duration:>300ms")

	f := firstFilter(t, doc)
	require.Equal(t, ast.Duration, f.FilterType)
	require.Equal(t, ">", f.Operator)
	v, ok := f.Value.(ast.ValueDuration)
	require.True(t, ok)
	require.Equal(t, float64(300), v.Value)
	require.Equal(t, "ms", v.Unit)
}

func TestParseComparisonOperatorFoldsIntoTextValueForUntypedKey(t *testing.T) {
	cfg := catalog.Default()
	// message is a plain string key, not listed in TextOperatorKeys, so
	// ">5" can't be split into an operator the Text filter type can't
	// carry: it stays part of the value, the way Sentry's search bar
	// treats the same input.
	doc := Parse("message:>5", cfg)
	roundTrip(t, doc, "message:>5")

	f := firstFilter(t, doc)
	require.Equal(t, ast.Text, f.FilterType)
	require.Equal(t, "", f.Operator)
	v, ok := f.Value.(ast.ValueText)
	require.True(t, ok, "expected ValueText, got %T", f.Value)
	require.Equal(t, ">5", v.Value)
}

func TestParseComparisonOperatorAllowedForCatalogedTextOperatorKey(t *testing.T) {
	cfg := catalog.Default()
	// release is listed in TextOperatorKeys, so it may carry a full
	// comparison operator even though it's a plain text field.
	doc := Parse("release:>1.0", cfg)
	roundTrip(t, doc, "release:>1.0")

	f := firstFilter(t, doc)
	require.Equal(t, ast.Text, f.FilterType)
	require.Equal(t, ">", f.Operator)
	v, ok := f.Value.(ast.ValueText)
	require.True(t, ok, "expected ValueText, got %T", f.Value)
	require.Equal(t, "1.0", v.Value)
}

func TestParseAggregateFilter(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("p95(transaction.duration):>300ms", cfg)
	roundTrip(t, doc, "p95(transaction.duration):>300ms")

	f := firstFilter(t, doc)
	require.Equal(t, ast.AggregateDuration, f.FilterType)
	key, ok := f.Key.(ast.KeyAggregate)
	require.True(t, ok, "expected KeyAggregate, got %T", f.Key)
	require.Equal(t, "p95", key.Func.Value)
	require.NotNil(t, key.Args)
	require.Len(t, key.Args.Args, 1)
	require.Equal(t, "transaction.duration", key.Args.Args[0].Value.Value)
}

func TestParseAggregateFilterWithSpacing(t *testing.T) {
	cfg := catalog.Default()
	query := "p95( transaction.duration ):>300ms"
	doc := Parse(query, cfg)
	roundTrip(t, doc, query)

	f := firstFilter(t, doc)
	key := f.Key.(ast.KeyAggregate)
	require.True(t, key.SpaceAfter)
}

func TestParseSpecificDateVsComparisonDate(t *testing.T) {
	cfg := catalog.Default()

	doc := Parse("event.timestamp:2024-01-01", cfg)
	f := firstFilter(t, doc)
	require.Equal(t, ast.SpecificDate, f.FilterType, "expected SpecificDate for bare date")

	doc = Parse("event.timestamp:>2024-01-01", cfg)
	f = firstFilter(t, doc)
	require.Equal(t, ast.Date, f.FilterType, "expected Date for compared date")
}

func TestParseRelativeDate(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("firstSeen:-24h", cfg)
	roundTrip(t, doc, "firstSeen:-24h")

	f := firstFilter(t, doc)
	require.Equal(t, ast.RelativeDate, f.FilterType)
	v, ok := f.Value.(ast.ValueRelativeDate)
	require.True(t, ok)
	require.Equal(t, "-", v.Sign)
	require.Equal(t, float64(24), v.Value)
	require.Equal(t, "h", v.Unit)
}

func TestParseTextInList(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("browser.name:[Chrome,Firefox]", cfg)
	roundTrip(t, doc, "browser.name:[Chrome,Firefox]")

	f := firstFilter(t, doc)
	require.Equal(t, ast.TextIn, f.FilterType)
	v, ok := f.Value.(ast.ValueTextList)
	require.True(t, ok)
	require.Len(t, v.Items, 2)
	require.Equal(t, "Chrome", v.Items[0].Value.Value)
	require.Equal(t, "Firefox", v.Items[1].Value.Value)
}

func TestParseNumericInList(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("quux:[1,2,3]", cfg)
	roundTrip(t, doc, "quux:[1,2,3]")

	f := firstFilter(t, doc)
	require.Equal(t, ast.NumericIn, f.FilterType)
	v, ok := f.Value.(ast.ValueNumberList)
	require.True(t, ok)
	require.Len(t, v.Items, 3)
}

func TestParseExplicitTagForcesText(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("tags[flavor]:vanilla", cfg)
	roundTrip(t, doc, "tags[flavor]:vanilla")

	f := firstFilter(t, doc)
	require.Equal(t, ast.Text, f.FilterType)
	tag, ok := f.Key.(ast.KeyExplicitTag)
	require.True(t, ok)
	require.Equal(t, "flavor", tag.Key.Value)
}

func TestParseLogicGroupAndBoolean(t *testing.T) {
	cfg := catalog.Default()
	query := `(is:resolved OR is:unresolved) AND browser.name:Chrome`
	doc := Parse(query, cfg)
	roundTrip(t, doc, query)

	group, ok := doc.Terms[0].(*ast.LogicGroup)
	require.True(t, ok, "expected first term to be *ast.LogicGroup, got %T", doc.Terms[0])
	var sawOr bool
	for _, term := range group.Terms {
		if lb, ok := term.(*ast.LogicBoolean); ok && lb.Operator == "OR" {
			sawOr = true
		}
	}
	require.True(t, sawOr, "expected an OR operator inside the group")

	var sawAnd bool
	for _, term := range doc.Terms {
		if lb, ok := term.(*ast.LogicBoolean); ok && lb.Operator == "AND" {
			sawAnd = true
		}
	}
	require.True(t, sawAnd, "expected a top-level AND operator")
}

func TestParseBooleanOperatorsDisabled(t *testing.T) {
	cfg := &catalog.Config{AllowBoolean: false}
	doc := Parse("a AND b", cfg)
	roundTrip(t, doc, "a AND b")
	for _, term := range doc.Terms {
		require.NotEqual(t, ast.LogicBooleanKind, term.Kind(), "AND should parse as free text when AllowBoolean is false")
	}
}

func TestParseUnterminatedQuoteRecovers(t *testing.T) {
	cfg := catalog.Default()
	doc, diags := ParseDiagnostic(`"unterminated`, cfg)
	roundTrip(t, doc, `"unterminated`)
	require.Len(t, diags, 1)
}

func TestParseUnclosedGroupRecovers(t *testing.T) {
	cfg := catalog.Default()
	doc, diags := ParseDiagnostic(`(is:resolved`, cfg)
	roundTrip(t, doc, `(is:resolved`)
	require.NotEmpty(t, diags, "expected a diagnostic for the unclosed group")
}

func TestParseNumberMagnitudeSuffix(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("timesSeen:>10k", cfg)
	f := firstFilter(t, doc)
	v, ok := f.Value.(ast.ValueNumber)
	require.True(t, ok, "expected ValueNumber, got %T", f.Value)
	require.Equal(t, "k", v.Unit)
	require.Equal(t, float64(10000), v.RawValue)
}

func TestParseBareKeyWithoutColonIsFreeText(t *testing.T) {
	cfg := catalog.Default()
	doc := Parse("is", cfg)
	require.Len(t, doc.Terms, 1)
	_, ok := doc.Terms[0].(*ast.FreeText)
	require.True(t, ok, "expected *ast.FreeText, got %T", doc.Terms[0])
}
