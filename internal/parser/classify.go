package parser

import (
	"github.com/quillhq/searchql/ast"
	"github.com/quillhq/searchql/catalog"
)

// computeGates is the semantic predicate layer: it consults cfg to
// decide which value shapes are admissible for key, before a single
// byte of the value has been read.
func computeGates(key ast.Key, cfg *catalog.Config) valueGates {
	switch k := key.(type) {
	case ast.KeyExplicitTag:
		return valueGates{}
	case ast.KeyAggregate:
		fd, ok := cfg.FieldDefinition(k.Func.Value)
		if !ok {
			return valueGates{numeric: true, duration: true, percentage: true, date: true}
		}
		g := valueGates{}
		switch fd.ValueType {
		case catalog.ValueTypeDuration:
			g.duration = true
		case catalog.ValueTypeNumber, catalog.ValueTypeInteger:
			g.numeric = true
		case catalog.ValueTypePercentage:
			g.percentage = true
		case catalog.ValueTypeDate:
			g.date = true
		}
		return g
	case ast.KeySimple:
		if k.Value == "is" || k.Value == "has" {
			return valueGates{}
		}
		return valueGates{
			numeric:    cfg.IsNumeric(k.Value),
			boolean:    cfg.IsBoolean(k.Value),
			duration:   cfg.IsDuration(k.Value),
			date:       cfg.IsDate(k.Value),
			percentage: cfg.IsPercentage(k.Value),
		}
	default:
		return valueGates{}
	}
}

// allowsComparisonOperator is predicateTextOperator: it gates whether the
// filter being parsed may carry a full comparison operator (>, >=, <, <=,
// =) rather than just "!=" / "". Aggregates and any cataloged
// numeric/duration/date/percentage key always admit the full set; a plain
// or explicit-tag key only admits it when the catalog has opted it into
// textOperatorKeys.
func allowsComparisonOperator(key ast.Key, gates valueGates, cfg *catalog.Config) bool {
	if _, ok := key.(ast.KeyAggregate); ok {
		return true
	}
	if gates.numeric || gates.duration || gates.date || gates.percentage {
		return true
	}
	switch key.(type) {
	case ast.KeySimple, ast.KeyExplicitTag:
		return cfg.AllowsTextOperator(key.Name())
	}
	return false
}

func isComparisonOperator(op string) bool {
	switch op {
	case "!=", ">", ">=", "<", "<=":
		return true
	default:
		return false
	}
}

// classifyFilterType is the second half of the semantic predicate layer:
// given the concrete key and value shapes already parsed, and the
// operator that joined them, it picks the one FilterType spec.md's
// table admits for that combination.
func classifyFilterType(key ast.Key, val ast.Value, operator string) ast.FilterType {
	switch k := key.(type) {
	case ast.KeyExplicitTag:
		if _, ok := val.(ast.ValueTextList); ok {
			return ast.TextIn
		}
		return ast.Text

	case ast.KeyAggregate:
		switch val.(type) {
		case ast.ValueDuration:
			return ast.AggregateDuration
		case ast.ValuePercentage:
			return ast.AggregatePercentage
		case ast.ValueIso8601Date:
			return ast.AggregateDate
		case ast.ValueRelativeDate:
			return ast.AggregateRelativeDate
		default:
			return ast.AggregateNumeric
		}

	case ast.KeySimple:
		if k.Value == "is" {
			return ast.Is
		}
		if k.Value == "has" {
			return ast.Has
		}
		switch val.(type) {
		case ast.ValueTextList:
			return ast.TextIn
		case ast.ValueNumberList:
			return ast.NumericIn
		case ast.ValueBoolean:
			return ast.Boolean
		case ast.ValueDuration:
			return ast.Duration
		case ast.ValueIso8601Date:
			if isComparisonOperator(operator) {
				return ast.Date
			}
			return ast.SpecificDate
		case ast.ValueRelativeDate:
			return ast.RelativeDate
		case ast.ValueNumber:
			return ast.Numeric
		case ast.ValuePercentage:
			return ast.Numeric
		default:
			return ast.Text
		}

	default:
		return ast.Text
	}
}
