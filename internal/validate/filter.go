// Package validate implements the post-parse validator: a pass over an
// already-built *ast.Document that annotates each Filter with a verdict,
// the way the teacher's engine package takes a built graph and a
// context and produces a verdict rather than mutating during traversal.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quillhq/searchql/ast"
	"github.com/quillhq/searchql/catalog"
)

// Document walks every term of doc, including terms nested inside
// LogicGroups, and assigns each Filter's Invalid field.
func Document(doc *ast.Document, cfg *catalog.Config) {
	walkTerms(doc.Terms, cfg)
}

func walkTerms(terms []ast.Node, cfg *catalog.Config) {
	for _, t := range terms {
		switch n := t.(type) {
		case *ast.Filter:
			n.Invalid = Filter(n, cfg)
		case *ast.LogicGroup:
			walkTerms(n.Terms, cfg)
		}
	}
}

// Filter runs the validation rules against a single filter, in priority
// order, and returns the first failure. A nil result means f is valid.
func Filter(f *ast.Filter, cfg *catalog.Config) *ast.Invalid {
	if inv := checkTextValueSanity(f); inv != nil {
		return inv
	}
	if inv := checkTextFilterMisuse(f, cfg); inv != nil {
		return inv
	}
	if inv := checkAggregateFilter(f, cfg); inv != nil {
		return inv
	}
	if inv := checkInListEmptiness(f); inv != nil {
		return inv
	}
	return nil
}

// checkTextValueSanity covers Text, Is, and Has (a blank value or list
// item is never meaningful) and is also the only rule that applies to
// Is/Has.
func checkTextValueSanity(f *ast.Filter) *ast.Invalid {
	switch f.FilterType {
	case ast.Text, ast.Is, ast.Has:
		if v, ok := f.Value.(ast.ValueText); ok && strings.TrimSpace(v.Value) == "" {
			return &ast.Invalid{Reason: "value must not be blank"}
		}
	case ast.TextIn:
		if v, ok := f.Value.(ast.ValueTextList); ok {
			for _, item := range v.Items {
				if strings.TrimSpace(item.Value.Value) == "" {
					return &ast.Invalid{Reason: "list item must not be blank"}
				}
			}
		}
	}
	return nil
}

// checkTextFilterMisuse flags a Text filter whose key is cataloged as a
// typed key (numeric, boolean, date, or duration) but whose value never
// parsed as that type, annotating the expected type as a hint for a
// search-bar autocomplete to surface.
func checkTextFilterMisuse(f *ast.Filter, cfg *catalog.Config) *ast.Invalid {
	if f.FilterType != ast.Text {
		return nil
	}
	ks, ok := f.Key.(ast.KeySimple)
	if !ok || ks.Value == "is" || ks.Value == "has" {
		return nil
	}
	switch {
	case cfg.IsBoolean(ks.Value):
		return &ast.Invalid{
			Reason:       "Invalid boolean. Expected true, 1, false, or 0.",
			ExpectedType: []ast.FilterType{ast.Boolean},
		}
	case cfg.IsDuration(ks.Value):
		return &ast.Invalid{
			Reason:       "Invalid duration. Expected number followed by duration unit suffix",
			ExpectedType: []ast.FilterType{ast.Duration},
		}
	case cfg.IsDate(ks.Value):
		return &ast.Invalid{
			Reason:       "Invalid date format. Expected +/-duration (e.g. +1h) or ISO 8601-like (…)",
			ExpectedType: []ast.FilterType{ast.Date, ast.SpecificDate, ast.RelativeDate},
		}
	case cfg.IsNumeric(ks.Value):
		return &ast.Invalid{
			Reason:       "Invalid number. Expected number then optional k, m, or b suffix (e.g. 500k)",
			ExpectedType: []ast.FilterType{ast.Numeric, ast.NumericIn},
		}
	default:
		return nil
	}
}

// checkAggregateFilter validates an aggregate key's value-type coherence
// with its function's registered return type, then its argument list
// against the function's registered parameter schema.
func checkAggregateFilter(f *ast.Filter, cfg *catalog.Config) *ast.Invalid {
	agg, ok := f.Key.(ast.KeyAggregate)
	if !ok {
		return nil
	}
	fd, known := cfg.FieldDefinition(agg.Func.Value)
	if !known {
		return &ast.Invalid{Reason: fmt.Sprintf("'%s' is not a recognized aggregate function.", agg.Func.Value)}
	}
	if !aggregateValueMatchesType(f.Value, fd.ValueType) {
		return &ast.Invalid{
			Reason:       fmt.Sprintf("'%s' returns a %s; '%s' is not valid here.", agg.Func.Value, valueTypeLabel(fd.ValueType), f.Value.Text()),
			ExpectedType: []ast.FilterType{expectedAggregateFilterType(fd.ValueType)},
		}
	}
	aggregation, _ := cfg.Aggregation(agg.Func.Value)
	return checkAggregateArgs(agg, aggregation, cfg)
}

func aggregateValueMatchesType(v ast.Value, vt catalog.ValueType) bool {
	switch vt {
	case catalog.ValueTypeDuration:
		_, ok := v.(ast.ValueDuration)
		return ok
	case catalog.ValueTypeNumber, catalog.ValueTypeInteger:
		_, ok := v.(ast.ValueNumber)
		return ok
	case catalog.ValueTypePercentage:
		_, ok := v.(ast.ValuePercentage)
		return ok
	case catalog.ValueTypeDate:
		switch v.(type) {
		case ast.ValueIso8601Date, ast.ValueRelativeDate:
			return true
		}
		return false
	default:
		return true
	}
}

func expectedAggregateFilterType(vt catalog.ValueType) ast.FilterType {
	switch vt {
	case catalog.ValueTypeDuration:
		return ast.AggregateDuration
	case catalog.ValueTypePercentage:
		return ast.AggregatePercentage
	case catalog.ValueTypeDate:
		return ast.AggregateDate
	default:
		return ast.AggregateNumeric
	}
}

func checkAggregateArgs(agg ast.KeyAggregate, aggregation catalog.Aggregation, cfg *catalog.Config) *ast.Invalid {
	var args []ast.KeyAggregateArg
	fn := agg.Func.Value
	if agg.Args != nil {
		args = agg.Args.Args
	}
	last := len(aggregation.Parameters)
	if len(args) > last {
		last = len(args)
	}
	for i := 0; i < last; i++ {
		if i >= len(aggregation.Parameters) {
			return &ast.Invalid{Reason: fmt.Sprintf("%s is expecting %d arguments.", fn, len(aggregation.Parameters))}
		}
		param := aggregation.Parameters[i]
		if i >= len(args) {
			if param.Required {
				return &ast.Invalid{Reason: fmt.Sprintf("%s is expecting %d arguments.", fn, len(aggregation.Parameters))}
			}
			continue
		}
		argVal := args[i].Value.Value
		switch param.Kind {
		case catalog.ParameterKindDropdown:
			if !dropdownAllows(param.Options, argVal) {
				return &ast.Invalid{Reason: fmt.Sprintf("%s expects argument %d to be one of: %s", fn, i, dropdownOptionList(param.Options))}
			}
		case catalog.ParameterKindValue:
			if !valueMatchesDataType(argVal, param.DataType) {
				return &ast.Invalid{Reason: fmt.Sprintf("%s expects argument %d to be of type %s", fn, i, valueTypeLabel(param.DataType))}
			}
		case catalog.ParameterKindColumn:
			if !columnArgAllowed(argVal, param, cfg) {
				if param.ColumnTypesFunc != nil {
					return &ast.Invalid{Reason: fmt.Sprintf("Argument %d is an invalid column type.", i)}
				}
				if _, ok := cfg.FieldDefinition(argVal); !ok {
					return &ast.Invalid{Reason: fmt.Sprintf("%s expects argument %d to be a column", fn, i)}
				}
				return &ast.Invalid{Reason: fmt.Sprintf("%s expects argument %d to be a column of type: %s", fn, i, columnTypeList(param.ColumnTypes))}
			}
		}
	}
	return nil
}

func dropdownOptionList(options []catalog.DropdownOption) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = fmt.Sprintf("'%s'", o.Value)
	}
	return strings.Join(quoted, ", ")
}

func columnTypeList(types []catalog.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = valueTypeLabel(t)
	}
	return strings.Join(names, ", ")
}

// valueTypeLabel renders a cataloged value type the way aggregate
// validation reasons quote it back to the caller.
func valueTypeLabel(vt catalog.ValueType) string {
	switch vt {
	case catalog.ValueTypeNumber:
		return "number"
	case catalog.ValueTypeInteger:
		return "integer"
	case catalog.ValueTypeDuration:
		return "duration"
	case catalog.ValueTypeDate:
		return "date"
	case catalog.ValueTypePercentage:
		return "percentage"
	case catalog.ValueTypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// columnArgAllowed checks a column-kind aggregate argument against
// whichever gate the parameter declares: a dynamic ColumnTypesFunc takes
// priority, otherwise a static ColumnTypes list is checked against the
// argument's own cataloged field type. A parameter with neither gate
// admits any column name.
func columnArgAllowed(argVal string, param catalog.AggregateParameter, cfg *catalog.Config) bool {
	if param.ColumnTypesFunc != nil {
		fd, _ := cfg.FieldDefinition(argVal)
		return param.ColumnTypesFunc(argVal, fd.ValueType)
	}
	if len(param.ColumnTypes) == 0 {
		return true
	}
	fd, ok := cfg.FieldDefinition(argVal)
	if !ok {
		return false
	}
	for _, t := range param.ColumnTypes {
		if t == fd.ValueType {
			return true
		}
	}
	return false
}

func dropdownAllows(options []catalog.DropdownOption, val string) bool {
	for _, o := range options {
		if o.Value == val {
			return true
		}
	}
	return false
}

func valueMatchesDataType(raw string, dt catalog.ValueType) bool {
	switch dt {
	case catalog.ValueTypeNumber, catalog.ValueTypeInteger:
		_, err := strconv.ParseFloat(raw, 64)
		return err == nil
	default:
		return true
	}
}

// checkInListEmptiness flags an in-list filter whose list parsed with
// zero items.
func checkInListEmptiness(f *ast.Filter) *ast.Invalid {
	switch v := f.Value.(type) {
	case ast.ValueTextList:
		if len(v.Items) == 0 {
			return &ast.Invalid{Reason: "list value must contain at least one item"}
		}
	case ast.ValueNumberList:
		if len(v.Items) == 0 {
			return &ast.Invalid{Reason: "list value must contain at least one item"}
		}
	}
	return nil
}
