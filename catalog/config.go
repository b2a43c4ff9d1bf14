// Package catalog holds the field catalog: the read-only, caller-supplied
// metadata about which keys are numeric, boolean, date, duration, or
// percentage typed, and which function keys exist and with what argument
// schemas. The parser treats a *Config as immutable for the duration of
// a single Parse call; one Config may be shared across concurrent parses.
package catalog

import "strings"

// FieldKind discriminates a plain field key from a function (aggregate) key.
type FieldKind int

const (
	FieldKindField FieldKind = iota
	FieldKindFunction
)

// ValueType is the cataloged value type of a field or an aggregate's
// return type.
type ValueType int

const (
	ValueTypeString ValueType = iota
	ValueTypeNumber
	ValueTypeInteger
	ValueTypeDuration
	ValueTypeDate
	ValueTypePercentage
	ValueTypeBoolean
)

// ParameterKind discriminates the three aggregate-parameter shapes of
// spec.md §4.5.3.
type ParameterKind int

const (
	ParameterKindColumn ParameterKind = iota
	ParameterKindDropdown
	ParameterKindValue
)

// ColumnTypesFunc validates a column-kind aggregate argument dynamically,
// given the argument's name and its cataloged value type. Set either this
// or ColumnTypes on an AggregateParameter, never both.
type ColumnTypesFunc func(name string, dataType ValueType) bool

// DropdownOption is one admissible value for a dropdown-kind parameter.
type DropdownOption struct {
	Value string
}

// AggregateParameter describes one positional argument of an aggregate
// function.
type AggregateParameter struct {
	Kind ParameterKind
	Name string

	Required bool

	// ParameterKindColumn: either ColumnTypes (a fixed list of admissible
	// value types) or ColumnTypesFunc (a dynamic predicate) gates the
	// argument. At most one should be set.
	ColumnTypes     []ValueType
	ColumnTypesFunc ColumnTypesFunc

	// ParameterKindDropdown.
	Options []DropdownOption

	// ParameterKindValue: the argument's literal value must match this type.
	DataType ValueType
}

// Aggregation is a registered function key's parameter schema.
type Aggregation struct {
	Parameters []AggregateParameter
}

// FieldDefinition is the per-key metadata the catalog exposes.
type FieldDefinition struct {
	Kind               FieldKind
	ValueType          ValueType
	Parameters         []AggregateParameter
	AllowTextOperators bool
	Deprecated         bool
	Desc               string
}

// Config is the field catalog threaded explicitly through every parse.
// It is never mutated after construction, which is what makes it safe to
// share across concurrent Parse calls.
type Config struct {
	NumericKeys      map[string]struct{}
	BooleanKeys      map[string]struct{}
	PercentageKeys   map[string]struct{}
	DateKeys         map[string]struct{}
	DurationKeys     map[string]struct{}
	TextOperatorKeys map[string]struct{}

	AllowBoolean bool

	FieldDefinitions map[string]FieldDefinition
	Aggregations     map[string]Aggregation
}

// FieldDefinition looks up a key's cataloged definition. ok is false for
// keys with no entry in FieldDefinitions; the implicit measurements.* and
// spans.* families have no definitions here.
func (c *Config) FieldDefinition(key string) (FieldDefinition, bool) {
	if c == nil {
		return FieldDefinition{}, false
	}
	fd, ok := c.FieldDefinitions[key]
	return fd, ok
}

// Aggregation looks up a registered function's parameter schema.
func (c *Config) Aggregation(name string) (Aggregation, bool) {
	if c == nil {
		return Aggregation{}, false
	}
	a, ok := c.Aggregations[name]
	return a, ok
}

const measurementsPrefix = "measurements."

// isMeasurement reports whether key is one of the implicit
// measurements.* keys, which are always numeric and, when the
// measurement name itself reads as a duration-flavored metric, also
// duration-typed.
func isMeasurement(key string) bool {
	return strings.HasPrefix(key, measurementsPrefix) && len(key) > len(measurementsPrefix)
}

// durationMeasurementHints are measurement name fragments that, by
// convention, carry duration semantics (e.g. measurements.fp,
// measurements.app_start_cold).
var durationMeasurementHints = []string{
	"fp", "fcp", "lcp", "fid", "ttfb", "inp",
	"app_start_cold", "app_start_warm", "time_to_initial_display", "time_to_full_display",
}

func isDurationMeasurement(key string) bool {
	if !isMeasurement(key) {
		return false
	}
	name := key[len(measurementsPrefix):]
	for _, hint := range durationMeasurementHints {
		if name == hint {
			return true
		}
	}
	return false
}

const spanOpBreakdownPrefix = "spans."

// isSpanOpBreakdown reports whether key is one of the implicit
// spans.<op> breakdown keys, which are both numeric and duration-typed.
func isSpanOpBreakdown(key string) bool {
	return strings.HasPrefix(key, spanOpBreakdownPrefix) && len(key) > len(spanOpBreakdownPrefix)
}

func (c *Config) has(set map[string]struct{}, key string) bool {
	if c == nil || set == nil {
		return false
	}
	_, ok := set[key]
	return ok
}

// IsNumeric reports whether key is cataloged (explicitly or implicitly)
// as a numeric key.
func (c *Config) IsNumeric(key string) bool {
	if c != nil && c.has(c.NumericKeys, key) {
		return true
	}
	return isMeasurement(key) || isSpanOpBreakdown(key)
}

// IsBoolean reports whether key is cataloged as a boolean key.
func (c *Config) IsBoolean(key string) bool {
	return c != nil && c.has(c.BooleanKeys, key)
}

// IsPercentage reports whether key is cataloged as a percentage key.
func (c *Config) IsPercentage(key string) bool {
	return c != nil && c.has(c.PercentageKeys, key)
}

// IsDate reports whether key is cataloged as a date key.
func (c *Config) IsDate(key string) bool {
	return c != nil && c.has(c.DateKeys, key)
}

// IsDuration reports whether key is cataloged (explicitly or implicitly)
// as a duration key.
func (c *Config) IsDuration(key string) bool {
	if c != nil && c.has(c.DurationKeys, key) {
		return true
	}
	return isDurationMeasurement(key) || isSpanOpBreakdown(key)
}

// AllowsTextOperator reports whether a text-valued key may carry a
// comparison operator rather than only "" / "!=".
func (c *Config) AllowsTextOperator(key string) bool {
	if c != nil && c.has(c.TextOperatorKeys, key) {
		return true
	}
	fd, ok := c.FieldDefinition(key)
	return ok && fd.AllowTextOperators
}

// AllowsBoolean reports whether AND/OR are recognized as logical
// operators rather than free text.
func (c *Config) AllowsBoolean() bool {
	return c != nil && c.AllowBoolean
}

// IsFunction reports whether key is cataloged as a function (aggregate) key.
func (c *Config) IsFunction(key string) bool {
	fd, ok := c.FieldDefinition(key)
	return ok && fd.Kind == FieldKindFunction
}
