package ast

// FilterType discriminates the 16 concrete filter shapes a Filter node
// can take. The FilterTypeInfo table below records, per type, the
// admissible operators and whether the filter may be negated.
type FilterType int

const (
	Text FilterType = iota
	TextIn
	Date
	SpecificDate
	RelativeDate
	Duration
	Numeric
	NumericIn
	Boolean
	AggregateDuration
	AggregateNumeric
	AggregatePercentage
	AggregateDate
	AggregateRelativeDate
	Has
	Is
)

func (t FilterType) String() string {
	switch t {
	case Text:
		return "Text"
	case TextIn:
		return "TextIn"
	case Date:
		return "Date"
	case SpecificDate:
		return "SpecificDate"
	case RelativeDate:
		return "RelativeDate"
	case Duration:
		return "Duration"
	case Numeric:
		return "Numeric"
	case NumericIn:
		return "NumericIn"
	case Boolean:
		return "Boolean"
	case AggregateDuration:
		return "AggregateDuration"
	case AggregateNumeric:
		return "AggregateNumeric"
	case AggregatePercentage:
		return "AggregatePercentage"
	case AggregateDate:
		return "AggregateDate"
	case AggregateRelativeDate:
		return "AggregateRelativeDate"
	case Has:
		return "Has"
	case Is:
		return "Is"
	default:
		return "Unknown"
	}
}

// allComparisonOps is the operator set meant by "all" in spec.md's
// FilterType table: every comparator besides the always-implicit "".
var allComparisonOps = []string{"=", "!=", ">", ">=", "<", "<="}

// FilterTypeInfo is one row of the FilterType configuration table.
type FilterTypeInfo struct {
	CanNegate bool
	ValidOps  []string // never includes "": "" is always implicitly valid
}

var filterTypeTable = map[FilterType]FilterTypeInfo{
	Text:                   {CanNegate: true, ValidOps: []string{"!="}},
	TextIn:                 {CanNegate: true, ValidOps: nil},
	Date:                   {CanNegate: false, ValidOps: allComparisonOps},
	SpecificDate:           {CanNegate: false, ValidOps: nil},
	RelativeDate:           {CanNegate: false, ValidOps: nil},
	Duration:               {CanNegate: true, ValidOps: allComparisonOps},
	Numeric:                {CanNegate: true, ValidOps: allComparisonOps},
	NumericIn:              {CanNegate: true, ValidOps: nil},
	Boolean:                {CanNegate: true, ValidOps: []string{"!="}},
	AggregateDuration:      {CanNegate: true, ValidOps: allComparisonOps},
	AggregateNumeric:       {CanNegate: true, ValidOps: allComparisonOps},
	AggregatePercentage:    {CanNegate: true, ValidOps: allComparisonOps},
	AggregateDate:          {CanNegate: true, ValidOps: allComparisonOps},
	AggregateRelativeDate:  {CanNegate: true, ValidOps: allComparisonOps},
	Has:                    {CanNegate: true, ValidOps: []string{"!="}},
	Is:                     {CanNegate: true, ValidOps: []string{"!="}},
}

// Interchangeable returns the filter types whose operator sets are
// merged with t when computing admissible operators for a user-facing
// operator picker. Currently only Date <-> SpecificDate.
func Interchangeable(t FilterType) []FilterType {
	switch t {
	case Date:
		return []FilterType{SpecificDate}
	case SpecificDate:
		return []FilterType{Date}
	default:
		return nil
	}
}

// CanNegate reports whether a filter of type t may carry the "!" prefix.
func CanNegate(t FilterType) bool {
	return filterTypeTable[t].CanNegate
}

// ValidOperator reports whether op is admissible for a filter of type t.
// "" is always admissible regardless of t.
func ValidOperator(t FilterType, op string) bool {
	if op == "" {
		return true
	}
	for _, o := range filterTypeTable[t].ValidOps {
		if o == op {
			return true
		}
	}
	return false
}

// Invalid is the structured verdict a Filter carries when it fails
// semantic validation. A nil *Invalid on a Filter means it is valid.
type Invalid struct {
	Reason       string
	ExpectedType []FilterType
}

// Filter is the center of the AST: a key, an optional comparison
// operator, a value, and optional negation, annotated after parsing
// with a validity verdict.
type Filter struct {
	Pos        Location
	Raw        string
	FilterType FilterType
	Key        Key
	Value      Value
	Operator   string
	Negated    bool
	Invalid    *Invalid
}

func (f *Filter) Kind() Kind     { return FilterKind }
func (f *Filter) Text() string   { return f.Raw }
func (f *Filter) Span() Location { return f.Pos }
func (f *Filter) IsValid() bool  { return f.Invalid == nil }
