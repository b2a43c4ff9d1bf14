package ast

import "time"

// ValueKind discriminates the Value subtree variants.
type ValueKind int

const (
	ValueTextKind ValueKind = iota
	ValueTextListKind
	ValueNumberKind
	ValueNumberListKind
	ValueBooleanKind
	ValueDurationKind
	ValuePercentageKind
	ValueIso8601DateKind
	ValueRelativeDateKind
)

// Value is the right-hand side of a Filter.
type Value interface {
	ValueKind() ValueKind
	Text() string
	Span() Location
}

// ValueText is a quoted or bare text literal.
type ValueText struct {
	Pos    Location
	Raw    string
	Value  string
	Quoted bool
}

func (v ValueText) ValueKind() ValueKind { return ValueTextKind }
func (v ValueText) Text() string         { return v.Raw }
func (v ValueText) Span() Location       { return v.Pos }

// ValueTextListItem pairs a text item with the separator text (e.g. ",")
// that preceded it; the first item's separator is always "".
type ValueTextListItem struct {
	Separator string
	Value     ValueText
}

// ValueTextList is a bracketed list of text values, e.g. [a,b,"c d"].
type ValueTextList struct {
	Pos   Location
	Raw   string
	Items []ValueTextListItem
}

func (v ValueTextList) ValueKind() ValueKind { return ValueTextListKind }
func (v ValueTextList) Text() string         { return v.Raw }
func (v ValueTextList) Span() Location       { return v.Pos }

// ValueNumber is a numeric literal, optionally suffixed with a k/m/b
// magnitude shorthand. RawValue already has the suffix multiplier applied.
type ValueNumber struct {
	Pos      Location
	Raw      string
	Value    string // the numeric portion of Raw, without the unit suffix
	RawValue float64
	Unit     string // "", "k", "m", or "b"
}

func (v ValueNumber) ValueKind() ValueKind { return ValueNumberKind }
func (v ValueNumber) Text() string         { return v.Raw }
func (v ValueNumber) Span() Location       { return v.Pos }

// ValueNumberListItem pairs a number item with its preceding separator.
type ValueNumberListItem struct {
	Separator string
	Value     ValueNumber
}

// ValueNumberList is a bracketed list of numeric values, e.g. [1,2,3].
type ValueNumberList struct {
	Pos   Location
	Raw   string
	Items []ValueNumberListItem
}

func (v ValueNumberList) ValueKind() ValueKind { return ValueNumberListKind }
func (v ValueNumberList) Text() string         { return v.Raw }
func (v ValueNumberList) Span() Location       { return v.Pos }

// ValueBoolean is true iff the raw token lowercased is "1" or "true".
type ValueBoolean struct {
	Pos   Location
	Raw   string
	Value bool
}

func (v ValueBoolean) ValueKind() ValueKind { return ValueBooleanKind }
func (v ValueBoolean) Text() string         { return v.Raw }
func (v ValueBoolean) Span() Location       { return v.Pos }

// ValueDuration is a number followed by a duration unit suffix.
type ValueDuration struct {
	Pos   Location
	Raw   string
	Value float64
	Unit  string // ms, s, min, m, hr, h, day, d, wk, w
}

func (v ValueDuration) ValueKind() ValueKind { return ValueDurationKind }
func (v ValueDuration) Text() string         { return v.Raw }
func (v ValueDuration) Span() Location       { return v.Pos }

// ValuePercentage stores the number as written (e.g. 50 from "50%"), not
// divided by 100. Downstream threshold comparisons must account for this.
type ValuePercentage struct {
	Pos   Location
	Raw   string
	Value float64
}

func (v ValuePercentage) ValueKind() ValueKind { return ValuePercentageKind }
func (v ValuePercentage) Text() string         { return v.Raw }
func (v ValuePercentage) Span() Location       { return v.Pos }

// ValueIso8601Date is a normalized UTC timestamp parsed from a date-only
// or full ISO-8601 datetime literal.
type ValueIso8601Date struct {
	Pos   Location
	Raw   string
	Value time.Time
}

func (v ValueIso8601Date) ValueKind() ValueKind { return ValueIso8601DateKind }
func (v ValueIso8601Date) Text() string         { return v.Raw }
func (v ValueIso8601Date) Span() Location       { return v.Pos }

// ValueRelativeDate is a signed offset from now, e.g. -24h or +7d.
type ValueRelativeDate struct {
	Pos   Location
	Raw   string
	Value float64
	Sign  string // "+" or "-"
	Unit  string // w, d, h, or m
}

func (v ValueRelativeDate) ValueKind() ValueKind { return ValueRelativeDateKind }
func (v ValueRelativeDate) Text() string         { return v.Raw }
func (v ValueRelativeDate) Span() Location       { return v.Pos }
