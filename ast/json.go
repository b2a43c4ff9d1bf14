package ast

import (
	"encoding/json"
	"fmt"
	"time"
)

// The JSON wire format is a tagged-union encoding in the style of the
// teacher's graph serializer ({"kind": ..., "value": ...} per node):
// every node, key, and value variant carries its discriminator kind
// alongside its Text()/Span() and variant-specific fields. It exists for
// non-Go consumers (editor integrations, UI widgets) that walk the tree
// without linking against this package.

type wireLocation struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func locOf(l Location) wireLocation { return wireLocation{Start: l.Start, End: l.End} }
func (w wireLocation) loc() Location { return Location{Start: w.Start, End: w.End} }

type wireDocument struct {
	Terms []wireNode `json:"terms"`
}

type wireNode struct {
	Kind     string       `json:"kind"`
	Text     string       `json:"text"`
	Span     wireLocation `json:"span"`
	Operator string       `json:"operator,omitempty"` // LogicBoolean
	Terms    []wireNode   `json:"terms,omitempty"`    // LogicGroup
	Value    string       `json:"value,omitempty"`    // FreeText
	Quoted   bool         `json:"quoted,omitempty"`   // FreeText
	Filter   *wireFilter  `json:"filter,omitempty"`   // Filter
}

type wireFilter struct {
	FilterType string       `json:"filterType"`
	Key        wireKey      `json:"key"`
	Value      *wireValue   `json:"value,omitempty"`
	Operator   string       `json:"operator"`
	Negated    bool         `json:"negated"`
	Invalid    *wireInvalid `json:"invalid,omitempty"`
}

type wireKey struct {
	Kind        string       `json:"kind"`
	Text        string       `json:"text"`
	Span        wireLocation `json:"span"`
	Value       string       `json:"value,omitempty"`
	Quoted      bool         `json:"quoted,omitempty"`
	Prefix      string       `json:"prefix,omitempty"`
	Inner       *wireKey     `json:"inner,omitempty"`
	Func        *wireKey     `json:"func,omitempty"`
	Args        []wireKeyArg `json:"args,omitempty"`
	SpaceBefore bool         `json:"spaceBefore,omitempty"`
	SpaceAfter  bool         `json:"spaceAfter,omitempty"`
}

type wireKeyArg struct {
	Separator string  `json:"separator"`
	Value     wireKey `json:"value"`
}

type wireValue struct {
	Kind     string          `json:"kind"`
	Text     string          `json:"text"`
	Span     wireLocation    `json:"span"`
	Value    string          `json:"value,omitempty"`
	RawValue float64         `json:"rawValue,omitempty"`
	Unit     string          `json:"unit,omitempty"`
	Quoted   bool            `json:"quoted,omitempty"`
	Sign     string          `json:"sign,omitempty"`
	Items    []wireValueItem `json:"items,omitempty"`
}

type wireValueItem struct {
	Separator string    `json:"separator"`
	Value     wireValue `json:"value"`
}

type wireInvalid struct {
	Reason       string   `json:"reason"`
	ExpectedType []string `json:"expectedType,omitempty"`
}

// MarshalJSON encodes doc into the tagged-union wire format.
func MarshalJSON(doc *Document) ([]byte, error) {
	w := wireDocument{Terms: make([]wireNode, len(doc.Terms))}
	for i, t := range doc.Terms {
		w.Terms[i] = marshalNode(t)
	}
	return json.Marshal(w)
}

func marshalNode(n Node) wireNode {
	base := wireNode{Kind: n.Kind().String(), Text: n.Text(), Span: locOf(n.Span())}
	switch v := n.(type) {
	case *LogicBoolean:
		base.Operator = v.Operator
	case *LogicGroup:
		base.Terms = make([]wireNode, len(v.Terms))
		for i, t := range v.Terms {
			base.Terms[i] = marshalNode(t)
		}
	case *FreeText:
		base.Value = v.Value
		base.Quoted = v.Quoted
	case *Spaces:
		// no extra fields
	case *Filter:
		wf := marshalFilter(v)
		base.Filter = &wf
	default:
		panic(fmt.Sprintf("ast: unknown node type %T", n))
	}
	return base
}

func marshalFilter(f *Filter) wireFilter {
	wf := wireFilter{
		FilterType: f.FilterType.String(),
		Key:        marshalKey(f.Key),
		Operator:   f.Operator,
		Negated:    f.Negated,
	}
	if f.Value != nil {
		wv := marshalValue(f.Value)
		wf.Value = &wv
	}
	if f.Invalid != nil {
		wi := wireInvalid{Reason: f.Invalid.Reason}
		for _, et := range f.Invalid.ExpectedType {
			wi.ExpectedType = append(wi.ExpectedType, et.String())
		}
		wf.Invalid = &wi
	}
	return wf
}

func marshalKey(k Key) wireKey {
	base := wireKey{Kind: k.KeyKind().String(), Text: k.Text(), Span: locOf(k.Span())}
	switch v := k.(type) {
	case KeySimple:
		base.Value = v.Value
		base.Quoted = v.Quoted
	case KeyExplicitTag:
		base.Prefix = v.Prefix
		inner := marshalKey(v.Key)
		base.Inner = &inner
	case KeyAggregate:
		fn := marshalKey(v.Func)
		base.Func = &fn
		base.SpaceBefore = v.SpaceBefore
		base.SpaceAfter = v.SpaceAfter
		if v.Args != nil {
			for _, a := range v.Args.Args {
				base.Args = append(base.Args, wireKeyArg{
					Separator: a.Separator,
					Value: wireKey{
						Kind:  "KeyAggregateParam",
						Text:  a.Value.Raw,
						Span:  locOf(a.Value.Pos),
						Value: a.Value.Value,
						Quoted: a.Value.Quoted,
					},
				})
			}
		}
	}
	return base
}

func (k KeyKind) String() string {
	switch k {
	case KeySimpleKind:
		return "KeySimple"
	case KeyExplicitTagKind:
		return "KeyExplicitTag"
	case KeyAggregateKind:
		return "KeyAggregate"
	default:
		return "Unknown"
	}
}

func (v ValueKind) String() string {
	switch v {
	case ValueTextKind:
		return "ValueText"
	case ValueTextListKind:
		return "ValueTextList"
	case ValueNumberKind:
		return "ValueNumber"
	case ValueNumberListKind:
		return "ValueNumberList"
	case ValueBooleanKind:
		return "ValueBoolean"
	case ValueDurationKind:
		return "ValueDuration"
	case ValuePercentageKind:
		return "ValuePercentage"
	case ValueIso8601DateKind:
		return "ValueIso8601Date"
	case ValueRelativeDateKind:
		return "ValueRelativeDate"
	default:
		return "Unknown"
	}
}

func marshalValue(v Value) wireValue {
	base := wireValue{Kind: v.ValueKind().String(), Text: v.Text(), Span: locOf(v.Span())}
	switch val := v.(type) {
	case ValueText:
		base.Value = val.Value
		base.Quoted = val.Quoted
	case ValueTextList:
		for _, it := range val.Items {
			base.Items = append(base.Items, wireValueItem{
				Separator: it.Separator,
				Value:     marshalValue(it.Value),
			})
		}
	case ValueNumber:
		base.Value = val.Value
		base.RawValue = val.RawValue
		base.Unit = val.Unit
	case ValueNumberList:
		for _, it := range val.Items {
			base.Items = append(base.Items, wireValueItem{
				Separator: it.Separator,
				Value:     marshalValue(it.Value),
			})
		}
	case ValueBoolean:
		base.RawValue = boolToFloat(val.Value)
	case ValueDuration:
		base.RawValue = val.Value
		base.Unit = val.Unit
	case ValuePercentage:
		base.RawValue = val.Value
	case ValueIso8601Date:
		base.Value = val.Value.UTC().Format(time.RFC3339)
		base.RawValue = float64(val.Value.Unix())
	case ValueRelativeDate:
		base.RawValue = val.Value
		base.Sign = val.Sign
		base.Unit = val.Unit
	}
	return base
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// UnmarshalJSON decodes the tagged-union wire format produced by
// MarshalJSON back into a Document.
func UnmarshalJSON(data []byte) (*Document, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	doc := &Document{Terms: make([]Node, len(w.Terms))}
	for i, wn := range w.Terms {
		n, err := unmarshalNode(wn)
		if err != nil {
			return nil, err
		}
		doc.Terms[i] = n
	}
	return doc, nil
}

func unmarshalNode(w wireNode) (Node, error) {
	loc := w.Span.loc()
	switch w.Kind {
	case "LogicBoolean":
		return &LogicBoolean{Pos: loc, Raw: w.Text, Operator: w.Operator}, nil
	case "LogicGroup":
		terms := make([]Node, len(w.Terms))
		for i, wt := range w.Terms {
			n, err := unmarshalNode(wt)
			if err != nil {
				return nil, err
			}
			terms[i] = n
		}
		return &LogicGroup{Pos: loc, Raw: w.Text, Terms: terms}, nil
	case "FreeText":
		return &FreeText{Pos: loc, Raw: w.Text, Value: w.Value, Quoted: w.Quoted}, nil
	case "Spaces":
		return &Spaces{Pos: loc, Raw: w.Text}, nil
	case "Filter":
		if w.Filter == nil {
			return nil, fmt.Errorf("ast: Filter node missing filter payload")
		}
		return unmarshalFilter(loc, w.Text, *w.Filter)
	default:
		return nil, fmt.Errorf("ast: unknown node kind %q", w.Kind)
	}
}

var filterTypeByName = func() map[string]FilterType {
	m := make(map[string]FilterType, len(filterTypeTable))
	for t := range filterTypeTable {
		m[t.String()] = t
	}
	return m
}()

func unmarshalFilter(loc Location, text string, w wireFilter) (*Filter, error) {
	ft, ok := filterTypeByName[w.FilterType]
	if !ok {
		return nil, fmt.Errorf("ast: unknown filter type %q", w.FilterType)
	}
	key, err := unmarshalKey(w.Key)
	if err != nil {
		return nil, err
	}
	f := &Filter{
		Pos:        loc,
		Raw:        text,
		FilterType: ft,
		Key:        key,
		Operator:   w.Operator,
		Negated:    w.Negated,
	}
	if w.Value != nil {
		val, err := unmarshalValue(*w.Value)
		if err != nil {
			return nil, err
		}
		f.Value = val
	}
	if w.Invalid != nil {
		inv := &Invalid{Reason: w.Invalid.Reason}
		for _, name := range w.Invalid.ExpectedType {
			ft, ok := filterTypeByName[name]
			if !ok {
				return nil, fmt.Errorf("ast: unknown expectedType filter %q", name)
			}
			inv.ExpectedType = append(inv.ExpectedType, ft)
		}
		f.Invalid = inv
	}
	return f, nil
}

func unmarshalKey(w wireKey) (Key, error) {
	loc := w.Span.loc()
	switch w.Kind {
	case "KeySimple":
		return KeySimple{Pos: loc, Raw: w.Text, Value: w.Value, Quoted: w.Quoted}, nil
	case "KeyExplicitTag":
		if w.Inner == nil {
			return nil, fmt.Errorf("ast: KeyExplicitTag missing inner key")
		}
		inner, err := unmarshalKey(*w.Inner)
		if err != nil {
			return nil, err
		}
		simple, ok := inner.(KeySimple)
		if !ok {
			return nil, fmt.Errorf("ast: KeyExplicitTag inner key must be KeySimple")
		}
		return KeyExplicitTag{Pos: loc, Raw: w.Text, Prefix: w.Prefix, Key: simple}, nil
	case "KeyAggregate":
		if w.Func == nil {
			return nil, fmt.Errorf("ast: KeyAggregate missing func")
		}
		fnKey, err := unmarshalKey(*w.Func)
		if err != nil {
			return nil, err
		}
		fn, ok := fnKey.(KeySimple)
		if !ok {
			return nil, fmt.Errorf("ast: KeyAggregate func must be KeySimple")
		}
		agg := KeyAggregate{Pos: loc, Raw: w.Text, Func: fn, SpaceBefore: w.SpaceBefore, SpaceAfter: w.SpaceAfter}
		if len(w.Args) > 0 {
			args := &KeyAggregateArgs{Pos: loc, Raw: w.Text}
			for _, a := range w.Args {
				args.Args = append(args.Args, KeyAggregateArg{
					Separator: a.Separator,
					Value: KeyAggregateParam{
						Pos:    a.Value.Span.loc(),
						Raw:    a.Value.Text,
						Value:  a.Value.Value,
						Quoted: a.Value.Quoted,
					},
				})
			}
			agg.Args = args
		}
		return agg, nil
	default:
		return nil, fmt.Errorf("ast: unknown key kind %q", w.Kind)
	}
}

func unmarshalValue(w wireValue) (Value, error) {
	loc := w.Span.loc()
	switch w.Kind {
	case "ValueText":
		return ValueText{Pos: loc, Raw: w.Text, Value: w.Value, Quoted: w.Quoted}, nil
	case "ValueTextList":
		items, err := unmarshalTextItems(w.Items)
		if err != nil {
			return nil, err
		}
		return ValueTextList{Pos: loc, Raw: w.Text, Items: items}, nil
	case "ValueNumber":
		return ValueNumber{Pos: loc, Raw: w.Text, Value: w.Value, RawValue: w.RawValue, Unit: w.Unit}, nil
	case "ValueNumberList":
		items, err := unmarshalNumberItems(w.Items)
		if err != nil {
			return nil, err
		}
		return ValueNumberList{Pos: loc, Raw: w.Text, Items: items}, nil
	case "ValueBoolean":
		return ValueBoolean{Pos: loc, Raw: w.Text, Value: w.RawValue != 0}, nil
	case "ValueDuration":
		return ValueDuration{Pos: loc, Raw: w.Text, Value: w.RawValue, Unit: w.Unit}, nil
	case "ValuePercentage":
		return ValuePercentage{Pos: loc, Raw: w.Text, Value: w.RawValue}, nil
	case "ValueIso8601Date":
		t, err := time.Parse(time.RFC3339, w.Value)
		if err != nil {
			return nil, err
		}
		return ValueIso8601Date{Pos: loc, Raw: w.Text, Value: t}, nil
	case "ValueRelativeDate":
		return ValueRelativeDate{Pos: loc, Raw: w.Text, Value: w.RawValue, Sign: w.Sign, Unit: w.Unit}, nil
	default:
		return nil, fmt.Errorf("ast: unknown value kind %q", w.Kind)
	}
}

func unmarshalTextItems(items []wireValueItem) ([]ValueTextListItem, error) {
	out := make([]ValueTextListItem, len(items))
	for i, it := range items {
		v, err := unmarshalValue(it.Value)
		if err != nil {
			return nil, err
		}
		vt, ok := v.(ValueText)
		if !ok {
			return nil, fmt.Errorf("ast: ValueTextList item must be ValueText")
		}
		out[i] = ValueTextListItem{Separator: it.Separator, Value: vt}
	}
	return out, nil
}

func unmarshalNumberItems(items []wireValueItem) ([]ValueNumberListItem, error) {
	out := make([]ValueNumberListItem, len(items))
	for i, it := range items {
		v, err := unmarshalValue(it.Value)
		if err != nil {
			return nil, err
		}
		vn, ok := v.(ValueNumber)
		if !ok {
			return nil, fmt.Errorf("ast: ValueNumberList item must be ValueNumber")
		}
		out[i] = ValueNumberListItem{Separator: it.Separator, Value: vn}
	}
	return out, nil
}
