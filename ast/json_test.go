package ast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	doc := &Document{
		Terms: []Node{
			&FreeText{Pos: Location{Start: 0, End: 5}, Raw: "hello", Value: "hello"},
			&Spaces{Pos: Location{Start: 5, End: 6}, Raw: " "},
			&LogicBoolean{Pos: Location{Start: 6, End: 9}, Raw: "AND", Operator: "AND"},
			&Spaces{Pos: Location{Start: 9, End: 10}, Raw: " "},
			&LogicGroup{
				Pos: Location{Start: 10, End: 24},
				Raw: "(is:resolved)",
				Terms: []Node{
					&Filter{
						Pos:        Location{Start: 11, End: 23},
						Raw:        "is:resolved",
						FilterType: Is,
						Key:        KeySimple{Pos: Location{Start: 11, End: 13}, Raw: "is", Value: "is"},
						Value:      ValueText{Pos: Location{Start: 14, End: 23}, Raw: "resolved", Value: "resolved"},
					},
				},
			},
			&Filter{
				Pos:        Location{Start: 24, End: 45},
				Raw:        "p95(transaction.duration):>300ms",
				FilterType: AggregateDuration,
				Key: KeyAggregate{
					Pos:  Location{Start: 24, End: 50},
					Raw:  "p95(transaction.duration)",
					Func: KeySimple{Raw: "p95", Value: "p95"},
					Args: &KeyAggregateArgs{
						Args: []KeyAggregateArg{
							{Value: KeyAggregateParam{Raw: "transaction.duration", Value: "transaction.duration"}},
						},
					},
				},
				Value:    ValueDuration{Raw: "300ms", Value: 300, Unit: "ms"},
				Operator: ">",
			},
			&Filter{
				Pos:        Location{Start: 45, End: 70},
				Raw:        "event.timestamp:2024-01-01",
				FilterType: SpecificDate,
				Key:        KeySimple{Raw: "event.timestamp", Value: "event.timestamp"},
				Value:      ValueIso8601Date{Raw: "2024-01-01", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
				Invalid:    &Invalid{Reason: "value must not be blank", ExpectedType: []FilterType{Numeric}},
			},
		},
	}

	data, err := MarshalJSON(doc)
	require.NoError(t, err)

	got, err := UnmarshalJSON(data)
	require.NoError(t, err)

	require.Len(t, got.Terms, len(doc.Terms))
	for i, term := range got.Terms {
		require.Equal(t, doc.Terms[i].Text(), term.Text(), "term %d text mismatch", i)
		require.Equal(t, doc.Terms[i].Kind(), term.Kind(), "term %d kind mismatch", i)
	}

	lastFilter, ok := got.Terms[len(got.Terms)-1].(*Filter)
	require.True(t, ok, "expected last term to be *Filter, got %T", got.Terms[len(got.Terms)-1])
	require.NotNil(t, lastFilter.Invalid)
	require.Equal(t, "value must not be blank", lastFilter.Invalid.Reason)
	require.Equal(t, []FilterType{Numeric}, lastFilter.Invalid.ExpectedType)

	aggFilter, ok := got.Terms[5].(*Filter)
	require.True(t, ok, "expected term 5 to be *Filter, got %T", got.Terms[5])
	agg, ok := aggFilter.Key.(KeyAggregate)
	require.True(t, ok, "expected aggregate key, got %T", aggFilter.Key)
	require.Equal(t, "p95", agg.Func.Value)
	require.NotNil(t, agg.Args)
	require.Len(t, agg.Args.Args, 1)
	require.Equal(t, "transaction.duration", agg.Args.Args[0].Value.Value)
}

func TestDocumentTextRoundTripLaw(t *testing.T) {
	doc := &Document{
		Terms: []Node{
			&FreeText{Raw: "foo"},
			&Spaces{Raw: " "},
			&Filter{Raw: "bar:baz"},
			&Spaces{Raw: " "},
			&LogicGroup{Raw: "(a OR b)"},
		},
	}
	require.Equal(t, "foo bar:baz (a OR b)", doc.Text())
}
