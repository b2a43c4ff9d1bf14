package catalog

// Default returns a small built-in catalog covering the keys and
// aggregates used throughout this repository's tests and examples. It
// is the catalog the CLI and HTTP service fall back to when none is
// supplied.
func Default() *Config {
	cfg := &Config{
		NumericKeys:      toSet([]string{"timesSeen", "transaction.duration", "p95", "quux"}),
		BooleanKeys:      toSet([]string{"error.handled", "stack.in_app"}),
		PercentageKeys:   nil,
		DateKeys:         toSet([]string{"event.timestamp", "firstSeen", "lastSeen"}),
		DurationKeys:     toSet([]string{"duration", "transaction.duration"}),
		TextOperatorKeys: toSet([]string{"release"}),
		AllowBoolean:     true,
		FieldDefinitions: map[string]FieldDefinition{
			"is":                    {Kind: FieldKindField, ValueType: ValueTypeString},
			"has":                   {Kind: FieldKindField, ValueType: ValueTypeString},
			"message":               {Kind: FieldKindField, ValueType: ValueTypeString},
			"browser.name":          {Kind: FieldKindField, ValueType: ValueTypeString},
			"release":               {Kind: FieldKindField, ValueType: ValueTypeString, AllowTextOperators: true},
			"event.timestamp":       {Kind: FieldKindField, ValueType: ValueTypeDate},
			"firstSeen":             {Kind: FieldKindField, ValueType: ValueTypeDate},
			"lastSeen":              {Kind: FieldKindField, ValueType: ValueTypeDate},
			"duration":              {Kind: FieldKindField, ValueType: ValueTypeDuration},
			"transaction.duration":  {Kind: FieldKindField, ValueType: ValueTypeNumber},
			"timesSeen":             {Kind: FieldKindField, ValueType: ValueTypeNumber},
			"quux":                  {Kind: FieldKindField, ValueType: ValueTypeNumber},
			"error.handled":         {Kind: FieldKindField, ValueType: ValueTypeBoolean},
			"stack.in_app":          {Kind: FieldKindField, ValueType: ValueTypeBoolean},
			"count":                 {Kind: FieldKindFunction, ValueType: ValueTypeNumber},
			"p50":                   {Kind: FieldKindFunction, ValueType: ValueTypeDuration},
			"p95":                   {Kind: FieldKindFunction, ValueType: ValueTypeDuration},
			"p99":                   {Kind: FieldKindFunction, ValueType: ValueTypeDuration},
			"apdex":                 {Kind: FieldKindFunction, ValueType: ValueTypePercentage},
			"failure_rate":          {Kind: FieldKindFunction, ValueType: ValueTypePercentage},
		},
		Aggregations: map[string]Aggregation{
			"count": {},
			"p50": {Parameters: []AggregateParameter{
				{Kind: ParameterKindColumn, Name: "column", Required: true, ColumnTypes: []ValueType{ValueTypeDuration, ValueTypeNumber}},
			}},
			"p95": {Parameters: []AggregateParameter{
				{Kind: ParameterKindColumn, Name: "column", Required: true, ColumnTypes: []ValueType{ValueTypeDuration, ValueTypeNumber}},
			}},
			"p99": {Parameters: []AggregateParameter{
				{Kind: ParameterKindColumn, Name: "column", Required: true, ColumnTypes: []ValueType{ValueTypeDuration, ValueTypeNumber}},
			}},
			"apdex": {Parameters: []AggregateParameter{
				{Kind: ParameterKindValue, Name: "threshold", Required: true, DataType: ValueTypeNumber},
			}},
			"failure_rate": {},
		},
	}
	for name, agg := range cfg.Aggregations {
		if fd, ok := cfg.FieldDefinitions[name]; ok {
			fd.Parameters = agg.Parameters
			cfg.FieldDefinitions[name] = fd
		}
	}
	return cfg
}
