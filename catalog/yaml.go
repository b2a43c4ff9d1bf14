package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlDoc is the on-disk shape accepted by Load/LoadFile. It mirrors
// Config field-for-field but keeps sets as plain string lists and value
// types as strings, the way the teacher's serialization package keeps a
// parallel "wire" struct alongside the in-memory domain type.
type yamlDoc struct {
	NumericKeys      []string `yaml:"numericKeys"`
	BooleanKeys      []string `yaml:"booleanKeys"`
	PercentageKeys   []string `yaml:"percentageKeys"`
	DateKeys         []string `yaml:"dateKeys"`
	DurationKeys     []string `yaml:"durationKeys"`
	TextOperatorKeys []string `yaml:"textOperatorKeys"`
	AllowBoolean     bool     `yaml:"allowBoolean"`

	Fields map[string]yamlField `yaml:"fields"`
	Aggregations map[string][]yamlParameter `yaml:"aggregations"`
}

type yamlField struct {
	Kind               string `yaml:"kind"`
	ValueType          string `yaml:"valueType"`
	AllowTextOperators bool   `yaml:"allowTextOperators"`
	Deprecated         bool   `yaml:"deprecated"`
	Desc               string `yaml:"desc"`
}

type yamlParameter struct {
	Kind        string   `yaml:"kind"`
	Name        string   `yaml:"name"`
	Required    bool     `yaml:"required"`
	ColumnTypes []string `yaml:"columnTypes"`
	Options     []string `yaml:"options"`
	DataType    string   `yaml:"dataType"`
}

// Load parses a YAML catalog document from r.
func Load(r io.Reader) (*Config, error) {
	var doc yamlDoc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &Config{}, nil
		}
		return nil, newConfigError("InvalidYAML", "%v", err)
	}
	return fromYAMLDoc(doc)
}

// LoadFile parses a YAML catalog document from the file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newConfigError("OpenFailed", "%v", err)
	}
	defer f.Close()
	return Load(f)
}

func toSet(keys []string) map[string]struct{} {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func fromYAMLDoc(doc yamlDoc) (*Config, error) {
	cfg := &Config{
		NumericKeys:      toSet(doc.NumericKeys),
		BooleanKeys:      toSet(doc.BooleanKeys),
		PercentageKeys:   toSet(doc.PercentageKeys),
		DateKeys:         toSet(doc.DateKeys),
		DurationKeys:     toSet(doc.DurationKeys),
		TextOperatorKeys: toSet(doc.TextOperatorKeys),
		AllowBoolean:     doc.AllowBoolean,
		FieldDefinitions: make(map[string]FieldDefinition, len(doc.Fields)),
		Aggregations:     make(map[string]Aggregation, len(doc.Aggregations)),
	}

	for name, f := range doc.Fields {
		kind, err := parseFieldKind(f.Kind)
		if err != nil {
			return nil, err
		}
		vt, err := parseValueType(f.ValueType)
		if err != nil {
			return nil, err
		}
		cfg.FieldDefinitions[name] = FieldDefinition{
			Kind:               kind,
			ValueType:          vt,
			AllowTextOperators: f.AllowTextOperators,
			Deprecated:         f.Deprecated,
			Desc:               f.Desc,
		}
	}

	for name, params := range doc.Aggregations {
		agg := Aggregation{}
		for i, p := range params {
			param, err := parseParameter(p)
			if err != nil {
				return nil, fmt.Errorf("aggregation %q argument %d: %w", name, i, err)
			}
			agg.Parameters = append(agg.Parameters, param)
		}
		cfg.Aggregations[name] = agg
		if fd, ok := cfg.FieldDefinitions[name]; ok {
			fd.Parameters = agg.Parameters
			cfg.FieldDefinitions[name] = fd
		}
	}

	return cfg, nil
}

func parseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "field", "":
		return FieldKindField, nil
	case "function":
		return FieldKindFunction, nil
	default:
		return 0, newConfigError("UnknownFieldKind", "unknown field kind %q", s)
	}
}

func parseValueType(s string) (ValueType, error) {
	switch s {
	case "string", "":
		return ValueTypeString, nil
	case "number":
		return ValueTypeNumber, nil
	case "integer":
		return ValueTypeInteger, nil
	case "duration":
		return ValueTypeDuration, nil
	case "date":
		return ValueTypeDate, nil
	case "percentage":
		return ValueTypePercentage, nil
	case "boolean":
		return ValueTypeBoolean, nil
	default:
		return 0, newConfigError("UnknownValueType", "unknown value type %q", s)
	}
}

func parseParameter(p yamlParameter) (AggregateParameter, error) {
	param := AggregateParameter{Name: p.Name, Required: p.Required}
	switch p.Kind {
	case "column":
		param.Kind = ParameterKindColumn
		for _, ct := range p.ColumnTypes {
			vt, err := parseValueType(ct)
			if err != nil {
				return param, err
			}
			param.ColumnTypes = append(param.ColumnTypes, vt)
		}
	case "dropdown":
		param.Kind = ParameterKindDropdown
		for _, o := range p.Options {
			param.Options = append(param.Options, DropdownOption{Value: o})
		}
	case "value":
		param.Kind = ParameterKindValue
		vt, err := parseValueType(p.DataType)
		if err != nil {
			return param, err
		}
		param.DataType = vt
	default:
		return param, newConfigError("UnknownParameterKind", "unknown aggregate parameter kind %q", p.Kind)
	}
	return param, nil
}
