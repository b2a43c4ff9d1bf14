package catalog

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigImplicitMeasurements(t *testing.T) {
	cfg := &Config{}
	require.True(t, cfg.IsNumeric("measurements.lcp"), "measurements.* should be implicitly numeric")
	require.True(t, cfg.IsDuration("measurements.lcp"), "measurements.lcp should be implicitly duration-typed")
	require.False(t, cfg.IsDuration("measurements.custom_metric"), "measurements.custom_metric has no duration hint")
	require.True(t, cfg.IsNumeric("measurements.custom_metric"), "measurements.* should always be numeric")
}

func TestConfigImplicitSpanOpBreakdowns(t *testing.T) {
	cfg := &Config{}
	require.True(t, cfg.IsNumeric("spans.db"), "spans.* should be implicitly numeric")
	require.True(t, cfg.IsDuration("spans.db"), "spans.* should be implicitly duration-typed")
}

func TestConfigExplicitSetsAndNilSafety(t *testing.T) {
	var cfg *Config
	require.False(t, cfg.IsNumeric("anything") || cfg.IsBoolean("anything") || cfg.IsDate("anything"),
		"nil *Config should answer false for every predicate")
	require.False(t, cfg.AllowsBoolean(), "nil *Config should not allow boolean operators")

	cfg = &Config{
		NumericKeys: toSet([]string{"timesSeen"}),
		BooleanKeys: toSet([]string{"error.handled"}),
	}
	require.True(t, cfg.IsNumeric("timesSeen"))
	require.False(t, cfg.IsNumeric("other"), "uncataloged key should not report numeric")
	require.True(t, cfg.IsBoolean("error.handled"))
}

func TestConfigAllowsTextOperator(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.AllowsTextOperator("release"), "release is cataloged as allowing text operators")
	require.False(t, cfg.AllowsTextOperator("message"), "message should not allow text operators by default")
}

func TestLoadYAMLDocument(t *testing.T) {
	doc := `
numericKeys: [quux]
booleanKeys: [flag]
allowBoolean: true
fields:
  quux:
    kind: field
    valueType: number
  p95:
    kind: function
    valueType: duration
aggregations:
  p95:
    - kind: column
      name: column
      required: true
      columnTypes: [duration, number]
`
	cfg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.True(t, cfg.IsNumeric("quux"))
	require.True(t, cfg.AllowsBoolean())

	fd, ok := cfg.FieldDefinition("p95")
	require.True(t, ok)
	require.Equal(t, FieldKindFunction, fd.Kind)
	require.Equal(t, ValueTypeDuration, fd.ValueType)

	agg, ok := cfg.Aggregation("p95")
	require.True(t, ok)
	require.Len(t, agg.Parameters, 1)

	param := agg.Parameters[0]
	require.Equal(t, ParameterKindColumn, param.Kind)
	require.True(t, param.Required)
	require.Len(t, param.ColumnTypes, 2)
}

func TestLoadEmptyDocument(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	require.False(t, cfg.IsNumeric("anything"), "empty document should catalog nothing explicitly")
}

func TestLoadInvalidFieldKind(t *testing.T) {
	_, err := Load(strings.NewReader("fields:\n  x:\n    kind: bogus\n"))
	require.Error(t, err)
	var ce ConfigError
	require.True(t, asConfigError(err, &ce), "expected a ConfigError, got %T", err)
}

func asConfigError(err error, out *ConfigError) bool {
	ce, ok := err.(ConfigError)
	if ok {
		*out = ce
	}
	return ok
}

// TestConfigConcurrentReads exercises the concurrency guarantee a Config
// is documented to provide: a single, never-mutated instance safely
// shared across many goroutines issuing predicate reads simultaneously.
func TestConfigConcurrentReads(t *testing.T) {
	cfg := Default()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = cfg.IsNumeric("timesSeen")
				_ = cfg.IsBoolean("error.handled")
				_ = cfg.IsDate("event.timestamp")
				_, _ = cfg.FieldDefinition("p95")
				_, _ = cfg.Aggregation("p95")
			}
		}()
	}
	wg.Wait()
}
