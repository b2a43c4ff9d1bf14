package catalog

import "fmt"

// ConfigError reports a malformed catalog document, grounded on the
// teacher's per-package {Kind, Message} typed-error convention.
type ConfigError struct {
	Kind    string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("catalog error (%v): %v", e.Kind, e.Message)
}

func newConfigError(kind, format string, args ...any) error {
	return ConfigError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
