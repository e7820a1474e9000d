package particle

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid construction parameter. It is returned at
// build time only; a running system never surfaces it.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("particle config: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ErrInvalidTimestep is returned by System.Update when dt is negative or
// non-finite. The call is a no-op; pool state is untouched.
var ErrInvalidTimestep = errors.New("particle: invalid timestep")
