package types

import "fmt"

// ConfigError reports a configuration value that could not be used as given.
type ConfigError struct {
	Err   error
	Key   string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
