package domain

import "fmt"

// ConfigError reports content or configuration data the server cannot play with.
type ConfigError struct {
	Table  string
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config error in %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("config error in %s[%s]: %s", e.Table, e.Key, e.Reason)
}
