package api

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned by Send while the category is disabled.
	ErrDisabled = errors.New("gqlreq/api: category disabled")

	// ErrPlugin is the sentinel matched by every PluginError.
	ErrPlugin = errors.New("gqlreq/api: plugin error")
)

// PluginError reports a registry failure or a failure of the plugin itself.
type PluginError struct {
	Key     string // Plugin key
	Message string
	Cause   error // Error returned by the plugin, if any
}

// Error returns the error string.
func (e *PluginError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gqlreq/api: plugin %q: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("gqlreq/api: plugin %q: %s", e.Key, e.Message)
}

// Unwrap returns the plugin's own error.
func (e *PluginError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches PluginError.
func (e *PluginError) Is(err error) bool {
	return err == ErrPlugin
}

// NewPluginError returns a new PluginError.
func NewPluginError(key, message string, cause error) *PluginError {
	return &PluginError{Key: key, Message: message, Cause: cause}
}

// IsPluginError returns true if the error is a PluginError.
func IsPluginError(err error) bool {
	if err == nil {
		return false
	}
	var e *PluginError
	return errors.As(err, &e)
}

// IsDisabled returns true if the error reports a disabled category.
func IsDisabled(err error) bool {
	return errors.Is(err, ErrDisabled)
}
