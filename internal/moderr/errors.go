package moderr

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied marks a moderation action the caller lacks rank or
	// platform permission for.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound marks an operation on a user with no stored data.
	ErrNotFound = errors.New("not found")
)

// ConfigError reports an invalid auto-moderation setting name or value.
// No mutation is performed when it is returned.
type ConfigError struct {
	Setting string
	Value   string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid setting %q=%q: %s", e.Setting, e.Value, e.Reason)
}

// PersistenceError wraps an I/O failure on a store load or save.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
