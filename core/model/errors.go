package model

import (
	"errors"
	"fmt"
)

// StartupError reports a failure that prevents the process from starting.
type StartupError struct {
	Op  string
	Err error
}

func (e *StartupError) Error() string { return fmt.Sprintf("startup %s: %v", e.Op, e.Err) }

func (e *StartupError) Unwrap() error { return e.Err }

// CycleError reports a failure that aborts a single check cycle.
type CycleError struct {
	Stage string
	Err   error
}

func (e *CycleError) Error() string { return fmt.Sprintf("cycle %s: %v", e.Stage, e.Err) }

func (e *CycleError) Unwrap() error { return e.Err }

// IsStartup reports whether err is or wraps a StartupError.
func IsStartup(err error) bool {
	var se *StartupError
	return errors.As(err, &se)
}

// IsCycle reports whether err is or wraps a CycleError.
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
