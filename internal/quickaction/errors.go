package quickaction

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned for an action kind outside the closed set
var ErrUnknownKind = errors.New("unknown quick action")

// ValidationError means the action could not run with the data at hand. Nothing was
// opened or recorded.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuditError means the action itself succeeded but recording it failed
type AuditError struct {
	Err error
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("action done but interaction not recorded: %v", e.Err)
}

func (e *AuditError) Unwrap() error {
	return e.Err
}
