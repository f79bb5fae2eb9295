package processors

import (
	"errors"
	"fmt"
)

// ErrValidationFailed is wrapped by every ValidationError so callers can use errors.Is.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError reports malformed input. The engine does not run at all when
// one is returned. Index is -1 for errors about the batch as a whole.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("transaction %d: %s: %s", e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
