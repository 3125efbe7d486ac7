package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is one diagnostic: the offending field, the constraint it broke
// and the value that was received. Path uses dotted JSON keys with [i] for
// array elements; an empty Path refers to the payload itself.
type FieldError struct {
	Path       string `json:"path"`
	Constraint string `json:"constraint"`
	Received   any    `json:"received,omitempty"`
}

func (f FieldError) String() string {
	path := f.Path
	if path == "" {
		path = "(root)"
	}
	if f.Received == nil {
		return fmt.Sprintf("%s: %s", path, f.Constraint)
	}
	return fmt.Sprintf("%s: %s (received %v)", path, f.Constraint, f.Received)
}

// ValidationError is the only error the registry returns.
type ValidationError struct {
	Direction Direction    `json:"direction"`
	Fields    []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("invalid %s message: %s", e.Direction, strings.Join(parts, "; "))
}

// Has reports whether any diagnostic points at path.
func (e *ValidationError) Has(path string) bool {
	for _, f := range e.Fields {
		if f.Path == path {
			return true
		}
	}
	return false
}

// AsValidationError unwraps err to a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func newValidationError(dir Direction, fields ...FieldError) *ValidationError {
	return &ValidationError{Direction: dir, Fields: fields}
}
