package finance

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for out-of-range or non-positive assumptions
var ErrInvalidInput = errors.New("invalid input")

// InputError names the assumption that failed validation
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
