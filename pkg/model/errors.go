package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the class of errors caused by a caller referencing a
// field, pattern or type that cannot be used
var ErrInvalidInput = errors.New("invalid input")

// FieldNotFoundError is returned when a filter or sort references a field
// that a node does not have
type FieldNotFoundError struct {
	Field  string
	NodeID string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field not found: %s (node %s)", e.Field, e.NodeID)
}

// Unwrap classifies the error as invalid input
func (e *FieldNotFoundError) Unwrap() error {
	return ErrInvalidInput
}

// PatternError is returned when a regular expression fails to compile
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns both the invalid input class and the regex engine's error
func (e *PatternError) Unwrap() []error {
	return []error{ErrInvalidInput, e.Err}
}

// UnknownTypeError is returned when a type path is not in the registry
type UnknownTypeError struct {
	Path string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Path)
}

// Unwrap classifies the error as invalid input
func (e *UnknownTypeError) Unwrap() error {
	return ErrInvalidInput
}
