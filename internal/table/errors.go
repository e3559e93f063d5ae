package table

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is matched by every ColumnNotFoundError.
	ErrColumnNotFound = errors.New("column not found")
	// ErrTypeMismatch is matched by every TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ColumnNotFoundError reports a label that resolves to no header.
type ColumnNotFoundError struct {
	Label string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q", e.Label)
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// TypeMismatchError reports an operation that needs numeric data but got
// something else, e.g. a line chart over a categorical column.
type TypeMismatchError struct {
	Column string
	Reason string
}

func (e *TypeMismatchError) Error() string {
	if e.Column == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Column, e.Reason)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }
