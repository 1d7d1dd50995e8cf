package lender

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory signals a category tag with no registered schema.
	ErrUnknownCategory = errors.New("lender: unknown category")
	// ErrValidation signals a missing or invalid required field.
	ErrValidation = errors.New("lender: validation failed")
	// ErrNotFound signals a mutation against an id that is not in the cache.
	ErrNotFound = errors.New("lender: not found")
	// ErrDuplicate signals a uniqueness violation in the backing store.
	ErrDuplicate = errors.New("lender: duplicate record")
	// ErrInvalidCriteria signals filter criteria that reference unknown values.
	ErrInvalidCriteria = errors.New("lender: invalid criteria")
)

// PersistenceError wraps a backing-store failure. The cache is guaranteed to
// be unchanged when a mutation returns one.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("lender: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
