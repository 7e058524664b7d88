package core

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the store falls in one of them
// and can be matched with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrDuplicateName = errors.New("duplicate name")
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage error")
)

var (
	ErrEmptyName         = fmt.Errorf("%w: empty name", ErrValidation)
	ErrNameTooLong       = fmt.Errorf("%w: name too long (max %d characters)", ErrValidation, MaxNameLength)
	ErrNegativeMacro     = fmt.Errorf("%w: macro values must be non-negative", ErrValidation)
	ErrNonFiniteValue    = fmt.Errorf("%w: value must be a finite number", ErrValidation)
	ErrInvalidMultiplier = fmt.Errorf("%w: multiplier must be within [%g, %g]", ErrValidation, MinMultiplier, MaxMultiplier)
	ErrInvalidDate       = fmt.Errorf("%w: date must be a calendar day in YYYY-MM-DD form", ErrValidation)
	ErrInvalidWeight     = fmt.Errorf("%w: weight must be positive", ErrValidation)
	ErrNegativeTarget    = fmt.Errorf("%w: per-kg targets must be non-negative", ErrValidation)
	ErrSameDay           = fmt.Errorf("%w: source and target day are the same", ErrValidation)
	ErrInvalidQuantity   = fmt.Errorf("%w: invalid quantity", ErrValidation)
)

// StorageError wraps a failure of the underlying database. The driver error
// is kept as is and reachable through errors.Unwrap / errors.As.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports ErrStorage as matching so callers can test the category.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
