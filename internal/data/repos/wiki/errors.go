package wiki

import "errors"

var (
	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
)
