package apply

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidInput is returned when the grouped collection or the group function is missing.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig is returned when an option carries a value outside its domain.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrShapeMismatch is returned when a group function produces no result of its
	// declared shape (a nil frame or a nil record).
	ErrShapeMismatch = errors.New("group result does not match declared shape")
)
