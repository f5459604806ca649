package repositories

import "errors"

var (
	// ErrDuplicateIdentifier marks a unique-constraint violation on t_number
	ErrDuplicateIdentifier = errors.New("duplicate treaty number")

	// ErrNotFound marks a locally missing member/profile/family during apply
	ErrNotFound = errors.New("record not found")
)
