package repository

import "errors"

var (
	// ErrNotFound means no row matched. Services translate it into their own
	// not-found errors so the storage engine never leaks upward.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate means an insert hit a unique key, such as a registered
	// email address.
	ErrDuplicate = errors.New("record already exists")

	// ErrInvalidTable means a reset named a table outside the whitelist
	ErrInvalidTable = errors.New("invalid table name")
)
