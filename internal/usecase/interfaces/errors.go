package interfaces

import "errors"

// Errors every repository implementation reports in the same way so use cases can
// map them without knowing the storage engine.
var (
	// ErrDuplicateKey is returned when a business or natural key is already claimed.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrConditionFailed is returned when a guarded write lost its precondition.
	ErrConditionFailed = errors.New("write condition failed")
)
