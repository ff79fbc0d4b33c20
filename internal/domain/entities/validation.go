package entities

import (
	"errors"
	"fmt"
)

// ValidationError reports a field that failed a domain rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func requiredField(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
