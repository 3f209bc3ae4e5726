// internal/service/errors.go
package service

import "errors"

// ErrNotFound signals an unknown record id.
var ErrNotFound = errors.New("not found")

// ValidationError marks rejected input; handlers map it to HTTP 400.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidation reports whether err is a ValidationError anywhere in its chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
