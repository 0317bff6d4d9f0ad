package mcdm

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed engine input: wrong-shaped comparison
// matrices, out-of-range thresholds, unknown normalization methods, and so on.
// Details carries one line per individual problem.
type ValidationError struct {
	Message string
	Details []string
}

func NewValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, "; "))
}

// MethodError wraps any non-validation failure raised while a method executes,
// tagged with the method name. Nothing escapes a method's Execute unannotated.
type MethodError struct {
	Method string
	Err    error
}

func NewMethodError(method string, err error) *MethodError {
	return &MethodError{Method: method, Err: err}
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("method %s: %v", e.Method, e.Err)
}

func (e *MethodError) Unwrap() error {
	return e.Err
}
