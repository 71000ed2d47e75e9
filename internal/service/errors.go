// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import "errors"

// ErrInvalidCredentials is returned on login with a wrong email or
// password. Deliberately does not say which.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports malformed or missing request fields. Fields maps
// a field name to a short machine-readable code the client can render next
// to the offending input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// fieldError builds a single-field ValidationError.
func fieldError(field, code string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: code}}
}
