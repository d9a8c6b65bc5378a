package application

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique value is already taken.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when a password does not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
)

// ValidationError collects user facing messages in the order they were found.
type ValidationError struct {
	Messages []string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.Messages) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(v.Messages, "; ")
}

// HasErrors reports whether any message was recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Messages) > 0
}

func (v *ValidationError) add(message string) {
	v.Messages = append(v.Messages, message)
}

func (v *ValidationError) merge(other *ValidationError) {
	if other == nil {
		return
	}
	v.Messages = append(v.Messages, other.Messages...)
}
