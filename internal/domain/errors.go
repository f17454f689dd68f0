package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a search request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownCategory signals a category name missing from the category tree.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrIndexUnavailable signals that the index or package cache could not be opened.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrCanceled signals a search superseded or canceled before completion.
	ErrCanceled = errors.New("search canceled")
)

// ValidationError wraps ErrInvalidRequest with the offending parameter.
type ValidationError struct {
	Param string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidRequest.Error(), e.Param, e.Err)
}

func (e *ValidationError) Unwrap() []error { return []error{ErrInvalidRequest, e.Err} }

// NewValidationError creates a validation error for param.
func NewValidationError(param string, err error) error {
	return &ValidationError{Param: param, Err: err}
}
