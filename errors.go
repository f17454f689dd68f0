package appdex

import "github.com/kailas-cloud/appdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrUnknownCategory  = domain.ErrUnknownCategory
	ErrIndexUnavailable = domain.ErrIndexUnavailable
	ErrCanceled         = domain.ErrCanceled
)
