package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound     = errors.New("db: key not found")
	ErrIndexNotFound   = errors.New("db: index not found")
	ErrIndexClosed     = errors.New("db: index closed")
	ErrInvalidQuery    = errors.New("db: invalid query")
	ErrSchemaViolation = errors.New("db: document does not match index schema")
)

// Op constants name storage operations for error context.
const (
	OpOpen     = "INDEX.OPEN"
	OpSearch   = "INDEX.SEARCH"
	OpCount    = "INDEX.COUNT"
	OpFields   = "INDEX.FIELDS"
	OpDocCount = "INDEX.DOCCOUNT"
	OpBatch    = "INDEX.BATCH"
	OpClose    = "INDEX.CLOSE"
	OpDel      = "DEL"
	OpHGetAll  = "HGETALL"
	OpHSet     = "HSET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
