package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// Store is the key-value facade combining all sub-interfaces.
type Store interface {
	Pinger
	HashStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Index is the full-text catalog index facade.
type Index interface {
	Searcher
	SchemaInspector
	DocumentIndexer
	Close() error
}

// Searcher runs compiled queries against the index.
type Searcher interface {
	Search(ctx context.Context, q *IndexQuery) (*SearchResult, error)
	Count(ctx context.Context, q query.Query) (int, error)
}

// SchemaInspector reports index capabilities.
type SchemaInspector interface {
	// HasField reports whether at least one document carries a value for the field.
	HasField(ctx context.Context, name string) (bool, error)
	DocCount(ctx context.Context) (int, error)
}

// DocumentIndexer writes documents into the index.
type DocumentIndexer interface {
	IndexDocuments(ctx context.Context, docs []IndexDocument) error
}

// IndexDocument is one document to write: stored/indexed values keyed by field name.
type IndexDocument struct {
	ID     string
	Fields map[string]any
}
