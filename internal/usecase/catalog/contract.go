package catalog

import (
	"context"

	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/review"
)

// DocumentWriter writes catalog documents to the index.
type DocumentWriter interface {
	Put(ctx context.Context, docs []document.Document) error
}

// ReviewWriter stores rating statistics.
type ReviewWriter interface {
	Put(ctx context.Context, stats []review.Stats) error
}
