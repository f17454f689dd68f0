package search

import (
	"context"

	"github.com/kailas-cloud/appdex/internal/domain/review"
	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
	"github.com/kailas-cloud/appdex/internal/domain/search/result"
)

// Index is the read contract of the catalog index.
type Index interface {
	Window(ctx context.Context, q query.Query, order mode.Order, from, size int) (result.Page, error)
	Count(ctx context.Context, q query.Query) (int, error)
	HasValue(ctx context.Context, column string) (bool, error)
	Size(ctx context.Context) (int, error)
}

// ReviewProvider supplies rating statistics for top-rated ordering.
type ReviewProvider interface {
	Stats(ctx context.Context, pkgNames []string) (map[string]review.Stats, error)
}

// Collator compares display names in the user's locale.
type Collator interface {
	Compare(a, b string) int
}
