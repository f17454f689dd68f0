package request

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/appdex/internal/domain/search/filter"
	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// Search parameter limits.
const (
	// MaxQueries is the maximum number of sub-queries in one request.
	MaxQueries = 16
	// MaxQueryLeaves bounds the size of a single compiled query.
	MaxQueryLeaves = 256
	// MaxLimit caps the window size; 0 means unbounded.
	MaxLimit = 10000
)

// Request is a validated search over one or more compiled queries.
type Request struct {
	queries    []query.Query
	limit      int
	sortMode   mode.Sort
	filter     *filter.Filter
	visibility mode.Visibility
}

// New validates a search request. The filter is cloned so later changes made
// by the caller do not affect the request.
// Defaults: sort=unsorted, visibility=maybe, nil filter = no checks.
func New(
	queries []query.Query,
	limit int,
	sortMode mode.Sort,
	f *filter.Filter,
	visibility mode.Visibility,
) (Request, error) {
	if len(queries) == 0 {
		return Request{}, fmt.Errorf("at least one query is required")
	}
	if len(queries) > MaxQueries {
		return Request{}, fmt.Errorf("too many queries (max %d)", MaxQueries)
	}
	for i, q := range queries {
		if q.Len() > MaxQueryLeaves {
			return Request{}, fmt.Errorf("query %d too large (max %d leaves)", i, MaxQueryLeaves)
		}
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must not be negative")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if sortMode == "" {
		sortMode = mode.Unsorted
	}
	if !sortMode.IsValid() {
		return Request{}, fmt.Errorf("invalid sort mode: %q", sortMode)
	}
	if visibility == "" {
		visibility = mode.MaybeVisible
	}
	if !visibility.IsValid() {
		return Request{}, fmt.Errorf("invalid visibility: %q", visibility)
	}

	return Request{
		queries:    slices.Clone(queries),
		limit:      limit,
		sortMode:   sortMode,
		filter:     f.Clone(),
		visibility: visibility,
	}, nil
}

// Queries returns the compiled queries in evaluation order.
func (r *Request) Queries() []query.Query { return slices.Clone(r.queries) }

// Limit returns the maximum number of matches (0 = unbounded).
func (r *Request) Limit() int { return r.limit }

// Sort returns the requested ordering.
func (r *Request) Sort() mode.Sort { return r.sortMode }

// Filter returns the request's private filter snapshot.
func (r *Request) Filter() *filter.Filter { return r.filter }

// Visibility returns the non-application visibility policy.
func (r *Request) Visibility() mode.Visibility { return r.visibility }

// WithVisibility returns a copy of r with a different visibility policy.
func (r Request) WithVisibility(v mode.Visibility) Request {
	r.visibility = v
	return r
}
