package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/appdex/internal/db"
	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
	"github.com/kailas-cloud/appdex/internal/domain/search/result"
)

// store is the consumer interface for the catalog index (ISP).
type store interface {
	Search(ctx context.Context, q *db.IndexQuery) (*db.SearchResult, error)
	Count(ctx context.Context, q query.Query) (int, error)
	HasField(ctx context.Context, name string) (bool, error)
	DocCount(ctx context.Context) (int, error)
	IndexDocuments(ctx context.Context, docs []db.IndexDocument) error
}

// Repo implements usecase/search.Index and usecase/catalog.DocumentWriter
// over the catalog index.
type Repo struct {
	store   store
	sortKey SortKeyFunc
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// WithSortKey sets the display-name collation key written by Put.
func (r *Repo) WithSortKey(fn SortKeyFunc) *Repo {
	r.sortKey = fn
	return r
}

// Put writes docs to the index.
func (r *Repo) Put(ctx context.Context, docs []document.Document) error {
	out := make([]db.IndexDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, ToIndexDocument(doc, r.sortKey))
	}
	if err := r.store.IndexDocuments(ctx, out); err != nil {
		return fmt.Errorf("index %d documents: %w", len(docs), err)
	}
	return nil
}

// Window returns matches from..from+size of q in the given order.
func (r *Repo) Window(ctx context.Context, q query.Query, order mode.Order, from, size int) (result.Page, error) {
	sr, err := r.store.Search(ctx, &db.IndexQuery{
		Query:  q,
		Sort:   sortKeys(order),
		From:   from,
		Size:   size,
		Fields: returnFields,
	})
	if err != nil {
		return result.Page{}, fmt.Errorf("search window %d+%d: %w", from, size, err)
	}
	return parseResults(sr), nil
}

// Count returns the number of documents matching q.
func (r *Repo) Count(ctx context.Context, q query.Query) (int, error) {
	n, err := r.store.Count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// HasValue reports whether the index holds the given value column.
func (r *Repo) HasValue(ctx context.Context, column string) (bool, error) {
	ok, err := r.store.HasField(ctx, column)
	if err != nil {
		return false, fmt.Errorf("inspect column %s: %w", column, err)
	}
	return ok, nil
}

// Size returns the number of documents in the index.
func (r *Repo) Size(ctx context.Context) (int, error) {
	n, err := r.store.DocCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("doc count: %w", err)
	}
	return n, nil
}

func sortKeys(order mode.Order) []db.SortKey {
	score := db.SortKey{Field: db.FieldScore, Desc: true}
	id := db.SortKey{Field: db.FieldID}

	switch order {
	case mode.OrderPackageName:
		return []db.SortKey{{Field: document.ValuePkgName, Type: db.SortString}, score, id}
	case mode.OrderRecency:
		return []db.SortKey{{Field: document.ValueCatalogedTime, Desc: true, Type: db.SortNumber}, score, id}
	case mode.OrderDisplayName:
		return []db.SortKey{
			{Field: document.ValueDisplayNameKey, Type: db.SortString},
			{Field: document.ValuePkgName, Type: db.SortString},
			id,
		}
	case mode.OrderIndex:
		return []db.SortKey{id}
	default:
		return []db.SortKey{score, id}
	}
}

// parseResults converts db.SearchResult into a result.Page.
func parseResults(sr *db.SearchResult) result.Page {
	if sr == nil {
		return result.Page{}
	}
	page := result.Page{Total: sr.Total, Matches: make([]result.Match, 0, len(sr.Entries))}
	for _, entry := range sr.Entries {
		page.Matches = append(page.Matches, result.NewMatch(parseEntry(entry), entry.Score))
	}
	return page
}
