package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/appdex/internal/db"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn   func(ctx context.Context, q *db.IndexQuery) (*db.SearchResult, error)
	countFn    func(ctx context.Context, q query.Query) (int, error)
	hasFieldFn func(ctx context.Context, name string) (bool, error)
	docCountFn func(ctx context.Context) (int, error)
	indexFn    func(ctx context.Context, docs []db.IndexDocument) error
}

func (m *mockStore) Search(ctx context.Context, q *db.IndexQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Count(ctx context.Context, q query.Query) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func (m *mockStore) HasField(ctx context.Context, name string) (bool, error) {
	if m.hasFieldFn != nil {
		return m.hasFieldFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) DocCount(ctx context.Context) (int, error) {
	if m.docCountFn != nil {
		return m.docCountFn(ctx)
	}
	return 0, nil
}

func (m *mockStore) IndexDocuments(ctx context.Context, docs []db.IndexDocument) error {
	if m.indexFn != nil {
		return m.indexFn(ctx, docs)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
