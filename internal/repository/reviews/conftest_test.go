package reviews

import (
	"context"
	"sync"

	"github.com/kailas-cloud/appdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	mu        sync.Mutex
	hashes    map[string]map[string]string
	getCalls  int
	setCalls  int
	getErr    error
	setErr    error
	lastItems []db.HashSetItem
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.lastItems = items
	for _, it := range items {
		m.hashes[it.Key] = it.Fields
	}
	return nil
}
