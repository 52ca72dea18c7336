package mocks

import (
	"context"
	"sync"

	"github.com/example/delicias-storefront/internal/infrastructure/store"
)

var _ store.KeyValueStore = (*MockStore)(nil)

// MockStore is a mock implementation of store.KeyValueStore for testing
type MockStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// For tracking calls in tests
	GetCalls    []string
	SetCalls    []SetCall
	DeleteCalls []string

	// Errors returned by the matching method when set
	GetErr    error
	SetErr    error
	DeleteErr error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key   string
	Value []byte
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		data:        make(map[string][]byte),
		GetCalls:    make([]string, 0),
		SetCalls:    make([]SetCall, 0),
		DeleteCalls: make([]string, 0),
	}
}

// Get returns the stored value or store.ErrNotFound
func (m *MockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	value, ok := m.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set records the call and stores the value unless SetErr is set
func (m *MockStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: append([]byte(nil), value...)})
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete records the call and removes the value unless DeleteErr is set
func (m *MockStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.data, key)
	return nil
}

// Seed stores a raw value without recording a call
func (m *MockStore) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Value returns the raw stored value without recording a call
func (m *MockStore) Value(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// LastSet returns the most recent Set call for key
func (m *MockStore) LastSet(key string) (SetCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.SetCalls) - 1; i >= 0; i-- {
		if m.SetCalls[i].Key == key {
			return m.SetCalls[i], true
		}
	}
	return SetCall{}, false
}

// Reset clears all data, recorded calls and injected errors
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.GetCalls = make([]string, 0)
	m.SetCalls = make([]SetCall, 0)
	m.DeleteCalls = make([]string, 0)
	m.GetErr = nil
	m.SetErr = nil
	m.DeleteErr = nil
}
