package mocks

import (
	"context"
	"sync"

	"github.com/example/storefront/internal/infrastructure/store"
)

// MockBlobStore is an in-memory BlobStore that records calls and can be told
// to fail, for testing
type MockBlobStore struct {
	mu    sync.Mutex
	inner *store.MemoryBlobStore

	// For tracking calls in tests
	PutCalls    []PutCall
	DeleteCalls []string
	GetErr      error
	PutErr      error
	DeleteErr   error
}

// PutCall records parameters passed to Put
type PutCall struct {
	Key   string
	Value []byte
}

// NewMockBlobStore creates a new MockBlobStore
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{inner: store.NewMemoryBlobStore()}
}

func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	err := m.GetErr
	m.mu.Unlock()
	if err != nil {
		return nil, false, err
	}
	return m.inner.Get(ctx, key)
}

func (m *MockBlobStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.PutCalls = append(m.PutCalls, PutCall{Key: key, Value: append([]byte(nil), value...)})
	err := m.PutErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.inner.Put(ctx, key, value)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, key)
	err := m.DeleteErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.inner.Delete(ctx, key)
}

// Seed stores a value directly, bypassing call recording and injected errors
func (m *MockBlobStore) Seed(key string, value []byte) {
	_ = m.inner.Put(context.Background(), key, value)
}

// Value returns what is currently stored under key
func (m *MockBlobStore) Value(key string) ([]byte, bool) {
	v, ok, _ := m.inner.Get(context.Background(), key)
	return v, ok
}

// SetPutErr makes subsequent Put calls fail with err
func (m *MockBlobStore) SetPutErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutErr = err
}

// Puts returns a copy of the recorded Put calls
func (m *MockBlobStore) Puts() []PutCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PutCall(nil), m.PutCalls...)
}
