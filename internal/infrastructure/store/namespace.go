package store

import (
	"context"
	"strings"
)

// NamespacedBlobStore scopes every key of an underlying store under a prefix,
// so several shoppers can share one backend.
type NamespacedBlobStore struct {
	inner  BlobStore
	prefix string
}

// Namespaced wraps inner so that key k is stored as "<namespace>/k"
func Namespaced(inner BlobStore, namespace string) *NamespacedBlobStore {
	return &NamespacedBlobStore{
		inner:  inner,
		prefix: strings.TrimSuffix(namespace, "/") + "/",
	}
}

func (s *NamespacedBlobStore) key(k string) (string, error) {
	if k == "" {
		return "", ErrEmptyKey
	}
	return s.prefix + k, nil
}

func (s *NamespacedBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, false, err
	}
	return s.inner.Get(ctx, k)
}

func (s *NamespacedBlobStore) Put(ctx context.Context, key string, value []byte) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	return s.inner.Put(ctx, k, value)
}

func (s *NamespacedBlobStore) Delete(ctx context.Context, key string) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	return s.inner.Delete(ctx, k)
}
