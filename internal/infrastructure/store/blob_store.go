package store

import (
	"context"
	"errors"
)

// Well-known keys for the persisted shopper state.
const (
	KeyIdentity = "user"
	KeyOrders   = "userOrders"
)

var ErrEmptyKey = errors.New("blob key is required")

// BlobStore is a key-value store holding whole serialized documents.
// Writers read-modify-write a key wholesale; there is no versioning.
type BlobStore interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put replaces the value stored under key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
