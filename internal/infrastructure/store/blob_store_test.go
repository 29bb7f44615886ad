package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Memory Blob Store Tests
// ============================================

func TestMemoryBlobStore_PutGet(t *testing.T) {
	s := NewMemoryBlobStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "user", []byte(`{"id":"1"}`)))

	value, ok, err := s.Get(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"1"}`, string(value))
}

func TestMemoryBlobStore_GetMissing(t *testing.T) {
	s := NewMemoryBlobStore()

	value, ok, err := s.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestMemoryBlobStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryBlobStore()
	ctx := context.Background()

	input := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", input))
	input[0] = 'z'

	value, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(value))

	value[1] = 'z'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryBlobStore_Delete(t *testing.T) {
	s := NewMemoryBlobStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "never-existed"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBlobStore_EmptyKey(t *testing.T) {
	s := NewMemoryBlobStore()
	ctx := context.Background()

	_, _, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, s.Put(ctx, "", nil), ErrEmptyKey)
	assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)
}

// ============================================
// Namespaced Blob Store Tests
// ============================================

func TestNamespaced_IsolatesKeys(t *testing.T) {
	inner := NewMemoryBlobStore()
	ctx := context.Background()

	a := Namespaced(inner, "ws-a")
	b := Namespaced(inner, "ws-b/")

	require.NoError(t, a.Put(ctx, KeyIdentity, []byte("alice")))
	require.NoError(t, b.Put(ctx, KeyIdentity, []byte("bob")))

	va, _, _ := a.Get(ctx, KeyIdentity)
	vb, _, _ := b.Get(ctx, KeyIdentity)
	assert.Equal(t, "alice", string(va))
	assert.Equal(t, "bob", string(vb))
	assert.Equal(t, []string{"ws-a/user", "ws-b/user"}, inner.Keys(""))

	require.NoError(t, a.Delete(ctx, KeyIdentity))
	assert.Equal(t, []string{"ws-b/user"}, inner.Keys(""))
}

func TestNamespaced_EmptyKey(t *testing.T) {
	s := Namespaced(NewMemoryBlobStore(), "ws")

	err := s.Put(context.Background(), "", []byte("x"))

	assert.ErrorIs(t, err, ErrEmptyKey)
}

// ============================================
// Event Envelope Tests
// ============================================

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("ORD-1", "Order", "OrderPlaced", map[string]any{"total": 1000})

	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "ORD-1", event.AggregateID)
	assert.Equal(t, "Order", event.AggregateType)
	assert.Equal(t, "OrderPlaced", event.EventType)
	assert.Equal(t, 1, event.Version)
	assert.NotZero(t, event.Timestamp)
	assert.JSONEq(t, `{"total":1000}`, string(event.Data))

	encoded, err := json.Marshal(event)
	require.NoError(t, err)
	var decoded Event
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("id", "Order", "OrderPlaced", make(chan int))

	assert.Error(t, err)
}

// ============================================
// Dynamo Blob Store Tests
// ============================================

type fakeDynamo struct {
	items  map[string]map[string]types.AttributeValue
	putErr error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(attrs map[string]types.AttributeValue) string {
	return attrs["key"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(f.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestDynamoBlobStore_RoundTrip(t *testing.T) {
	client := newFakeDynamo()
	s := NewDynamoBlobStore(client, "storefront-blobs")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "ws/userOrders", []byte(`[]`)))

	value, ok, err := s.Get(ctx, "ws/userOrders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(value))

	require.NoError(t, s.Delete(ctx, "ws/userOrders"))
	_, ok, err = s.Get(ctx, "ws/userOrders")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDynamoBlobStore_PutError(t *testing.T) {
	client := newFakeDynamo()
	client.putErr = errors.New("throttled")
	s := NewDynamoBlobStore(client, "storefront-blobs")

	err := s.Put(context.Background(), "k", []byte("v"))

	assert.ErrorContains(t, err, "throttled")
}
