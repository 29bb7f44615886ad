package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProducts = []Product{
	{ID: 1, Title: "Fjallraven Backpack", Price: 109.95, Description: "Fits 15 inch laptops", Category: "men's clothing", Rating: Rating{Rate: 3.9, Count: 120}},
	{ID: 2, Title: "Slim Fit T-Shirt", Price: 22.3, Description: "Casual wear", Category: "men's clothing", Rating: Rating{Rate: 4.1, Count: 259}},
	{ID: 5, Title: "Dragon Bracelet", Price: 695, Description: "Silver jewelry", Category: "jewelery", Rating: Rating{Rate: 4.6, Count: 400}},
	{ID: 9, Title: "Portable Hard Drive", Price: 64, Description: "USB 3.0", Category: "electronics", Rating: Rating{Rate: 3.3, Count: 203}},
}

type fakeStore struct {
	server *httptest.Server
	hits   atomic.Int32
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	fs := &fakeStore{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits.Add(1)
		switch r.URL.Path {
		case "/products":
			products := testProducts
			if r.URL.Query().Get("limit") == "2" {
				products = products[:2]
			}
			_ = json.NewEncoder(w).Encode(products)
		case "/products/category/men's clothing":
			_ = json.NewEncoder(w).Encode(testProducts[:2])
		case "/products/categories":
			_ = json.NewEncoder(w).Encode([]string{"electronics", "jewelery", "men's clothing", "women's clothing"})
		case "/products/1":
			_ = json.NewEncoder(w).Encode(testProducts[0])
		case "/products/404":
			w.WriteHeader(http.StatusOK)
		case "/products/500":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})
	fs.server = httptest.NewServer(handler)
	t.Cleanup(fs.server.Close)
	return fs
}

func TestClient_ListProducts(t *testing.T) {
	fs := newFakeStore(t)
	c := NewClient(fs.server.URL)

	products, err := c.ListProducts(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Len(t, products, 4)

	limited, err := c.ListProducts(context.Background(), ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	byCategory, err := c.ListProducts(context.Background(), ListOptions{Category: "men's clothing"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)
}

func TestClient_GetProduct(t *testing.T) {
	fs := newFakeStore(t)
	c := NewClient(fs.server.URL + "/")

	p, err := c.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Fjallraven Backpack", p.Title)
	assert.Equal(t, int64(10995), p.PriceCents())
	assert.Equal(t, "1", p.ProductID())
}

func TestClient_GetProduct_NotFound(t *testing.T) {
	fs := newFakeStore(t)
	c := NewClient(fs.server.URL)

	_, err := c.GetProduct(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProductNotFound, "empty body")

	_, err = c.GetProduct(context.Background(), 77)
	assert.ErrorIs(t, err, ErrProductNotFound, "404 status")
}

func TestClient_UpstreamError(t *testing.T) {
	fs := newFakeStore(t)
	c := NewClient(fs.server.URL)

	_, err := c.GetProduct(context.Background(), 500)

	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_Categories(t *testing.T) {
	fs := newFakeStore(t)
	c := NewClient(fs.server.URL)

	categories, err := c.Categories(context.Background())

	require.NoError(t, err)
	assert.Contains(t, categories, "jewelery")
}

func TestClient_CachesResponses(t *testing.T) {
	fs := newFakeStore(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClient(fs.server.URL, WithCache(8, time.Minute), withClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := c.ListProducts(ctx, ListOptions{})
	require.NoError(t, err)
	_, err = c.ListProducts(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), fs.hits.Load())

	now = now.Add(2 * time.Minute)
	_, err = c.ListProducts(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), fs.hits.Load(), "expired entry is refetched")
}

func TestClient_DoesNotCacheMisses(t *testing.T) {
	fs := newFakeStore(t)
	c := NewClient(fs.server.URL)
	ctx := context.Background()

	_, _ = c.GetProduct(ctx, 404)
	_, _ = c.GetProduct(ctx, 404)

	assert.Equal(t, int32(2), fs.hits.Load())
}

func TestClient_CacheDisabled(t *testing.T) {
	fs := newFakeStore(t)
	c := NewClient(fs.server.URL, WithCache(0, 0))
	ctx := context.Background()

	_, _ = c.Categories(ctx)
	_, _ = c.Categories(ctx)

	assert.Equal(t, int32(2), fs.hits.Load())
}

func TestClient_ContextCancelled(t *testing.T) {
	fs := newFakeStore(t)
	c := NewClient(fs.server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListProducts(ctx, ListOptions{})

	assert.ErrorIs(t, err, ErrUpstream)
}
