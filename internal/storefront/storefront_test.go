package storefront

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/infrastructure/store"
)

func newTestRegistry(t *testing.T, size int, opts ...RegistryOption) (*Registry, *store.MemoryBlobStore) {
	t.Helper()
	creds, err := user.NewSeededCredentialTable(bcrypt.MinCost)
	require.NoError(t, err)
	blobs := store.NewMemoryBlobStore()
	reg, err := NewRegistry(size, blobs, creds, opts...)
	require.NoError(t, err)
	return reg, blobs
}

func addBackpack(ws *Workspace) {
	ws.Cart.AddLine(cart.Item{ProductID: "1", Title: "Backpack", UnitPriceCents: 10000, Size: "Large", Color: "Brown"})
}

// ============================================
// Workspace Guard Tests
// ============================================

func TestWorkspace_BeginCheckout_Guards(t *testing.T) {
	reg, _ := newTestRegistry(t, 4)
	ctx := context.Background()
	ws, err := reg.Create(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, ws.BeginCheckout(), ErrNotAuthenticated)

	_, err = ws.Session.Login(ctx, "john@example.com", user.SeedPassword)
	require.NoError(t, err)
	assert.ErrorIs(t, ws.BeginCheckout(), ErrEmptyCart)

	addBackpack(ws)
	require.NoError(t, ws.BeginCheckout())
	assert.Equal(t, "John", ws.Checkout.State().Draft.ShippingInfo.FirstName)
}

func TestWorkspace_PlaceOrder_Guards(t *testing.T) {
	reg, _ := newTestRegistry(t, 4)
	ctx := context.Background()
	ws, err := reg.Create(ctx)
	require.NoError(t, err)
	addBackpack(ws)

	_, err = ws.PlaceOrder(ctx)

	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestWorkspace_FullCheckout(t *testing.T) {
	reg, blobs := newTestRegistry(t, 4)
	ctx := context.Background()
	ws, err := reg.Create(ctx)
	require.NoError(t, err)

	_, err = ws.Session.Login(ctx, "john@example.com", user.SeedPassword)
	require.NoError(t, err)
	addBackpack(ws)
	require.NoError(t, ws.BeginCheckout())
	ws.Checkout.Advance()
	ws.Checkout.Advance()

	o, err := ws.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", o.UserID)
	assert.Equal(t, int64(12300), o.TotalCents)
	assert.Equal(t, checkout.StepConfirmation, ws.Checkout.Step())

	require.NoError(t, ws.FinishCheckout())
	assert.True(t, ws.Cart.IsEmpty())
	assert.Equal(t, checkout.StepShipping, ws.Checkout.Step())

	assert.Equal(t, []string{ws.ID + "/user", ws.ID + "/userOrders"}, blobs.Keys(ws.ID+"/"))
}

// ============================================
// Registry Tests
// ============================================

func TestRegistry_OpenLive(t *testing.T) {
	reg, _ := newTestRegistry(t, 4)
	ctx := context.Background()
	ws, err := reg.Create(ctx)
	require.NoError(t, err)
	addBackpack(ws)

	again, err := reg.Open(ctx, ws.ID)

	require.NoError(t, err)
	assert.Same(t, ws, again)
	assert.Equal(t, 1, again.Cart.TotalQuantity())
}

func TestRegistry_OpenInvalidID(t *testing.T) {
	reg, _ := newTestRegistry(t, 4)

	_, err := reg.Open(context.Background(), "../../etc")

	assert.ErrorIs(t, err, ErrInvalidWorkspaceID)
}

func TestRegistry_EvictedWorkspaceIsRestored(t *testing.T) {
	reg, _ := newTestRegistry(t, 1)
	ctx := context.Background()

	ws, err := reg.Create(ctx)
	require.NoError(t, err)
	_, err = ws.Session.Login(ctx, "jane@example.com", user.SeedPassword)
	require.NoError(t, err)
	addBackpack(ws)
	require.NoError(t, ws.BeginCheckout())
	ws.Checkout.Advance()
	ws.Checkout.Advance()
	placed, err := ws.PlaceOrder(ctx)
	require.NoError(t, err)

	// a second workspace pushes the first out of the cache
	_, err = reg.Create(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())

	restored, err := reg.Open(ctx, ws.ID)
	require.NoError(t, err)

	assert.NotSame(t, ws, restored)
	identity, ok := restored.Session.Identity()
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", identity.Email)
	got, err := restored.Orders.Get(placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.TotalCents, got.TotalCents)
	assert.True(t, restored.Cart.IsEmpty(), "cart is not persisted")
}

func TestRegistry_WorkspacesAreIsolated(t *testing.T) {
	reg, _ := newTestRegistry(t, 4)
	ctx := context.Background()
	a, err := reg.Create(ctx)
	require.NoError(t, err)
	b, err := reg.Create(ctx)
	require.NoError(t, err)

	_, err = a.Session.Login(ctx, "john@example.com", user.SeedPassword)
	require.NoError(t, err)
	addBackpack(a)

	assert.False(t, b.Session.State().Authenticated)
	assert.True(t, b.Cart.IsEmpty())
}

func TestRegistry_ConcurrentOpenRestoresOnce(t *testing.T) {
	reg, _ := newTestRegistry(t, 1)
	ctx := context.Background()
	ws, err := reg.Create(ctx)
	require.NoError(t, err)
	_, err = reg.Create(ctx)
	require.NoError(t, err)

	const openers = 8
	got := make([]*Workspace, openers)
	var wg sync.WaitGroup
	for i := 0; i < openers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, err := reg.Open(ctx, ws.ID)
			assert.NoError(t, err)
			got[i] = w
		}(i)
	}
	wg.Wait()

	for i := 1; i < openers; i++ {
		assert.Equal(t, got[0].ID, got[i].ID)
	}
}

func TestNewRegistry_InvalidSize(t *testing.T) {
	creds := user.NewCredentialTable(bcrypt.MinCost)

	_, err := NewRegistry(0, store.NewMemoryBlobStore(), creds)

	assert.Error(t, err)
}
