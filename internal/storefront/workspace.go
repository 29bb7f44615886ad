// Package storefront composes one shopper's cart, session, checkout and order
// history into a workspace, and keeps live workspaces in a bounded registry.
package storefront

import (
	"context"
	"errors"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/user"
)

var (
	ErrNotAuthenticated = user.ErrNotAuthenticated
	ErrEmptyCart        = errors.New("cart is empty")
)

// Workspace is the application state of a single shopper
type Workspace struct {
	ID       string
	Cart     *cart.Ledger
	Session  *user.Session
	Checkout *checkout.Flow
	Orders   *order.History
}

// BeginCheckout starts a checkout for the signed-in shopper's cart
func (w *Workspace) BeginCheckout() error {
	buyer, err := w.checkoutBuyer()
	if err != nil {
		return err
	}
	return w.Checkout.Begin(buyer)
}

// PlaceOrder commits the checkout on behalf of the signed-in shopper
func (w *Workspace) PlaceOrder(ctx context.Context) (*order.Order, error) {
	buyer, err := w.checkoutBuyer()
	if err != nil {
		return nil, err
	}
	return w.Checkout.Commit(ctx, buyer)
}

// FinishCheckout leaves the confirmation step, emptying the cart
func (w *Workspace) FinishCheckout() error {
	return w.Checkout.Finish()
}

func (w *Workspace) checkoutBuyer() (user.Identity, error) {
	buyer, ok := w.Session.Identity()
	if !ok {
		return user.Identity{}, ErrNotAuthenticated
	}
	if w.Cart.IsEmpty() {
		return user.Identity{}, ErrEmptyCart
	}
	return buyer, nil
}
