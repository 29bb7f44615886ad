package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/infrastructure/store"
)

type sentMail struct {
	to string
	c  email.OrderConfirmation
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) SendOrderConfirmation(to string, c email.OrderConfirmation) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, c: c})
	return nil
}

func placedEvent(t *testing.T, mutate func(*order.Order)) []byte {
	t.Helper()
	o, err := order.Build(order.BuildInput{
		UserID: "1",
		Lines: []cart.Line{
			{Item: cart.Item{ProductID: "3", Title: "Cotton Jacket", UnitPriceCents: 5599, Size: "Large", Color: "Brown"}, Quantity: 2},
		},
		SubtotalCents: 11198,
		Shipping: order.ShippingInfo{
			FirstName: "John", LastName: "Doe", Email: "john@example.com",
			Address: "1 Main St", Apartment: "Apt 4", City: "Springfield", State: "IL", ZipCode: "62701", Country: "United States",
		},
		Method: order.DefaultShippingMethod(),
		Now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	if mutate != nil {
		mutate(o)
	}

	event, err := store.NewEvent(o.ID, order.AggregateType, order.EventOrderPlaced, order.NewOrderPlaced(o))
	require.NoError(t, err)
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestHandler_OrderPlaced(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, nil)

	err := h.HandleEvent(context.Background(), []byte("ORD-1"), placedEvent(t, nil))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	mail := sender.sent[0]
	assert.Equal(t, "john@example.com", mail.to)
	assert.Equal(t, "John Doe", mail.c.CustomerName)
	assert.Equal(t, int64(11198+1500+896), mail.c.TotalCents)
	assert.Equal(t, "Standard Shipping", mail.c.ShippingMethod)
	assert.Equal(t, []string{"John Doe", "1 Main St Apt 4", "Springfield, IL 62701", "United States"}, mail.c.ShippingAddress)
	require.Len(t, mail.c.Items, 1)
	assert.Equal(t, "Cotton Jacket", mail.c.Items[0].Title)
	assert.Equal(t, 2, mail.c.Items[0].Quantity)
}

func TestHandler_SkipsOrdersWithoutEmail(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, nil)

	err := h.HandleEvent(context.Background(), nil, placedEvent(t, func(o *order.Order) { o.ShippingInfo.Email = "" }))

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestHandler_IgnoresOtherEvents(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, nil)
	event, err := store.NewEvent("x", "Cart", "CartCleared", map[string]string{})
	require.NoError(t, err)
	data, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(context.Background(), nil, data))
	assert.Empty(t, sender.sent)
}

func TestHandler_Errors(t *testing.T) {
	h := NewHandler(&fakeSender{}, nil)
	assert.Error(t, h.HandleEvent(context.Background(), nil, []byte("{not json")))

	failing := NewHandler(&fakeSender{err: errors.New("smtp down")}, nil)
	err := failing.HandleEvent(context.Background(), nil, placedEvent(t, nil))
	assert.ErrorContains(t, err, "smtp down")
}

func TestConfirmation_MissingTitle(t *testing.T) {
	c := Confirmation(order.OrderPlaced{Items: []order.PlacedItem{{ProductID: "7", Quantity: 1}}})

	assert.Equal(t, "Product 7", c.Items[0].Title)
	assert.Empty(t, c.ShippingAddress)
}
