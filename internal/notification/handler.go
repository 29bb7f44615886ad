package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/infrastructure/store"
)

// ConfirmationSender sends order confirmation e-mails
type ConfirmationSender interface {
	SendOrderConfirmation(to string, c email.OrderConfirmation) error
}

// Handler turns OrderPlaced events into confirmation e-mails
type Handler struct {
	sender ConfirmationSender
	logger *zap.Logger
}

// NewHandler creates a new notification handler
func NewHandler(sender ConfirmationSender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sender: sender,
		logger: logger.Named("notifier"),
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		h.logger.Warn("failed to unmarshal event", zap.ByteString("key", key), zap.Error(err))
		return err
	}

	// Only process OrderPlaced events
	if event.EventType == order.EventOrderPlaced {
		return h.handleOrderPlaced(event)
	}

	return nil
}

func (h *Handler) handleOrderPlaced(event store.Event) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(event.Data, &e); err != nil {
		h.logger.Warn("failed to unmarshal OrderPlaced event", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}

	logger := h.logger.With(zap.String("order_id", e.OrderID), zap.String("user_id", e.UserID))
	if e.Email == "" {
		logger.Info("order has no contact e-mail, skipping confirmation")
		return nil
	}

	if err := h.sender.SendOrderConfirmation(e.Email, Confirmation(e)); err != nil {
		logger.Error("failed to send confirmation", zap.String("to", e.Email), zap.Error(err))
		return fmt.Errorf("send confirmation for %s: %w", e.OrderID, err)
	}

	logger.Info("order confirmation sent", zap.String("to", e.Email))
	return nil
}

// Confirmation maps the event onto the e-mail content
func Confirmation(e order.OrderPlaced) email.OrderConfirmation {
	items := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		title := item.Title
		if title == "" {
			title = "Product " + item.ProductID
		}
		items[i] = email.OrderItem{
			Title:          title,
			Size:           item.Size,
			Color:          item.Color,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
	}

	return email.OrderConfirmation{
		OrderID:           e.OrderID,
		CustomerName:      e.CustomerName,
		Items:             items,
		SubtotalCents:     e.SubtotalCents,
		ShippingCents:     e.ShippingCents,
		TaxCents:          e.TaxCents,
		TotalCents:        e.TotalCents,
		ShippingMethod:    e.ShippingMethod,
		ShippingAddress:   addressLines(e.ShippingAddress),
		EstimatedDelivery: e.EstimatedDelivery,
	}
}

func addressLines(s order.ShippingInfo) []string {
	var lines []string
	add := func(parts ...string) {
		var kept []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			lines = append(lines, strings.Join(kept, " "))
		}
	}

	add(s.FirstName, s.LastName)
	add(s.Address, s.Apartment)
	cityState := strings.TrimSpace(s.City)
	if s.State != "" {
		if cityState != "" {
			cityState += ","
		}
		cityState += " " + s.State
	}
	add(cityState, s.ZipCode)
	add(s.Country)
	return lines
}
