package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/infrastructure/store"
)

// Publisher delivers events keyed by aggregate id
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// History is the shopper's append-only order list, persisted wholesale as a
// JSON array under store.KeyOrders.
type History struct {
	mu     sync.RWMutex
	orders []Order

	blobs     store.BlobStore
	publisher Publisher
	logger    *zap.Logger
}

// HistoryOption configures a History
type HistoryOption func(*History)

// WithPublisher announces appended orders through p
func WithPublisher(p Publisher) HistoryOption {
	return func(h *History) { h.publisher = p }
}

// WithLogger sets the history logger
func WithLogger(logger *zap.Logger) HistoryOption {
	return func(h *History) {
		if logger != nil {
			h.logger = logger.Named("orders")
		}
	}
}

func NewHistory(blobs store.BlobStore, opts ...HistoryOption) *History {
	h := &History{
		blobs:  blobs,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Load replaces the in-memory list with the persisted one. A malformed blob
// is discarded and the history starts empty.
func (h *History) Load(ctx context.Context) error {
	data, ok, err := h.blobs.Get(ctx, store.KeyOrders)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	var orders []Order
	if ok {
		if err := json.Unmarshal(data, &orders); err != nil {
			h.logger.Warn("discarding malformed order history", zap.Error(err))
			if err := h.blobs.Delete(ctx, store.KeyOrders); err != nil {
				h.logger.Warn("failed to delete order history", zap.Error(err))
			}
			orders = nil
		}
	}

	h.mu.Lock()
	h.orders = orders
	h.mu.Unlock()
	return nil
}

// Append persists o and then adds it to the in-memory list. Nothing changes
// if persisting fails.
func (h *History) Append(ctx context.Context, o *Order) error {
	h.mu.Lock()
	next := make([]Order, len(h.orders), len(h.orders)+1)
	copy(next, h.orders)
	next = append(next, *o)

	data, err := json.Marshal(next)
	if err != nil {
		h.mu.Unlock()
		return fmt.Errorf("encode orders: %w", err)
	}
	if err := h.blobs.Put(ctx, store.KeyOrders, data); err != nil {
		h.mu.Unlock()
		return fmt.Errorf("persist orders: %w", err)
	}
	h.orders = next
	h.mu.Unlock()

	h.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.Int("items", o.ItemCount()),
		zap.Int64("total_cents", o.TotalCents),
	)
	h.publish(ctx, o)
	return nil
}

func (h *History) publish(ctx context.Context, o *Order) {
	if h.publisher == nil {
		return
	}

	event, err := store.NewEvent(o.ID, AggregateType, EventOrderPlaced, NewOrderPlaced(o))
	if err != nil {
		h.logger.Error("failed to build order event", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	if err := h.publisher.Publish(ctx, o.ID, event); err != nil {
		h.logger.Error("failed to publish order event", zap.String("order_id", o.ID), zap.Error(err))
	}
}

// List returns all orders, oldest first
func (h *History) List() []Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Order(nil), h.orders...)
}

// Get returns the order with id
func (h *History) Get(id string) (Order, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrOrderNotFound
}

// Len returns the number of orders
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orders)
}
