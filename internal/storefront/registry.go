package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/infrastructure/store"
)

var ErrInvalidWorkspaceID = errors.New("invalid workspace id")

// Registry creates workspaces and keeps the most recently used ones live.
// An evicted workspace is rebuilt from its persisted blobs on next Open; its
// cart starts empty.
type Registry struct {
	live    *lru.Cache
	rebuild singleflight.Group

	blobs        store.BlobStore
	credentials  *user.CredentialTable
	publisher    order.Publisher
	loginLatency time.Duration
	orderLatency time.Duration
	logger       *zap.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithPublisher announces placed orders through p
func WithPublisher(p order.Publisher) RegistryOption {
	return func(r *Registry) { r.publisher = p }
}

// WithLatency sets the simulated delays for sign-in and order placement
func WithLatency(login, placeOrder time.Duration) RegistryOption {
	return func(r *Registry) {
		r.loginLatency = login
		r.orderLatency = placeOrder
	}
}

func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry holds at most size live workspaces
func NewRegistry(size int, blobs store.BlobStore, credentials *user.CredentialTable, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		blobs:       blobs,
		credentials: credentials,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	live, err := lru.NewWithEvict(size, func(key, _ interface{}) {
		r.logger.Debug("workspace evicted", zap.Any("workspace_id", key))
	})
	if err != nil {
		return nil, fmt.Errorf("create workspace cache: %w", err)
	}
	r.live = live
	return r, nil
}

// Create starts a new, empty workspace
func (r *Registry) Create(ctx context.Context) (*Workspace, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate workspace id: %w", err)
	}

	ws := r.build(id.String())
	r.live.Add(ws.ID, ws)
	r.logger.Info("workspace created", zap.String("workspace_id", ws.ID))
	return ws, nil
}

// Open returns the workspace with id, restoring it from storage if it is not
// live
func (r *Registry) Open(ctx context.Context, id string) (*Workspace, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidWorkspaceID
	}
	if v, ok := r.live.Get(id); ok {
		return v.(*Workspace), nil
	}

	v, err, _ := r.rebuild.Do(id, func() (any, error) {
		if v, ok := r.live.Get(id); ok {
			return v, nil
		}
		ws, err := r.restore(ctx, id)
		if err != nil {
			return nil, err
		}
		r.live.Add(id, ws)
		return ws, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Workspace), nil
}

// Len returns the number of live workspaces
func (r *Registry) Len() int {
	return r.live.Len()
}

func (r *Registry) restore(ctx context.Context, id string) (*Workspace, error) {
	ws := r.build(id)
	restored := ws.Session.Restore(ctx)
	if err := ws.Orders.Load(ctx); err != nil {
		return nil, fmt.Errorf("restore workspace %s: %w", id, err)
	}

	r.logger.Info("workspace restored",
		zap.String("workspace_id", id),
		zap.Bool("signed_in", restored),
		zap.Int("orders", ws.Orders.Len()),
	)
	return ws, nil
}

func (r *Registry) build(id string) *Workspace {
	logger := r.logger.With(zap.String("workspace_id", id))
	blobs := store.Namespaced(r.blobs, id)

	ledger := cart.NewLedger()
	historyOpts := []order.HistoryOption{order.WithLogger(logger)}
	if r.publisher != nil {
		historyOpts = append(historyOpts, order.WithPublisher(r.publisher))
	}
	history := order.NewHistory(blobs, historyOpts...)

	return &Workspace{
		ID:   id,
		Cart: ledger,
		Session: user.NewSession(r.credentials, blobs,
			user.WithLatency(r.loginLatency),
			user.WithLogger(logger),
		),
		Checkout: checkout.NewFlow(ledger, history,
			checkout.WithLatency(r.orderLatency),
			checkout.WithLogger(logger),
		),
		Orders: history,
	}
}
