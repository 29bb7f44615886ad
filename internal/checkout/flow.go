package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/latency"
)

var (
	ErrNotInReview   = errors.New("order can only be placed from the review step")
	ErrCommitFailed  = errors.New("failed to place order")
	ErrCommitPending = errors.New("an order is being placed")
)

// MsgCommitFailed is shown to the shopper when placing an order fails
const MsgCommitFailed = "Failed to place order. Please try again."

const commitKey = "commit"

// State is a point-in-time copy of the checkout
type State struct {
	Draft        Draft        `json:"draft"`
	Pending      bool         `json:"pending"`
	LastError    string       `json:"error,omitempty"`
	CurrentOrder *order.Order `json:"current_order,omitempty"`
}

// Flow is the checkout wizard. It reads the cart it was built with and
// appends committed orders to the history.
type Flow struct {
	mu        sync.Mutex
	draft     Draft
	pending   bool
	lastError string
	current   *order.Order

	cart     *cart.Ledger
	history  *order.History
	commits  singleflight.Group
	inflight *commitCall

	latency time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Flow
type Option func(*Flow)

// WithLatency sets the simulated delay applied when placing an order
func WithLatency(d time.Duration) Option {
	return func(f *Flow) { f.latency = d }
}

// WithLogger sets the checkout logger
func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger.Named("checkout")
		}
	}
}

// WithClock overrides time.Now for order dates
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

func NewFlow(ledger *cart.Ledger, history *order.History, opts ...Option) *Flow {
	f := &Flow{
		draft:   DefaultDraft(),
		cart:    ledger,
		history: history,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a copy of the checkout state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Draft:        f.draft,
		Pending:      f.pending,
		LastError:    f.lastError,
		CurrentOrder: f.current,
	}
}

// Step returns the current wizard step
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Step
}

// Begin starts a fresh checkout, prefilling contact details and the
// cardholder name from buyer
func (f *Flow) Begin(buyer user.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending {
		return ErrCommitPending
	}

	f.resetLocked()
	if f.draft.ShippingInfo.FirstName == "" {
		f.draft.ShippingInfo.FirstName = buyer.FirstName
		f.draft.ShippingInfo.LastName = buyer.LastName
		f.draft.ShippingInfo.Email = buyer.Email
		f.draft.ShippingInfo.Phone = buyer.Phone
	}
	if f.draft.PaymentInfo.NameOnCard == "" {
		f.draft.PaymentInfo.NameOnCard = buyer.FullName()
	}
	return nil
}

// Advance moves one step forward, stopping at Confirmation
func (f *Flow) Advance() (Step, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending {
		return f.draft.Step, ErrCommitPending
	}
	if f.draft.Step >= StepShipping && f.draft.Step < StepConfirmation {
		f.draft.Step++
	}
	return f.draft.Step, nil
}

// Retreat moves one step back from Payment or Review
func (f *Flow) Retreat() (Step, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending {
		return f.draft.Step, ErrCommitPending
	}
	if f.draft.Step > StepShipping && f.draft.Step < StepConfirmation {
		f.draft.Step--
	}
	return f.draft.Step, nil
}

func (f *Flow) UpdateShipping(u ShippingUpdate) (Draft, error) {
	return f.edit(func(d *Draft) { u.apply(&d.ShippingInfo) })
}

func (f *Flow) UpdatePayment(u PaymentUpdate) (Draft, error) {
	return f.edit(func(d *Draft) { u.apply(&d.PaymentInfo) })
}

func (f *Flow) UpdateBilling(u BillingUpdate) (Draft, error) {
	return f.edit(func(d *Draft) { u.apply(&d.PaymentInfo.BillingAddress) })
}

// SelectShippingMethod overwrites the chosen delivery option
func (f *Flow) SelectShippingMethod(m order.ShippingMethod) (Draft, error) {
	return f.edit(func(d *Draft) { d.ShippingMethod = m })
}

// edit applies fn to the draft unless an order is being placed
func (f *Flow) edit(fn func(*Draft)) (Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending {
		return f.draft, ErrCommitPending
	}
	fn(&f.draft)
	return f.draft, nil
}

// Summary prices the cart with the chosen shipping method
func (f *Flow) Summary() order.Totals {
	f.mu.Lock()
	shipping := f.draft.ShippingMethod.PriceCents
	f.mu.Unlock()
	return order.ComputeTotals(f.cart.TotalAmountCents(), shipping)
}

// Commit places the order for buyer. It is only valid at the review step.
// Concurrent calls share a single execution and receive the same order.
// A caller whose ctx is cancelled returns at once; the placement itself is
// abandoned, with no other change, only if every caller has gone before the
// simulated delay ends. The draft and cart are captured when the placement
// starts and the draft is frozen until it ends.
func (f *Flow) Commit(ctx context.Context, buyer user.Identity) (*order.Order, error) {
	call := f.joinCommit(ctx)
	ch := f.commits.DoChan(commitKey, func() (any, error) {
		return f.commit(call.ctx, buyer)
	})

	select {
	case res := <-ch:
		f.leaveCommit(call)
		if res.Shared {
			f.logger.Debug("joined in-flight order placement")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*order.Order), nil
	case <-ctx.Done():
		f.leaveCommit(call)
		return nil, ctx.Err()
	}
}

// commitCall is the context shared by every caller of one placement. It is
// cancelled once the last caller has left, so the placement is abandoned only
// when nobody is waiting for it.
type commitCall struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (f *Flow) joinCommit(ctx context.Context) *commitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inflight == nil {
		shared, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f.inflight = &commitCall{ctx: shared, cancel: cancel}
	}
	f.inflight.waiters++
	return f.inflight
}

func (f *Flow) leaveCommit(call *commitCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call.waiters--
	if call.waiters > 0 {
		return
	}
	call.cancel()
	if f.inflight == call {
		f.inflight = nil
	}
}

func (f *Flow) commit(ctx context.Context, buyer user.Identity) (*order.Order, error) {
	f.mu.Lock()
	if f.draft.Step != StepReview {
		f.mu.Unlock()
		return nil, ErrNotInReview
	}
	draft := f.draft
	snapshot := f.cart.Snapshot()
	f.pending = true
	f.lastError = ""
	f.mu.Unlock()

	if err := latency.Wait(ctx, f.latency); err != nil {
		f.mu.Lock()
		f.pending = false
		f.mu.Unlock()
		return nil, err
	}

	o, err := order.Build(order.BuildInput{
		UserID:        buyer.ID,
		Lines:         snapshot.Lines,
		SubtotalCents: snapshot.TotalAmountCents,
		Shipping:      draft.ShippingInfo,
		Payment:       order.RedactPayment(draft.PaymentInfo.CardNumber, draft.PaymentInfo.NameOnCard),
		Method:        draft.ShippingMethod,
		Now:           f.now(),
	})
	if err != nil {
		return nil, f.fail(err)
	}
	if err := f.history.Append(context.WithoutCancel(ctx), o); err != nil {
		return nil, f.fail(err)
	}

	f.mu.Lock()
	f.draft.Step = StepConfirmation
	f.current = o
	f.pending = false
	f.mu.Unlock()

	return o, nil
}

func (f *Flow) fail(cause error) error {
	f.mu.Lock()
	f.pending = false
	f.lastError = MsgCommitFailed
	f.mu.Unlock()

	f.logger.Warn("order placement failed", zap.Error(cause))
	return fmt.Errorf("%w: %w", ErrCommitFailed, cause)
}

// Finish empties the cart and starts over after a confirmed order
func (f *Flow) Finish() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending {
		return ErrCommitPending
	}
	f.cart.Clear()
	f.resetLocked()
	return nil
}

// Reset returns the draft to its defaults and forgets the current order
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Flow) ClearError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastError = ""
}

func (f *Flow) resetLocked() {
	f.draft = DefaultDraft()
	f.current = nil
	f.lastError = ""
}
