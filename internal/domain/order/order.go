package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/domain/cart"
)

const AggregateType = "Order"

type Status string

// New orders are always Processing; later statuses are display-only.
const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
)

const PaymentMethodCreditCard = "Credit Card"

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrEmptyOrder            = errors.New("order must have at least one item")
	ErrInvalidShippingMethod = errors.New("shipping method has no delivery estimate")
)

// ShippingInfo is the delivery address and contact captured at checkout
type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Apartment string `json:"apartment"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// PaymentSummary is the redacted payment kept on an order
type PaymentSummary struct {
	Method     string `json:"method"`
	Last4      string `json:"last4"`
	NameOnCard string `json:"name_on_card"`
}

// RedactPayment keeps only the last four card digits and the cardholder name
func RedactPayment(cardNumber, nameOnCard string) PaymentSummary {
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, cardNumber)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return PaymentSummary{
		Method:     PaymentMethodCreditCard,
		Last4:      digits,
		NameOnCard: nameOnCard,
	}
}

// Order is the immutable record of a completed checkout
type Order struct {
	ID     string      `json:"id"`
	UserID string      `json:"user_id"`
	Items  []cart.Line `json:"items"`
	Totals
	ShippingInfo      ShippingInfo   `json:"shipping_info"`
	PaymentInfo       PaymentSummary `json:"payment_info"`
	ShippingMethod    ShippingMethod `json:"shipping_method"`
	Status            Status         `json:"status"`
	OrderDate         time.Time      `json:"order_date"`
	EstimatedDelivery time.Time      `json:"estimated_delivery"`
}

// ItemCount returns the number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// BuildInput carries everything an order is made from
type BuildInput struct {
	UserID        string
	Lines         []cart.Line
	SubtotalCents int64
	Shipping      ShippingInfo
	Payment       PaymentSummary
	Method        ShippingMethod
	Now           time.Time
}

// Build creates a Processing order. The subtotal is taken as given, matching
// the cart's running total.
func Build(in BuildInput) (*Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if in.Method.MaxDays <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidShippingMethod, in.Method.ID)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate order id: %w", err)
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Order{
		ID:                "ORD-" + id.String(),
		UserID:            in.UserID,
		Items:             append([]cart.Line(nil), in.Lines...),
		Totals:            ComputeTotals(in.SubtotalCents, in.Method.PriceCents),
		ShippingInfo:      in.Shipping,
		PaymentInfo:       in.Payment,
		ShippingMethod:    in.Method,
		Status:            StatusProcessing,
		OrderDate:         now,
		EstimatedDelivery: now.Add(time.Duration(in.Method.MaxDays) * 24 * time.Hour),
	}, nil
}
