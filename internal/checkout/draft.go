package checkout

import (
	"github.com/example/storefront/internal/domain/order"
)

// Step is a stage of the checkout wizard
type Step int

const (
	StepShipping     Step = 1
	StepPayment      Step = 2
	StepReview       Step = 3
	StepConfirmation Step = 4
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "Shipping"
	case StepPayment:
		return "Payment"
	case StepReview:
		return "Review"
	case StepConfirmation:
		return "Confirmation"
	}
	return "Unknown"
}

const DefaultCountry = "United States"

// BillingAddress is only consulted when SameAsShipping is false
type BillingAddress struct {
	SameAsShipping bool   `json:"same_as_shipping"`
	Address        string `json:"address"`
	Apartment      string `json:"apartment"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Country        string `json:"country"`
}

// PaymentInfo is the card entered at checkout. Only a redacted summary
// outlives the draft.
type PaymentInfo struct {
	CardNumber     string         `json:"card_number"`
	ExpiryDate     string         `json:"expiry_date"`
	CVV            string         `json:"cvv"`
	NameOnCard     string         `json:"name_on_card"`
	BillingAddress BillingAddress `json:"billing_address"`
}

// Draft is the in-progress checkout
type Draft struct {
	Step           Step                 `json:"step"`
	ShippingInfo   order.ShippingInfo   `json:"shipping_info"`
	PaymentInfo    PaymentInfo          `json:"payment_info"`
	ShippingMethod order.ShippingMethod `json:"shipping_method"`
}

// DefaultDraft is the state of a fresh checkout
func DefaultDraft() Draft {
	return Draft{
		Step:         StepShipping,
		ShippingInfo: order.ShippingInfo{Country: DefaultCountry},
		PaymentInfo: PaymentInfo{
			BillingAddress: BillingAddress{SameAsShipping: true, Country: DefaultCountry},
		},
		ShippingMethod: order.DefaultShippingMethod(),
	}
}

// ShippingUpdate is a partial shipping info change; nil fields are kept
type ShippingUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Apartment *string `json:"apartment,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zip_code,omitempty"`
	Country   *string `json:"country,omitempty"`
}

func (u ShippingUpdate) apply(s *order.ShippingInfo) {
	set(&s.FirstName, u.FirstName)
	set(&s.LastName, u.LastName)
	set(&s.Email, u.Email)
	set(&s.Phone, u.Phone)
	set(&s.Address, u.Address)
	set(&s.Apartment, u.Apartment)
	set(&s.City, u.City)
	set(&s.State, u.State)
	set(&s.ZipCode, u.ZipCode)
	set(&s.Country, u.Country)
}

// PaymentUpdate is a partial card change; nil fields are kept
type PaymentUpdate struct {
	CardNumber *string `json:"card_number,omitempty"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
	CVV        *string `json:"cvv,omitempty"`
	NameOnCard *string `json:"name_on_card,omitempty"`
}

func (u PaymentUpdate) apply(p *PaymentInfo) {
	set(&p.CardNumber, u.CardNumber)
	set(&p.ExpiryDate, u.ExpiryDate)
	set(&p.CVV, u.CVV)
	set(&p.NameOnCard, u.NameOnCard)
}

// BillingUpdate is a partial billing address change; nil fields are kept
type BillingUpdate struct {
	SameAsShipping *bool   `json:"same_as_shipping,omitempty"`
	Address        *string `json:"address,omitempty"`
	Apartment      *string `json:"apartment,omitempty"`
	City           *string `json:"city,omitempty"`
	State          *string `json:"state,omitempty"`
	ZipCode        *string `json:"zip_code,omitempty"`
	Country        *string `json:"country,omitempty"`
}

func (u BillingUpdate) apply(b *BillingAddress) {
	if u.SameAsShipping != nil {
		b.SameAsShipping = *u.SameAsShipping
	}
	set(&b.Address, u.Address)
	set(&b.Apartment, u.Apartment)
	set(&b.City, u.City)
	set(&b.State, u.State)
	set(&b.ZipCode, u.ZipCode)
	set(&b.Country, u.Country)
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
