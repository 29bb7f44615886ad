package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/order"
)

// CheckoutResponse is the wizard state together with the running totals
type CheckoutResponse struct {
	checkout.State
	Step    string       `json:"step_name"`
	Summary order.Totals `json:"summary"`
}

// ShippingMethodResponse adds the display label for the delivery window
type ShippingMethodResponse struct {
	order.ShippingMethod
	EstimatedDays string `json:"estimated_days"`
}

// SelectShippingMethodRequest picks a delivery option by id
type SelectShippingMethodRequest struct {
	ID string `json:"id" binding:"required"`
}

// StepResponse reports the wizard position after navigation
type StepResponse struct {
	Step     checkout.Step `json:"step"`
	StepName string        `json:"step_name"`
}

func checkoutResponse(flow *checkout.Flow) CheckoutResponse {
	state := flow.State()
	return CheckoutResponse{
		State:   state,
		Step:    state.Draft.Step.String(),
		Summary: flow.Summary(),
	}
}

func respondStep(c *gin.Context, step checkout.Step, err error) {
	if err != nil {
		respondDomainError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, StepResponse{Step: step, StepName: step.String()})
}

// respondDraft writes the updated draft, or 409 while an order is being placed
func respondDraft(c *gin.Context, d checkout.Draft, err error) {
	if err != nil {
		respondDomainError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, d)
}

// BeginCheckout resets the wizard and prefills shipping from the profile
func (h *Handlers) BeginCheckout(c *gin.Context) {
	ws := workspace(c)
	if err := ws.BeginCheckout(); err != nil {
		respondDomainError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, checkoutResponse(ws.Checkout))
}

func (h *Handlers) GetCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, checkoutResponse(workspace(c).Checkout))
}

func (h *Handlers) AdvanceCheckout(c *gin.Context) {
	step, err := workspace(c).Checkout.Advance()
	respondStep(c, step, err)
}

func (h *Handlers) RetreatCheckout(c *gin.Context) {
	step, err := workspace(c).Checkout.Retreat()
	respondStep(c, step, err)
}

func (h *Handlers) UpdateShipping(c *gin.Context) {
	var req checkout.ShippingUpdate
	if !bindJSON(c, &req) {
		return
	}
	d, err := workspace(c).Checkout.UpdateShipping(req)
	respondDraft(c, d, err)
}

func (h *Handlers) UpdatePayment(c *gin.Context) {
	var req checkout.PaymentUpdate
	if !bindJSON(c, &req) {
		return
	}
	d, err := workspace(c).Checkout.UpdatePayment(req)
	respondDraft(c, d, err)
}

func (h *Handlers) UpdateBilling(c *gin.Context) {
	var req checkout.BillingUpdate
	if !bindJSON(c, &req) {
		return
	}
	d, err := workspace(c).Checkout.UpdateBilling(req)
	respondDraft(c, d, err)
}

func (h *Handlers) SelectShippingMethod(c *gin.Context) {
	var req SelectShippingMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	method, ok := order.LookupShippingMethod(req.ID)
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown shipping method: "+req.ID)
		return
	}
	d, err := workspace(c).Checkout.SelectShippingMethod(method)
	respondDraft(c, d, err)
}

func (h *Handlers) ListShippingMethods(c *gin.Context) {
	methods := order.ShippingMethods()
	resp := make([]ShippingMethodResponse, len(methods))
	for i, m := range methods {
		resp[i] = ShippingMethodResponse{ShippingMethod: m, EstimatedDays: m.EstimatedDays()}
	}
	c.JSON(http.StatusOK, resp)
}

// PlaceOrder commits the checkout at the review step
func (h *Handlers) PlaceOrder(c *gin.Context) {
	ws := workspace(c)
	o, err := ws.PlaceOrder(c.Request.Context())
	if err != nil {
		message := ""
		if errors.Is(err, checkout.ErrCommitFailed) {
			message = ws.Checkout.State().LastError
		}
		respondDomainError(c, err, message)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handlers) FinishCheckout(c *gin.Context) {
	ws := workspace(c)
	if err := ws.FinishCheckout(); err != nil {
		respondDomainError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, checkoutResponse(ws.Checkout))
}

func (h *Handlers) ClearCheckoutError(c *gin.Context) {
	flow := workspace(c).Checkout
	flow.ClearError()
	c.JSON(http.StatusOK, checkoutResponse(flow))
}
