package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/storefront"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondDomainError maps a domain error to its status code. message, when
// set, replaces err's text in the body.
func respondDomainError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	if message == "" {
		message = err.Error()
	}
	respondError(c, status, message)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, storefront.ErrEmptyCart),
		errors.Is(err, checkout.ErrNotInReview),
		errors.Is(err, checkout.ErrCommitPending):
		return http.StatusConflict
	case errors.Is(err, user.ErrRequestInFlight):
		return http.StatusTooManyRequests
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func workspace(c *gin.Context) *storefront.Workspace {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		panic("api: workspace route registered without workspace middleware")
	}
	return ws
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
