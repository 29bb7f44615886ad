package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/storefront/internal/domain/user"
)

// LoginRequest represents a sign-in attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a new account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

func (h *Handlers) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, workspace(c).Session.State())
}

func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session := workspace(c).Session
	if _, err := session.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		respondDomainError(c, err, sessionMessage(session, err))
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	session := workspace(c).Session
	_, err := session.Register(c.Request.Context(), user.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondDomainError(c, err, sessionMessage(session, err))
		return
	}
	c.JSON(http.StatusCreated, session.State())
}

func (h *Handlers) Logout(c *gin.Context) {
	session := workspace(c).Session
	session.Logout(c.Request.Context())
	c.JSON(http.StatusOK, session.State())
}

func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req user.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	identity, err := workspace(c).Session.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, identity)
}

func (h *Handlers) ClearSessionError(c *gin.Context) {
	session := workspace(c).Session
	session.ClearError()
	c.JSON(http.StatusOK, session.State())
}

// sessionMessage returns the shopper-facing message the session recorded for
// err. Rejected and abandoned requests record nothing.
func sessionMessage(session *user.Session, err error) string {
	if errors.Is(err, user.ErrRequestInFlight) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ""
	}
	return session.State().LastError
}
