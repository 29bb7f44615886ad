package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/storefront"
)

// Catalog is the read-only product source
type Catalog interface {
	ListProducts(ctx context.Context, opts catalog.ListOptions) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int) (catalog.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Workspaces creates and opens shopper workspaces
type Workspaces interface {
	middleware.WorkspaceOpener
	Create(ctx context.Context) (*storefront.Workspace, error)
}

type Handlers struct {
	workspaces   Workspaces
	jwtService   *auth.JWTService
	catalog      Catalog
	secureCookie bool
}

func NewHandlers(workspaces Workspaces, jwtService *auth.JWTService, products Catalog, secureCookie bool) *Handlers {
	return &Handlers{
		workspaces:   workspaces,
		jwtService:   jwtService,
		catalog:      products,
		secureCookie: secureCookie,
	}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SessionResponse is returned when a workspace is created
type SessionResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	WorkspaceID string    `json:"workspace_id"`
}

// CreateSession starts a new workspace and hands out its token, both in the
// body and as a cookie
func (h *Handlers) CreateSession(c *gin.Context) {
	ws, err := h.workspaces.Create(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "failed to create workspace")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateWorkspaceToken(ws.ID)
	if err != nil {
		respondDomainError(c, err, "failed to issue workspace token")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.jwtService.TokenExpiry().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusCreated, SessionResponse{
		Token:       token,
		ExpiresAt:   expiresAt,
		WorkspaceID: ws.ID,
	})
}
