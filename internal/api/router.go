package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
)

// RouterConfig holds the dependencies of the HTTP surface
type RouterConfig struct {
	Workspaces   Workspaces
	JWTService   *auth.JWTService
	Catalog      Catalog
	CORSOrigins  []string
	SecureCookie bool
	Logger       *zap.Logger
}

// NewRouter creates the gin engine with all routes.
//
// Catalog routes are public. Everything else is scoped to the workspace named
// by the session token issued from POST /sessions.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := NewHandlers(cfg.Workspaces, cfg.JWTService, cfg.Catalog, cfg.SecureCookie)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", h.Health)
	router.POST("/sessions", h.CreateSession)

	// Catalog
	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/categories", h.ListCategories)
	router.GET("/sort-orders", h.ListSortOrders)

	ws := router.Group("/", middleware.Workspace(cfg.JWTService, cfg.Workspaces))

	// Cart
	ws.GET("/cart", h.GetCart)
	ws.POST("/cart/items", h.AddToCart)
	ws.PATCH("/cart/items", h.UpdateCartItem)
	ws.DELETE("/cart/items", h.RemoveCartItem)
	ws.DELETE("/cart", h.ClearCart)

	// Session
	ws.GET("/auth/session", h.GetSession)
	ws.POST("/auth/login", h.Login)
	ws.POST("/auth/register", h.Register)
	ws.POST("/auth/logout", h.Logout)
	ws.PATCH("/auth/profile", h.UpdateProfile)
	ws.DELETE("/auth/error", h.ClearSessionError)

	// Checkout
	ws.POST("/checkout", h.BeginCheckout)
	ws.GET("/checkout", h.GetCheckout)
	ws.POST("/checkout/advance", h.AdvanceCheckout)
	ws.POST("/checkout/retreat", h.RetreatCheckout)
	ws.PATCH("/checkout/shipping", h.UpdateShipping)
	ws.PATCH("/checkout/payment", h.UpdatePayment)
	ws.PATCH("/checkout/billing", h.UpdateBilling)
	ws.GET("/checkout/shipping-methods", h.ListShippingMethods)
	ws.PUT("/checkout/shipping-method", h.SelectShippingMethod)
	ws.POST("/checkout/place", h.PlaceOrder)
	ws.POST("/checkout/finish", h.FinishCheckout)
	ws.DELETE("/checkout/error", h.ClearCheckoutError)

	// Orders
	ws.GET("/orders", h.ListOrders)
	ws.GET("/orders/:id", h.GetOrder)

	return router
}
