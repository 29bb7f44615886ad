package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/storefront"
)

// SessionCookie carries the workspace token for browsers
const SessionCookie = "storefront_session"

const workspaceKey = "workspace"

// WorkspaceOpener resolves a workspace id to its live workspace
type WorkspaceOpener interface {
	Open(ctx context.Context, id string) (*storefront.Workspace, error)
}

// ExtractToken extracts the workspace token from cookie or Authorization header
func ExtractToken(r *http.Request) string {
	// Try cookie first (for browser)
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	// Fall back to Authorization header (for API clients)
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Workspace validates the workspace token and attaches the workspace to the
// request
func Workspace(jwtService *auth.JWTService, workspaces WorkspaceOpener) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c.Request)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing workspace token"})
			return
		}

		claims, err := jwtService.ValidateWorkspaceToken(tokenString)
		if err != nil {
			msg := "invalid workspace token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "workspace token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		ws, err := workspaces.Open(c.Request.Context(), claims.WorkspaceID)
		if err != nil {
			if errors.Is(err, storefront.ErrInvalidWorkspaceID) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid workspace token"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to open workspace"})
			return
		}

		c.Set(workspaceKey, ws)
		c.Next()
	}
}

// GetWorkspace retrieves the workspace attached by Workspace
func GetWorkspace(c *gin.Context) (*storefront.Workspace, bool) {
	v, ok := c.Get(workspaceKey)
	if !ok {
		return nil, false
	}
	ws, ok := v.(*storefront.Workspace)
	return ws, ok
}

// RequestLogger logs one line per request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if ws, ok := GetWorkspace(c); ok {
			fields = append(fields, zap.String("workspace_id", ws.ID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
