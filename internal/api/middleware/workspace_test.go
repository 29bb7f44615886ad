package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/storefront"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubOpener struct {
	ws  *storefront.Workspace
	err error
	ids []string
}

func (s *stubOpener) Open(_ context.Context, id string) (*storefront.Workspace, error) {
	s.ids = append(s.ids, id)
	if s.err != nil {
		return nil, s.err
	}
	return s.ws, nil
}

func newTestRouter(jwtService *auth.JWTService, opener WorkspaceOpener) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Workspace(jwtService, opener))
	router.GET("/protected", func(c *gin.Context) {
		ws, ok := GetWorkspace(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, ws.ID)
	})
	return router
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", ExtractToken(req))

	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", ExtractToken(req), "cookie wins over header")

	basic := httptest.NewRequest(http.MethodGet, "/", nil)
	basic.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, ExtractToken(basic))
}

func TestWorkspace_ValidToken_Header(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, time.Hour)
	opener := &stubOpener{ws: &storefront.Workspace{ID: "ws-1"}}
	token, _, err := jwtService.GenerateWorkspaceToken("ws-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newTestRouter(jwtService, opener).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ws-1", rec.Body.String())
	assert.Equal(t, []string{"ws-1"}, opener.ids)
}

func TestWorkspace_ValidToken_Cookie(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, time.Hour)
	opener := &stubOpener{ws: &storefront.Workspace{ID: "ws-2"}}
	token, _, err := jwtService.GenerateWorkspaceToken("ws-2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	newTestRouter(jwtService, opener).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWorkspace_Rejections(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, time.Hour)
	otherService := auth.NewJWTService("another-secret-another-secret-00", time.Hour)
	forged, _, err := otherService.GenerateWorkspaceToken("ws-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		body   string
	}{
		{"missing token", "", "missing workspace token"},
		{"garbage token", "Bearer not-a-jwt", "invalid workspace token"},
		{"wrong signature", "Bearer " + forged, "invalid workspace token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &stubOpener{ws: &storefront.Workspace{ID: "ws-1"}}
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			newTestRouter(jwtService, opener).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.Empty(t, opener.ids)
		})
	}
}

func TestWorkspace_OpenFailure(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, time.Hour)
	token, _, err := jwtService.GenerateWorkspaceToken("ws-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid id", storefront.ErrInvalidWorkspaceID, http.StatusUnauthorized},
		{"storage down", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			newTestRouter(jwtService, &stubOpener{err: tt.err}).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
