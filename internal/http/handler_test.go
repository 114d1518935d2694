package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"petgame-backend/internal/auth"
)

func routeSet(r *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, route := range r.Routes() {
		set[route.Method+" "+route.Path] = true
	}
	return set
}

func TestRouterMountsAllRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Tokens: auth.NewTokenManager("test-secret", time.Hour)}

	routes := routeSet(h.Router())

	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"GET /api/me",
		"GET /api/me/economic",
		"GET /api/me/cooldowns",
		"GET /api/me/transactions",
		"POST /api/me/daily-login",
		"POST /api/me/minigame",
		"POST /api/pets",
		"GET /api/pets",
		"GET /api/pets/:id",
		"DELETE /api/pets/:id",
		"POST /api/pets/:id/feed",
		"POST /api/pets/:id/play",
		"POST /api/pets/:id/ability",
		"GET /api/shop/items",
		"POST /api/shop/purchase",
		"GET /api/inventory",
		"POST /api/inventory/use",
		"GET /api/missions",
		"POST /api/missions/:code/complete",
		"POST /api/missions/:code/claim",
		"GET /api/achievements",
		"POST /api/achievements/:code/unlock",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestAuthenticatedRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Tokens: auth.NewTokenManager("test-secret", time.Hour)}
	r := h.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/missions", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
