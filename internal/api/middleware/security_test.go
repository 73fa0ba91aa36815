// server/internal/api/middleware/security_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"devcamper-api-server/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitRouter(cfg config.RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(RateLimit(cfg))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestRateLimit_BlocksOverBudget(t *testing.T) {
	router := newRateLimitRouter(config.RateLimitConfig{Requests: 2, Window: "1m"})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Too many requests, please try again later"}`, w.Body.String())
}

func TestRateLimit_ZeroConfigUsesDefaults(t *testing.T) {
	router := newRateLimitRouter(config.RateLimitConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
