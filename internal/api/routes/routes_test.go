// server/internal/api/routes/routes_test.go
package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"devcamper-api-server/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	cfg := config.Config{}
	cfg.Server.Mode = "test"
	return SetupRouter(cfg, nil, nil, nil, nil)
}

func TestSetupRouter_RecoversFromPanic(t *testing.T) {
	router := newTestRouter()
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSetupRouter_SecurityHeaders(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nosuchroute", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
