// server/internal/api/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devcamper-api-server/internal/auth"
	"devcamper-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testSecret = []byte("test-secret")

// None of these requests carry a resolvable token, so the user lookup is
// never reached and the database can be nil.
func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/protected", Authenticate(nil, testSecret, true), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not authorized to access this route"}`, w.Body.String())
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abcdef")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InvalidSignature(t *testing.T) {
	router := newAuthTestRouter()

	token, err := auth.GenerateJWT([]byte("some-other-secret"), time.Hour, primitive.NewObjectID().Hex(), models.RoleUser)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	router := newAuthTestRouter()

	token, err := auth.GenerateJWT(testSecret, -time.Minute, primitive.NewObjectID().Hex(), models.RoleUser)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// fakeUser injects a resolved user the way Authenticate would.
func fakeUser(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserKey, models.User{ID: primitive.NewObjectID(), Role: role})
		c.Next()
	}
}

func TestAuthorize_AllowsMatchingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/admin", fakeUser(models.RoleAdmin), Authorize(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorize_RejectsOtherRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/admin", fakeUser(models.RoleUser), Authorize(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "is not authorized to access this route")
}

func TestExtractToken_CookieFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})

	assert.Equal(t, "cookie-token", extractToken(c, true))
}

func TestExtractToken_CookieIgnoredWhenDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})

	assert.Equal(t, "", extractToken(c, false))
}

func TestExtractToken_HeaderWins(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer header-token")
	c.Request.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})

	assert.Equal(t, "header-token", extractToken(c, true))
}
