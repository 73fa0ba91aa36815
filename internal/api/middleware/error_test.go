// server/internal/api/middleware/error_test.go
package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"devcamper-api-server/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func serveWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		c.Error(err)
		c.Abort()
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestErrorHandler_AppError(t *testing.T) {
	w := serveWithError(t, apperror.NotFound("Bootcamp not found with id of abc"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Bootcamp not found with id of abc"}`, w.Body.String())
}

func TestErrorHandler_InvalidObjectID(t *testing.T) {
	_, err := primitive.ObjectIDFromHex("not-a-hex-id")
	w := serveWithError(t, err)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Resource not found"}`, w.Body.String())
}

func TestErrorHandler_NoDocuments(t *testing.T) {
	w := serveWithError(t, mongo.ErrNoDocuments)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorHandler_DuplicateKey(t *testing.T) {
	duplicate := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	w := serveWithError(t, duplicate)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Duplicate field value entered"}`, w.Body.String())
}

func TestErrorHandler_UnknownError(t *testing.T) {
	w := serveWithError(t, errors.New("something internal leaked"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Server Error"}`, w.Body.String())
}

func TestErrorHandler_NoErrorPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}
