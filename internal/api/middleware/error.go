// server/internal/api/middleware/error.go
package middleware

import (
	"errors"
	"log"
	"strings"

	"devcamper-api-server/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrorHandler is the terminal error-formatting stage. Handlers and
// middleware attach typed errors to the context; this middleware remaps
// known store error shapes to the taxonomy and writes the failure envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		statusCode, message := mapError(err)

		log.Printf("request error: %s %s -> %d: %v", c.Request.Method, c.Request.URL.Path, statusCode, err)

		c.JSON(statusCode, gin.H{"success": false, "error": message})
	}
}

func mapError(err error) (int, string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode, appErr.Message
	}

	// Malformed ObjectID behaves like a missing resource.
	if errors.Is(err, primitive.ErrInvalidHex) {
		return 404, "Resource not found"
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return 404, "Resource not found"
	}

	if mongo.IsDuplicateKeyError(err) {
		return 400, "Duplicate field value entered"
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			messages = append(messages, validationMessage(fieldErr))
		}
		return 400, strings.Join(messages, ", ")
	}

	return 500, "Server Error"
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "Please add a " + strings.ToLower(fieldErr.Field())
	case "email":
		return "Please add a valid email"
	default:
		return "Invalid value for " + strings.ToLower(fieldErr.Field())
	}
}
