// server/internal/api/middleware/auth.go
package middleware

import (
	"context"
	"strings"
	"time"

	"devcamper-api-server/internal/apperror"
	"devcamper-api-server/internal/auth"
	"devcamper-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserKey is the gin context key the authenticated user is stored under.
const UserKey = "user"

// Authenticate verifies the bearer token, resolves the subject to a user
// document and puts it into the context. Any failure aborts with 401
// before the handler runs. cookieAuth enables the token-cookie fallback
// for browser clients.
func Authenticate(db *mongo.Database, secret []byte, cookieAuth bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, cookieAuth)
		if tokenString == "" {
			abortWithError(c, apperror.Unauthorized("Not authorized to access this route"))
			return
		}

		claims, err := auth.ParseJWT(secret, tokenString)
		if err != nil {
			abortWithError(c, apperror.Unauthorized("Not authorized to access this route"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, apperror.Unauthorized("Not authorized to access this route"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			abortWithError(c, apperror.Unauthorized("Not authorized to access this route"))
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// Authorize checks the resolved user's role against the allowed set.
// It must run after Authenticate.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, apperror.ServerError("User not found in context"))
			return
		}

		for _, role := range allowedRoles {
			if role == user.Role {
				c.Next()
				return
			}
		}

		abortWithError(c, apperror.Forbidden("User role %s is not authorized to access this route", user.Role))
	}
}

// CurrentUser returns the user Authenticate stored in the context.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// Token comes from the Authorization header, or the token cookie when
// cookie auth is enabled.
func extractToken(c *gin.Context, cookieAuth bool) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
		return ""
	}

	if !cookieAuth {
		return ""
	}

	cookie, err := c.Cookie("token")
	if err != nil {
		return ""
	}
	return cookie
}

func abortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}
