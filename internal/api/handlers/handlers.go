// server/internal/api/handlers/handlers.go
package handlers

import (
	"net/http"

	"devcamper-api-server/internal/api/middleware"
	"devcamper-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fail attaches the error to the context and stops the chain; the error
// middleware turns it into the failure envelope.
func fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// ownerOrAdmin is the ownership guard: a record may be mutated by the user
// it belongs to, or by an admin.
func ownerOrAdmin(user models.User, ownerID primitive.ObjectID) bool {
	return user.ID == ownerID || user.Role == models.RoleAdmin
}

// forwardAdvancedResults writes the envelope the advanced-results
// middleware left in the context.
func forwardAdvancedResults(c *gin.Context) {
	result, exists := c.Get(middleware.AdvancedResultsKey)
	if !exists {
		c.JSON(http.StatusOK, gin.H{"success": true, "count": 0, "pagination": gin.H{}, "data": []gin.H{}})
		return
	}
	c.JSON(http.StatusOK, result)
}
