// server/internal/api/handlers/user_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"devcamper-api-server/internal/apperror"
	"devcamper-api-server/internal/auth"
	"devcamper-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserHandler is the admin-only user management surface. Route-level
// Authorize("admin") guards every method.
type UserHandler struct {
	DB *mongo.Database
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user publisher admin"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	Role  string `json:"role" binding:"omitempty,oneof=user publisher admin"`
}

// GetUsers forwards the advanced-results envelope.
func (h *UserHandler) GetUsers(c *gin.Context) {
	forwardAdvancedResults(c)
}

// GetUser returns a single user by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = h.DB.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		fail(c, apperror.NotFound("User not found with id of %s", idParam))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// CreateUser creates a user account with any role.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Role:      role,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.DB.Collection("users").InsertOne(ctx, user)
	if err != nil {
		fail(c, err)
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": user})
}

// UpdateUser changes name, email or role. Passwords are never set here.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		fail(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	update := userUpdate(req)
	if len(update) == 0 {
		var user models.User
		err = h.DB.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
		if err != nil {
			fail(c, apperror.NotFound("User not found with id of %s", idParam))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
		return
	}

	var updated models.User
	err = h.DB.Collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(c, apperror.NotFound("User not found with id of %s", idParam))
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// userUpdate collects the fields the request actually sets. The password
// is never part of it.
func userUpdate(req UpdateUserRequest) bson.M {
	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.Role != "" {
		update["role"] = req.Role
	}
	return update
}

// DeleteUser removes a user account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var deleted models.User
	err = h.DB.Collection("users").FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(c, apperror.NotFound("User not found with id of %s", idParam))
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": deleted})
}
