// server/internal/api/handlers/auth_handler.go
package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"devcamper-api-server/config"
	"devcamper-api-server/internal/apperror"
	"devcamper-api-server/internal/api/middleware"
	"devcamper-api-server/internal/auth"
	"devcamper-api-server/internal/mailer"
	"devcamper-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const resetTokenTTL = 10 * time.Minute

type AuthHandler struct {
	DB           *mongo.Database
	Cfg          config.Config
	EmailService *mailer.EmailService
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user publisher"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateDetailsRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates a user account and responds with a signed token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
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
		// Duplicate email is remapped to 400 by the error middleware.
		fail(c, err)
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	h.sendTokenResponse(c, user, http.StatusOK)
}

// Login verifies credentials and responds with a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := h.DB.Collection("users").FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		fail(c, apperror.Unauthorized("Invalid credentials"))
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		fail(c, apperror.Unauthorized("Invalid credentials"))
		return
	}

	h.sendTokenResponse(c, user, http.StatusOK)
}

// Logout clears the token cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", h.secureCookie(), true)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

// GetSingleUser returns the currently authenticated user.
func (h *AuthHandler) GetSingleUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperror.ServerError("User not found in context"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// UpdateDetails changes the acting user's name and email.
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperror.ServerError("User not found in context"))
		return
	}

	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var updated models.User
	err := h.DB.Collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"name": req.Name, "email": req.Email}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// UpdatePassword changes the password after verifying the current one.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperror.ServerError("User not found in context"))
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.Password) {
		fail(c, apperror.Unauthorized("Password is incorrect"))
		return
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	_, err = h.DB.Collection("users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"password": hashedPassword}},
	)
	if err != nil {
		fail(c, err)
		return
	}

	h.sendTokenResponse(c, user, http.StatusOK)
}

// ForgotPassword issues a reset token and emails it to the user. If the
// email cannot be sent the token is rolled back so no undelivered token
// stays valid.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	users := h.DB.Collection("users")

	var user models.User
	err := users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		fail(c, apperror.NotFound("There is no user with that email"))
		return
	}

	rawToken, hashedToken := auth.NewResetToken()

	_, err = users.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"resetPasswordToken":  hashedToken,
			"resetPasswordExpire": time.Now().Add(resetTokenTTL),
		}},
	)
	if err != nil {
		fail(c, err)
		return
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", requestScheme(c), c.Request.Host, rawToken)

	if err := h.EmailService.SendResetPasswordEmail(user.Email, resetURL); err != nil {
		log.Printf("reset password email to %s failed: %v", user.Email, err)

		_, rollbackErr := users.UpdateOne(ctx,
			bson.M{"_id": user.ID},
			bson.M{"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""}},
		)
		if rollbackErr != nil {
			log.Printf("reset token rollback for %s failed: %v", user.Email, rollbackErr)
		}

		fail(c, apperror.ServerError("Email could not be sent"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": "Email sent"})
}

// ResetPassword consumes a reset token and sets the new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	hashedToken := auth.HashToken(c.Param("resettoken"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users := h.DB.Collection("users")

	var user models.User
	err := users.FindOne(ctx, bson.M{
		"resetPasswordToken":  hashedToken,
		"resetPasswordExpire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		fail(c, apperror.BadRequest("Invalid token"))
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	_, err = users.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$set":   bson.M{"password": hashedPassword},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
		},
	)
	if err != nil {
		fail(c, err)
		return
	}

	h.sendTokenResponse(c, user, http.StatusOK)
}

// sendTokenResponse signs a JWT for the user, sets it as a cookie and
// writes the token envelope.
func (h *AuthHandler) sendTokenResponse(c *gin.Context, user models.User, statusCode int) {
	expiration, err := time.ParseDuration(h.Cfg.JWT.Expiration)
	if err != nil {
		expiration = 720 * time.Hour
	}

	token, err := auth.GenerateJWT([]byte(h.Cfg.JWT.Secret), expiration, user.ID.Hex(), user.Role)
	if err != nil {
		fail(c, err)
		return
	}

	cookieMaxAge := h.Cfg.JWT.CookieExpireDays * 24 * 60 * 60
	c.SetCookie("token", token, cookieMaxAge, "/", "", h.secureCookie(), true)

	c.JSON(statusCode, gin.H{"success": true, "token": token})
}

func (h *AuthHandler) secureCookie() bool {
	return h.Cfg.Server.Mode == "release"
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
