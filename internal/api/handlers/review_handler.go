// server/internal/api/handlers/review_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"devcamper-api-server/internal/apperror"
	"devcamper-api-server/internal/api/middleware"
	"devcamper-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewHandler struct {
	DB *mongo.Database
}

type CreateReviewRequest struct {
	Title  string `json:"title" binding:"required"`
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
}

type UpdateReviewRequest struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Rating *int   `json:"rating" binding:"omitempty,min=1,max=10"`
}

// GetReviews forwards the advanced-results envelope for the top-level
// review collection.
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	forwardAdvancedResults(c)
}

// GetBootcampReviews lists the reviews of one bootcamp, unpaginated.
func (h *ReviewHandler) GetBootcampReviews(c *gin.Context) {
	bootcampID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cursor, err := h.DB.Collection("reviews").Find(ctx, bson.M{"bootcamp": bootcampID})
	if err != nil {
		fail(c, err)
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err = cursor.All(ctx, &reviews); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(reviews), "data": reviews})
}

// GetReview returns a single review with its bootcamp's name and
// description joined in.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var review bson.M
	err = h.DB.Collection("reviews").FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		fail(c, apperror.NotFound("Review not found with id of %s", idParam))
		return
	}

	results := []bson.M{review}
	if err := middleware.PopulateBootcamps(ctx, h.DB, results); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": results[0]})
}

// CreateReview adds a review for a bootcamp. One review per user per
// bootcamp, enforced by a unique index.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperror.ServerError("User not found in context"))
		return
	}

	bootcampIDParam := c.Param("id")
	bootcampID, err := primitive.ObjectIDFromHex(bootcampIDParam)
	if err != nil {
		fail(c, err)
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := h.DB.Collection("bootcamps").CountDocuments(ctx, bson.M{"_id": bootcampID})
	if err != nil {
		fail(c, err)
		return
	}
	if count == 0 {
		fail(c, apperror.NotFound("No bootcamp with the id of %s", bootcampIDParam))
		return
	}

	review := models.Review{
		Title:     req.Title,
		Text:      req.Text,
		Rating:    req.Rating,
		CreatedAt: time.Now(),
		Bootcamp:  bootcampID,
		User:      user.ID,
	}

	result, err := h.DB.Collection("reviews").InsertOne(ctx, review)
	if err != nil {
		// Duplicate (bootcamp, user) pair is remapped to 400.
		fail(c, err)
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	h.updateAverageRating(bootcampID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
}

// UpdateReview updates a review; only the author or an admin may do so.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperror.ServerError("User not found in context"))
		return
	}

	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		fail(c, err)
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reviews := h.DB.Collection("reviews")

	var review models.Review
	err = reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		fail(c, apperror.NotFound("Review not found with id of %s", idParam))
		return
	}

	if !ownerOrAdmin(user, review.User) {
		fail(c, apperror.Unauthorized("Not authorized to update review"))
		return
	}

	update := reviewUpdate(req)
	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": review})
		return
	}

	var updated models.Review
	err = reviews.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		fail(c, err)
		return
	}

	h.updateAverageRating(review.Bootcamp)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// DeleteReview removes a review; only the author or an admin may do so.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperror.ServerError("User not found in context"))
		return
	}

	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reviews := h.DB.Collection("reviews")

	var review models.Review
	err = reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		fail(c, apperror.NotFound("Review not found with id of %s", idParam))
		return
	}

	if !ownerOrAdmin(user, review.User) {
		fail(c, apperror.Unauthorized("Not authorized to delete review"))
		return
	}

	if _, err := reviews.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		fail(c, err)
		return
	}

	h.updateAverageRating(review.Bootcamp)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": review})
}

// reviewUpdate collects the fields the request actually sets.
func reviewUpdate(req UpdateReviewRequest) bson.M {
	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Text != "" {
		update["text"] = req.Text
	}
	if req.Rating != nil {
		update["rating"] = *req.Rating
	}
	return update
}

// updateAverageRating recomputes the bootcamp's averageRating from its
// reviews. Best-effort, like the course cost recompute.
func (h *ReviewHandler) updateAverageRating(bootcampID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := h.DB.Collection("reviews").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$bootcamp",
			"averageRating": bson.M{"$avg": "$rating"},
		}}},
	})
	if err != nil {
		log.Printf("average rating aggregation for bootcamp %s failed: %v", bootcampID.Hex(), err)
		return
	}
	defer cursor.Close(ctx)

	var rows []struct {
		AverageRating float64 `bson:"averageRating"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		log.Printf("average rating decode for bootcamp %s failed: %v", bootcampID.Hex(), err)
		return
	}

	bootcamps := h.DB.Collection("bootcamps")

	if len(rows) == 0 {
		_, err = bootcamps.UpdateOne(ctx, bson.M{"_id": bootcampID}, bson.M{"$unset": bson.M{"averageRating": ""}})
	} else {
		_, err = bootcamps.UpdateOne(ctx,
			bson.M{"_id": bootcampID},
			bson.M{"$set": bson.M{"averageRating": rows[0].AverageRating}},
		)
	}
	if err != nil {
		log.Printf("average rating update for bootcamp %s failed: %v", bootcampID.Hex(), err)
	}
}
