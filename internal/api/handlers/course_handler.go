// server/internal/api/handlers/course_handler.go
package handlers

import (
	"context"
	"log"
	"math"
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

type CourseHandler struct {
	DB *mongo.Database
}

type CreateCourseRequest struct {
	Title                string  `json:"title" binding:"required"`
	Description          string  `json:"description" binding:"required"`
	Weeks                string  `json:"weeks" binding:"required"`
	Tuition              float64 `json:"tuition" binding:"required,gt=0"`
	MinimumSkill         string  `json:"minimumSkill" binding:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

type UpdateCourseRequest struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Weeks                string   `json:"weeks"`
	Tuition              *float64 `json:"tuition" binding:"omitempty,gt=0"`
	MinimumSkill         string   `json:"minimumSkill" binding:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

// GetCourses forwards the advanced-results envelope for the top-level
// course collection.
func (h *CourseHandler) GetCourses(c *gin.Context) {
	forwardAdvancedResults(c)
}

// GetBootcampCourses lists the courses of one bootcamp, unpaginated.
func (h *CourseHandler) GetBootcampCourses(c *gin.Context) {
	bootcampID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cursor, err := h.DB.Collection("courses").Find(ctx, bson.M{"bootcamp": bootcampID})
	if err != nil {
		fail(c, err)
		return
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err = cursor.All(ctx, &courses); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(courses), "data": courses})
}

// GetCourse returns a single course with its bootcamp's name and
// description joined in.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var course bson.M
	err = h.DB.Collection("courses").FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		fail(c, apperror.NotFound("Course not found with id of %s", idParam))
		return
	}

	results := []bson.M{course}
	if err := middleware.PopulateBootcamps(ctx, h.DB, results); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": results[0]})
}

// CreateCourse adds a course to a bootcamp. The bootcamp must exist and
// belong to the acting user (or the user is an admin).
func (h *CourseHandler) CreateCourse(c *gin.Context) {
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

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var bootcamp models.Bootcamp
	err = h.DB.Collection("bootcamps").FindOne(ctx, bson.M{"_id": bootcampID}).Decode(&bootcamp)
	if err != nil {
		fail(c, apperror.NotFound("No bootcamp with the id of %s", bootcampIDParam))
		return
	}

	if !ownerOrAdmin(user, bootcamp.User) {
		fail(c, apperror.Unauthorized("User %s is not authorized to add a course to bootcamp %s", user.ID.Hex(), bootcampIDParam))
		return
	}

	course := models.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
		CreatedAt:            time.Now(),
		Bootcamp:             bootcampID,
		User:                 user.ID,
	}

	result, err := h.DB.Collection("courses").InsertOne(ctx, course)
	if err != nil {
		fail(c, err)
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		course.ID = oid
	}

	h.updateAverageCost(bootcampID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": course})
}

// UpdateCourse updates a course after the ownership guard passes.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
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

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	courses := h.DB.Collection("courses")

	var course models.Course
	err = courses.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		fail(c, apperror.NotFound("Course not found with id of %s", idParam))
		return
	}

	if !ownerOrAdmin(user, course.User) {
		fail(c, apperror.Unauthorized("User %s is not authorized to update course %s", user.ID.Hex(), idParam))
		return
	}

	update := courseUpdate(req)
	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": course})
		return
	}

	var updated models.Course
	err = courses.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		fail(c, err)
		return
	}

	h.updateAverageCost(course.Bootcamp)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// DeleteCourse removes a course after the ownership guard passes.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
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

	courses := h.DB.Collection("courses")

	var course models.Course
	err = courses.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		fail(c, apperror.NotFound("Course not found with id of %s", idParam))
		return
	}

	if !ownerOrAdmin(user, course.User) {
		fail(c, apperror.Unauthorized("User %s is not authorized to delete course %s", user.ID.Hex(), idParam))
		return
	}

	if _, err := courses.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		fail(c, err)
		return
	}

	h.updateAverageCost(course.Bootcamp)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": course})
}

// courseUpdate collects the fields the request actually sets.
func courseUpdate(req UpdateCourseRequest) bson.M {
	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Weeks != "" {
		update["weeks"] = req.Weeks
	}
	if req.Tuition != nil {
		update["tuition"] = *req.Tuition
	}
	if req.MinimumSkill != "" {
		update["minimumSkill"] = req.MinimumSkill
	}
	if req.ScholarshipAvailable != nil {
		update["scholarshipAvailable"] = *req.ScholarshipAvailable
	}
	return update
}

// updateAverageCost recomputes the bootcamp's averageCost from its
// courses. Best-effort: failures are logged, never surfaced to the client.
func (h *CourseHandler) updateAverageCost(bootcampID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := h.DB.Collection("courses").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$bootcamp",
			"averageCost": bson.M{"$avg": "$tuition"},
		}}},
	})
	if err != nil {
		log.Printf("average cost aggregation for bootcamp %s failed: %v", bootcampID.Hex(), err)
		return
	}
	defer cursor.Close(ctx)

	var rows []struct {
		AverageCost float64 `bson:"averageCost"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		log.Printf("average cost decode for bootcamp %s failed: %v", bootcampID.Hex(), err)
		return
	}

	bootcamps := h.DB.Collection("bootcamps")

	if len(rows) == 0 {
		// Last course is gone, drop the derived field.
		_, err = bootcamps.UpdateOne(ctx, bson.M{"_id": bootcampID}, bson.M{"$unset": bson.M{"averageCost": ""}})
	} else {
		_, err = bootcamps.UpdateOne(ctx,
			bson.M{"_id": bootcampID},
			bson.M{"$set": bson.M{"averageCost": roundUpToTen(rows[0].AverageCost)}},
		)
	}
	if err != nil {
		log.Printf("average cost update for bootcamp %s failed: %v", bootcampID.Hex(), err)
	}
}

// roundUpToTen rounds an average tuition up to the nearest multiple of 10.
func roundUpToTen(value float64) int {
	return int(math.Ceil(value/10) * 10)
}
