// server/internal/api/handlers/bootcamp_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"devcamper-api-server/config"
	"devcamper-api-server/internal/apperror"
	"devcamper-api-server/internal/api/middleware"
	"devcamper-api-server/internal/geocoder"
	"devcamper-api-server/internal/models"
	"devcamper-api-server/internal/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Earth radius in miles, used to convert a distance to radians.
const earthRadiusMiles = 3963.0

type BootcampHandler struct {
	DB       *mongo.Database
	Cfg      config.Config
	Geocoder geocoder.Geocoder
	Photos   storage.PhotoStore
}

type CreateBootcampRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Website       string   `json:"website" binding:"omitempty,url"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Address       string   `json:"address" binding:"required"`
	Careers       []string `json:"careers" binding:"required"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

type UpdateBootcampRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Website       string   `json:"website" binding:"omitempty,url"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Address       string   `json:"address"`
	Careers       []string `json:"careers"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"jobAssistance"`
	JobGuarantee  *bool    `json:"jobGuarantee"`
	AcceptGi      *bool    `json:"acceptGi"`
}

// GetBootcamps forwards the advanced-results envelope.
func (h *BootcampHandler) GetBootcamps(c *gin.Context) {
	forwardAdvancedResults(c)
}

// GetBootcamp returns a single bootcamp by id.
func (h *BootcampHandler) GetBootcamp(c *gin.Context) {
	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var bootcamp models.Bootcamp
	err = h.DB.Collection("bootcamps").FindOne(ctx, bson.M{"_id": id}).Decode(&bootcamp)
	if err != nil {
		fail(c, apperror.NotFound("Bootcamp not found with id of %s", idParam))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": bootcamp})
}

// CreateBootcamp creates a bootcamp owned by the acting user. Non-admin
// users may publish only one.
func (h *BootcampHandler) CreateBootcamp(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, apperror.ServerError("User not found in context"))
		return
	}

	var req CreateBootcampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	bootcamps := h.DB.Collection("bootcamps")

	if user.Role != models.RoleAdmin {
		count, err := bootcamps.CountDocuments(ctx, bson.M{"user": user.ID})
		if err != nil {
			fail(c, err)
			return
		}
		if count > 0 {
			fail(c, apperror.BadRequest("The user with ID %s has already published a bootcamp", user.ID.Hex()))
			return
		}
	}

	bootcamp := models.Bootcamp{
		Name:          req.Name,
		Slug:          Slugify(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Location:      h.geocodeAddress(ctx, req.Address),
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
		CreatedAt:     time.Now(),
		User:          user.ID,
	}

	result, err := bootcamps.InsertOne(ctx, bootcamp)
	if err != nil {
		fail(c, err)
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		bootcamp.ID = oid
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": bootcamp})
}

// UpdateBootcamp updates a bootcamp after the ownership guard passes.
func (h *BootcampHandler) UpdateBootcamp(c *gin.Context) {
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

	var req UpdateBootcampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	bootcamps := h.DB.Collection("bootcamps")

	var bootcamp models.Bootcamp
	err = bootcamps.FindOne(ctx, bson.M{"_id": id}).Decode(&bootcamp)
	if err != nil {
		fail(c, apperror.NotFound("Bootcamp not found with id of %s", idParam))
		return
	}

	if !ownerOrAdmin(user, bootcamp.User) {
		fail(c, apperror.Unauthorized("User %s is not authorized to update this bootcamp", user.ID.Hex()))
		return
	}

	update := bootcampUpdate(req)
	if req.Address != "" {
		if location := h.geocodeAddress(ctx, req.Address); location != nil {
			update["location"] = location
		}
	}

	// An empty $set is a write error, so a body with nothing to change
	// returns the document as-is.
	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": bootcamp})
		return
	}

	var updated models.Bootcamp
	err = bootcamps.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// DeleteBootcamp removes a bootcamp and cascades to its courses and reviews.
func (h *BootcampHandler) DeleteBootcamp(c *gin.Context) {
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

	var bootcamp models.Bootcamp
	err = h.DB.Collection("bootcamps").FindOne(ctx, bson.M{"_id": id}).Decode(&bootcamp)
	if err != nil {
		fail(c, apperror.NotFound("Bootcamp not found with id of %s", idParam))
		return
	}

	if !ownerOrAdmin(user, bootcamp.User) {
		fail(c, apperror.Unauthorized("User %s is not authorized to delete this bootcamp", user.ID.Hex()))
		return
	}

	if _, err := h.DB.Collection("bootcamps").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		fail(c, err)
		return
	}

	// Cascade, best-effort: orphaned children are logged, not surfaced.
	if _, err := h.DB.Collection("courses").DeleteMany(ctx, bson.M{"bootcamp": id}); err != nil {
		log.Printf("cascade delete courses for bootcamp %s failed: %v", idParam, err)
	}
	if _, err := h.DB.Collection("reviews").DeleteMany(ctx, bson.M{"bootcamp": id}); err != nil {
		log.Printf("cascade delete reviews for bootcamp %s failed: %v", idParam, err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": bootcamp})
}

// GetBootcampsInRadius finds bootcamps within the given distance (miles)
// of a zipcode.
func (h *BootcampHandler) GetBootcampsInRadius(c *gin.Context) {
	zipcode := c.Param("zipcode")

	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil || distance <= 0 {
		fail(c, apperror.BadRequest("Please provide a valid distance"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	location, err := h.Geocoder.Geocode(ctx, zipcode)
	if err != nil {
		fail(c, apperror.ServerError("Could not geocode zipcode %s", zipcode))
		return
	}

	radius := distance / earthRadiusMiles

	cursor, err := h.DB.Collection("bootcamps").Find(ctx, bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{location.Longitude, location.Latitude},
					radius,
				},
			},
		},
	})
	if err != nil {
		fail(c, err)
		return
	}
	defer cursor.Close(ctx)

	bootcamps := []models.Bootcamp{}
	if err = cursor.All(ctx, &bootcamps); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bootcamps), "data": bootcamps})
}

// UploadPhoto stores an image for the bootcamp and records its location.
func (h *BootcampHandler) UploadPhoto(c *gin.Context) {
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

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var bootcamp models.Bootcamp
	err = h.DB.Collection("bootcamps").FindOne(ctx, bson.M{"_id": id}).Decode(&bootcamp)
	if err != nil {
		fail(c, apperror.NotFound("Bootcamp not found with id of %s", idParam))
		return
	}

	if !ownerOrAdmin(user, bootcamp.User) {
		fail(c, apperror.Unauthorized("User %s is not authorized to upload a photo", user.ID.Hex()))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, apperror.BadRequest("Please upload a file"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image") {
		fail(c, apperror.BadRequest("Please upload an image file"))
		return
	}

	if fileHeader.Size > h.Cfg.Upload.MaxSize {
		fail(c, apperror.BadRequest("Please upload an image less than %d bytes", h.Cfg.Upload.MaxSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, apperror.ServerError("Problem with file upload"))
		return
	}
	defer file.Close()

	filename := PhotoFilename(bootcamp.ID.Hex(), fileHeader.Filename)

	stored, err := h.Photos.Save(ctx, filename, file, contentType)
	if err != nil {
		fail(c, apperror.ServerError("Problem with file upload"))
		return
	}

	_, err = h.DB.Collection("bootcamps").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"photo": stored}},
	)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stored})
}

// geocodeAddress is best-effort: a bootcamp without coordinates simply
// does not show up in radius searches.
func (h *BootcampHandler) geocodeAddress(ctx context.Context, address string) *models.Location {
	if h.Geocoder == nil {
		return nil
	}

	result, err := h.Geocoder.Geocode(ctx, address)
	if err != nil {
		log.Printf("geocoding %q failed: %v", address, err)
		return nil
	}

	return &models.Location{
		Type:             "Point",
		Coordinates:      []float64{result.Longitude, result.Latitude},
		FormattedAddress: address,
		Street:           result.Street,
		City:             result.City,
		State:            result.State,
		Zipcode:          result.Zipcode,
		Country:          result.Country,
	}
}

// bootcampUpdate collects the fields the request actually sets.
func bootcampUpdate(req UpdateBootcampRequest) bson.M {
	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
		update["slug"] = Slugify(req.Name)
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Website != "" {
		update["website"] = req.Website
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.Address != "" {
		update["address"] = req.Address
	}
	if req.Careers != nil {
		update["careers"] = req.Careers
	}
	if req.Housing != nil {
		update["housing"] = *req.Housing
	}
	if req.JobAssistance != nil {
		update["jobAssistance"] = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		update["jobGuarantee"] = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		update["acceptGi"] = *req.AcceptGi
	}
	return update
}

// Slugify turns a bootcamp name into its URL slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// PhotoFilename renames an upload to photo_<bootcampID><ext>.
func PhotoFilename(bootcampID, originalName string) string {
	return "photo_" + bootcampID + filepath.Ext(originalName)
}
