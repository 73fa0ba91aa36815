// server/internal/api/handlers/handlers_test.go
package handlers

import (
	"testing"

	"devcamper-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOwnerOrAdmin(t *testing.T) {
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	owner := models.User{ID: ownerID, Role: models.RolePublisher}
	stranger := models.User{ID: otherID, Role: models.RolePublisher}
	admin := models.User{ID: otherID, Role: models.RoleAdmin}

	assert.True(t, ownerOrAdmin(owner, ownerID))
	assert.False(t, ownerOrAdmin(stranger, ownerID))
	assert.True(t, ownerOrAdmin(admin, ownerID))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "devworks-bootcamp", Slugify("Devworks Bootcamp"))
	assert.Equal(t, "modern-tech-bootcamp", Slugify("  Modern Tech  Bootcamp  "))
	assert.Equal(t, "codemasters-2023", Slugify("Codemasters 2023!"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestPhotoFilename(t *testing.T) {
	assert.Equal(t, "photo_5d713995b721c3bb38c1f5d0.jpg", PhotoFilename("5d713995b721c3bb38c1f5d0", "campus.jpg"))
	assert.Equal(t, "photo_5d713995b721c3bb38c1f5d0.png", PhotoFilename("5d713995b721c3bb38c1f5d0", "some.dir/shot.png"))
	assert.Equal(t, "photo_5d713995b721c3bb38c1f5d0", PhotoFilename("5d713995b721c3bb38c1f5d0", "noextension"))
}

// An empty request body must never reach the store as an empty $set.
func TestUpdateDocs_EmptyRequests(t *testing.T) {
	assert.Empty(t, bootcampUpdate(UpdateBootcampRequest{}))
	assert.Empty(t, courseUpdate(UpdateCourseRequest{}))
	assert.Empty(t, reviewUpdate(UpdateReviewRequest{}))
	assert.Empty(t, userUpdate(UpdateUserRequest{}))
}

func TestUpdateDocs_SetFieldsOnly(t *testing.T) {
	housing := false
	update := bootcampUpdate(UpdateBootcampRequest{Name: "Devworks Bootcamp", Housing: &housing})
	assert.Equal(t, bson.M{
		"name":    "Devworks Bootcamp",
		"slug":    "devworks-bootcamp",
		"housing": false,
	}, update)

	tuition := 9000.0
	assert.Equal(t, bson.M{"tuition": 9000.0}, courseUpdate(UpdateCourseRequest{Tuition: &tuition}))

	rating := 7
	assert.Equal(t, bson.M{"rating": 7}, reviewUpdate(UpdateReviewRequest{Rating: &rating}))

	assert.Equal(t, bson.M{"role": "publisher"}, userUpdate(UpdateUserRequest{Role: "publisher"}))
}

func TestRoundUpToTen(t *testing.T) {
	assert.Equal(t, 1500, roundUpToTen(1500))
	assert.Equal(t, 1510, roundUpToTen(1501))
	assert.Equal(t, 6670, roundUpToTen(6666.67))
	assert.Equal(t, 0, roundUpToTen(0))
}
