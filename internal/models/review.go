// server/internal/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review matches the document in the "reviews" collection.
// A user may review a given bootcamp once (unique index on bootcamp+user).
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"text"`
	Rating    int                `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User      primitive.ObjectID `bson:"user" json:"user"`
}
