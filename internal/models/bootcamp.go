// server/internal/models/bootcamp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a GeoJSON point plus the address parts the geocoder resolved.
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
	FormattedAddress string    `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

// Bootcamp matches the document in the "bootcamps" collection.
// AverageCost and AverageRating are derived from courses and reviews,
// they are never written directly by a request body.
type Bootcamp struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Location      *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Careers       []string           `bson:"careers" json:"careers"`
	AverageRating float64            `bson:"averageRating,omitempty" json:"averageRating,omitempty"`
	AverageCost   int                `bson:"averageCost,omitempty" json:"averageCost,omitempty"`
	Photo         string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Housing       bool               `bson:"housing" json:"housing"`
	JobAssistance bool               `bson:"jobAssistance" json:"jobAssistance"`
	JobGuarantee  bool               `bson:"jobGuarantee" json:"jobGuarantee"`
	AcceptGi      bool               `bson:"acceptGi" json:"acceptGi"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	User          primitive.ObjectID `bson:"user" json:"user"`
}
