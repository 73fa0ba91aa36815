// server/internal/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. A publisher can own one bootcamp, an admin can do anything.
const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// User matches the document in the "users" collection.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Role                string             `bson:"role" json:"role"`
	Password            string             `bson:"password" json:"-"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire time.Time          `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}
