// server/internal/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Minimum skill levels a course can require.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Course matches the document in the "courses" collection.
// Bootcamp must reference an existing bootcamp document.
type Course struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string             `bson:"title" json:"title"`
	Description          string             `bson:"description" json:"description"`
	Weeks                string             `bson:"weeks" json:"weeks"`
	Tuition              float64            `bson:"tuition" json:"tuition"`
	MinimumSkill         string             `bson:"minimumSkill" json:"minimumSkill"`
	ScholarshipAvailable bool               `bson:"scholarshipAvailable" json:"scholarshipAvailable"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	Bootcamp             primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User                 primitive.ObjectID `bson:"user" json:"user"`
}
