// internal/domain/models/completion.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Completion records that a user finished (or acknowledged) an assigned
// training. Completion state is stored, never derived: once a completion
// row exists for (assignment, user), that user's badge shows "completed"
// regardless of the deadline.
type Completion struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssignmentID primitive.ObjectID `bson:"assignment_id" json:"assignment_id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`

	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`
}
