// internal/domain/models/training.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Training represents a training module (compliance course, safety video,
// onboarding checklist, ...) that can be assigned to employees via
// TrainingAssignment records.
type Training struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped

	Subject   string `bson:"subject,omitempty" json:"subject,omitempty"`
	SubjectCI string `bson:"subject_ci,omitempty" json:"subject_ci,omitempty"`

	Type   string `bson:"type" json:"type"`     // e.g. "course", "video", "acknowledgment"
	Status string `bson:"status" json:"status"` // "active" or "disabled"

	// LaunchURL points at the externally hosted training content.
	LaunchURL string `bson:"launch_url,omitempty" json:"launch_url,omitempty"`

	Description         string `bson:"description,omitempty" json:"description,omitempty"`
	DefaultInstructions string `bson:"default_instructions,omitempty" json:"default_instructions,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// TrainingTypes is the canonical list of allowed training types.
var TrainingTypes = []string{"course", "video", "document", "acknowledgment"}

// DefaultTrainingType is used when no type is supplied on creation.
const DefaultTrainingType = "course"

// IsValidTrainingType reports whether t is one of the canonical types.
func IsValidTrainingType(t string) bool {
	for _, v := range TrainingTypes {
		if v == t {
			return true
		}
	}
	return false
}
