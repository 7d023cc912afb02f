// internal/domain/models/department.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department represents a chain-wide department (Housekeeping, Front Desk,
// Food & Beverage, ...). An employee belongs to at most one department,
// regardless of which property they work at, so a department-targeted
// training reaches staff across the whole chain.
type Department struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"`

	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Status      string `bson:"status" json:"status"` // "active" or "disabled"

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
