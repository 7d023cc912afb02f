// internal/domain/models/property.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property represents a single hotel in the chain. Employees belong to
// exactly one property; trainings and documents can be targeted at it.
type Property struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped

	City    string `bson:"city,omitempty" json:"city,omitempty"`
	CityCI  string `bson:"city_ci,omitempty" json:"city_ci,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	StateCI string `bson:"state_ci,omitempty" json:"state_ci,omitempty"`

	TimeZone string `bson:"time_zone" json:"time_zone"` // IANA name, e.g. "America/Chicago"
	Status   string `bson:"status" json:"status"`       // "active" or "disabled"

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
