// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a person in the StaffHub system - an admin, a reviewer,
// or an employee working at one of the chain's properties.
//
// Role determines capabilities:
//   - "admin": manages trainings, documents, and the employee directory
//   - "reviewer": reviews and publishes knowledge documents
//   - "employee": completes assigned trainings, reads published documents
//
// Employees are scoped to a property and (usually) a department; admins and
// reviewers are chain-wide and carry neither.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped

	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	Role   string `bson:"role" json:"role"`     // "admin", "reviewer", "employee"
	Status string `bson:"status" json:"status"` // "active" or "disabled"

	// Scoping - set for employees, nil for chain-wide staff.
	PropertyID   *primitive.ObjectID `bson:"property_id,omitempty" json:"property_id,omitempty"`
	DepartmentID *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsActive returns true when the user may sign in and receive assignments.
func (u *User) IsActive() bool {
	return u.Status == "active"
}
