// internal/domain/models/trainingassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetType is the audience-selection mode for a training assignment.
type TargetType string

const (
	TargetAll         TargetType = "all"
	TargetUsers       TargetType = "users"
	TargetDepartments TargetType = "departments"
	TargetProperties  TargetType = "properties"
)

// IsValidTargetType reports whether t is one of the four targeting modes.
func IsValidTargetType(t TargetType) bool {
	switch t {
	case TargetAll, TargetUsers, TargetDepartments, TargetProperties:
		return true
	}
	return false
}

// Target is the audience specification an admin builds in the assignment
// form. IDs is meaningful only when Type != TargetAll and must then be
// non-empty; it is ignored for TargetAll.
type Target struct {
	Type TargetType
	IDs  []primitive.ObjectID
}

// RecurringType controls whether an assignment regenerates after its
// deadline passes.
type RecurringType string

const (
	RecurringNone      RecurringType = "none"
	RecurringMonthly   RecurringType = "monthly"
	RecurringQuarterly RecurringType = "quarterly"
)

// IsValidRecurringType reports whether r is a known recurrence mode.
func IsValidRecurringType(r RecurringType) bool {
	switch r {
	case RecurringNone, RecurringMonthly, RecurringQuarterly:
		return true
	}
	return false
}

// TrainingAssignment represents a commitment for a target audience to
// complete a training by an optional deadline.
//
// TargetType tags the audience mode. TargetID carries the single
// department/property/user the row applies to; it is nil exactly when
// TargetType is "all" (one row covers everyone). Multi-id targeting is
// stored as one row per id, all sharing the same deadline.
type TrainingAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainingID primitive.ObjectID `bson:"training_id" json:"training_id"`

	TargetType TargetType          `bson:"target_type" json:"target_type"`
	TargetID   *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"`

	// Deadline is optional; nil means the assignment never becomes
	// due-soon or overdue. Past deadlines are accepted and surface as
	// overdue immediately.
	Deadline *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`

	Recurring  RecurringType `bson:"recurring" json:"recurring"`
	AutoEnroll bool          `bson:"auto_enroll" json:"auto_enroll"`

	// ReminderSent records whether an overdue reminder has been dispatched
	// for the current cycle. Reset when a recurring assignment rolls over.
	ReminderSent bool `bson:"reminder_sent" json:"reminder_sent"`

	// Instructions is copied from Training.DefaultInstructions when
	// assigned but can be customized per assignment.
	Instructions string `bson:"instructions" json:"instructions"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// IsEveryone returns true if this assignment covers the whole active roster.
func (a *TrainingAssignment) IsEveryone() bool {
	return a.TargetType == TargetAll
}

// Target reconstructs the single-row audience specification. Rows created
// from a multi-id form submission each report a one-element Target.
func (a *TrainingAssignment) Target() Target {
	t := Target{Type: a.TargetType}
	if a.TargetID != nil && !a.TargetID.IsZero() {
		t.IDs = []primitive.ObjectID{*a.TargetID}
	}
	return t
}
