// internal/app/policy/duestatus.go
package duestatus

import (
	"time"

	"github.com/dalemusser/staffhub/internal/domain/models"
)

// Status is the derived lifecycle label for an assignment. It is never
// persisted; callers recompute it at read time from the deadline.
type Status string

const (
	Active    Status = "active"
	DueSoon   Status = "due_soon"
	Overdue   Status = "overdue"
	Completed Status = "completed"
)

// DueSoonWindow is how far ahead of a deadline an assignment is flagged
// for attention.
const DueSoonWindow = 7 * 24 * time.Hour

// Classify derives the lifecycle label from a deadline and the current
// time. It never returns Completed; completion is an externally recorded
// state (see ForUser).
//
// Boundary behavior: a deadline exactly DueSoonWindow out is due_soon, and
// a deadline exactly at now is due_soon, not overdue.
func Classify(deadline *time.Time, now time.Time) Status {
	if deadline == nil {
		return Active
	}
	until := deadline.Sub(now)
	switch {
	case until < 0:
		return Overdue
	case until <= DueSoonWindow:
		return DueSoon
	default:
		return Active
	}
}

// ForUser returns the badge status for one recipient of an assignment.
// A recorded completion wins over anything the deadline would derive.
func ForUser(a *models.TrainingAssignment, completed bool, now time.Time) Status {
	if completed {
		return Completed
	}
	return Classify(a.Deadline, now)
}

// NeedsReminder reports whether an assignment is a reminder-dispatch
// candidate: overdue and not yet reminded this cycle.
func NeedsReminder(a *models.TrainingAssignment, now time.Time) bool {
	return !a.ReminderSent && Classify(a.Deadline, now) == Overdue
}

// IsValid reports whether s is one of the four known labels. Used to
// validate status filter query parameters.
func IsValid(s Status) bool {
	switch s {
	case Active, DueSoon, Overdue, Completed:
		return true
	}
	return false
}
